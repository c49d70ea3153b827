package usecase

import (
	"time"

	"github.com/LavaJover/little-brother/internal/infrastructure/rulefile"
)

const importFile = `
[[user]]
username = "kid"
first_name = "Kim"

[[user.ruleset]]
priority = 1
max_time_per_day = "2h"

[[user.ruleset]]
priority = 3
context = "weekday"
context_details = "weekend"
label = "Weekend"
max_time_of_day = "21:00"
`

func (s *UsecaseSuite) TestImportFile() {
	file, err := rulefile.Parse([]byte(importFile))
	s.Require().NoError(err)

	result, err := s.imports.ImportFile(s.ctx, file)
	s.Require().NoError(err)
	s.Equal(&ImportResult{UsersCreated: 1, RuleSetsCreated: 2, RuleSetsUpdated: 2}, result)

	user, err := s.users.GetUser(s.ctx, "kid")
	s.Require().NoError(err)
	s.Equal("Kim", user.FirstName)

	ruleSets := user.SortedRuleSets()
	s.Require().Len(ruleSets, 3)
	s.Equal(2*time.Hour, *ruleSets[0].MaxTimePerDay)
	s.Equal("default", ruleSets[1].Context)
	s.Nil(ruleSets[1].MaxTimePerDay)
	s.Equal("Weekend", ruleSets[2].Label())
	s.Equal(21, ruleSets[2].MaxTimeOfDay.Hour)

	// applying the same file again only rewrites
	result, err = s.imports.ImportFile(s.ctx, file)
	s.Require().NoError(err)
	s.Equal(&ImportResult{RuleSetsUpdated: 2}, result)

	user, err = s.users.GetUser(s.ctx, "kid")
	s.Require().NoError(err)
	s.Len(user.RuleSets, 3)
}

func (s *UsecaseSuite) TestImportFile_InvalidContext() {
	file, err := rulefile.Parse([]byte(`
[[user]]
username = "kid"

[[user.ruleset]]
priority = 2
context = "holidays"
`))
	s.Require().NoError(err)

	_, err = s.imports.ImportFile(s.ctx, file)
	s.Error(err)
}
