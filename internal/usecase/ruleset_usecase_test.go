package usecase

import (
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
	rulesetdto "github.com/LavaJover/little-brother/internal/usecase/dto/ruleset"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

// userWithRuleSets returns the rule sets of a new user by priority 1..n.
func (s *UsecaseSuite) userWithRuleSets(username string, n int) []*domain.RuleSet {
	user := s.addUser(username)
	ruleSets := []*domain.RuleSet{user.RuleSets[0]}
	for i := 1; i < n; i++ {
		rs, err := s.users.AssignRuleSet(s.ctx, username)
		s.Require().NoError(err)
		ruleSets = append(ruleSets, rs)
	}
	return ruleSets
}

func (s *UsecaseSuite) priorityOf(ruleSetID string) int {
	rs, err := s.ruleSets.GetRuleSet(s.ctx, ruleSetID)
	s.Require().NoError(err)
	return rs.Priority
}

func (s *UsecaseSuite) TestUpdateRuleSet() {
	ruleSets := s.userWithRuleSets("kid", 2)

	updated, err := s.ruleSets.UpdateRuleSet(s.ctx, &rulesetdto.UpdateRuleSetInput{
		RuleSetID:      ruleSets[1].ID,
		Context:        "weekday",
		ContextDetails: "weekend",
		ContextLabel:   "Weekend",
		MinTimeOfDay:   "9",
		MaxTimeOfDay:   "21:30",
		MaxTimePerDay:  durationPtr(3 * time.Hour),
	})
	s.Require().NoError(err)
	s.Equal(2, updated.Priority)

	stored, err := s.ruleSets.GetRuleSet(s.ctx, ruleSets[1].ID)
	s.Require().NoError(err)
	s.Equal("weekday", stored.Context)
	s.Equal("Weekend", stored.Label())
	s.Equal(domain.TimeOfDay{Hour: 9}, *stored.MinTimeOfDay)
	s.Equal(domain.TimeOfDay{Hour: 21, Minute: 30}, *stored.MaxTimeOfDay)
	s.Equal(3*time.Hour, *stored.MaxTimePerDay)
	s.Nil(stored.MinBreak)
}

func (s *UsecaseSuite) TestUpdateRuleSet_Rejected() {
	ruleSets := s.userWithRuleSets("kid", 2)

	tests := map[string]struct {
		input   *rulesetdto.UpdateRuleSetInput
		wantErr error
	}{
		"unknown context": {
			input:   &rulesetdto.UpdateRuleSetInput{RuleSetID: ruleSets[1].ID, Context: "holidays"},
			wantErr: domain.ErrInvalidContext,
		},
		"bad weekday details": {
			input:   &rulesetdto.UpdateRuleSetInput{RuleSetID: ruleSets[1].ID, Context: "weekday", ContextDetails: "1"},
			wantErr: domain.ErrInvalidContext,
		},
		"fixed context": {
			input:   &rulesetdto.UpdateRuleSetInput{RuleSetID: ruleSets[0].ID, Context: "weekday", ContextDetails: "weekend"},
			wantErr: domain.ErrRuleSetFixed,
		},
		"bad time of day": {
			input:   &rulesetdto.UpdateRuleSetInput{RuleSetID: ruleSets[1].ID, MaxTimeOfDay: "7pm"},
			wantErr: validation.ErrInvalidInput,
		},
		"unknown rule set": {
			input:   &rulesetdto.UpdateRuleSetInput{RuleSetID: "missing"},
			wantErr: domain.ErrRuleSetNotFound,
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			_, err := s.ruleSets.UpdateRuleSet(s.ctx, tt.input)
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *UsecaseSuite) TestDeleteRuleSet() {
	ruleSets := s.userWithRuleSets("kid", 2)

	s.ErrorIs(s.ruleSets.DeleteRuleSet(s.ctx, ruleSets[0].ID), domain.ErrRuleSetFixed)
	s.Require().NoError(s.ruleSets.DeleteRuleSet(s.ctx, ruleSets[1].ID))
	s.ErrorIs(s.ruleSets.DeleteRuleSet(s.ctx, ruleSets[1].ID), domain.ErrRuleSetNotFound)
}

func (s *UsecaseSuite) TestMoveRuleSets() {
	ruleSets := s.userWithRuleSets("kid", 3)
	second, third := ruleSets[1].ID, ruleSets[2].ID

	s.ErrorIs(s.ruleSets.MoveUp(s.ctx, third), domain.ErrRuleSetNotMovable)
	s.ErrorIs(s.ruleSets.MoveDown(s.ctx, second), domain.ErrRuleSetNotMovable)
	s.ErrorIs(s.ruleSets.MoveUp(s.ctx, ruleSets[0].ID), domain.ErrRuleSetNotMovable)

	s.Require().NoError(s.ruleSets.MoveUp(s.ctx, second))
	s.Equal(3, s.priorityOf(second))
	s.Equal(2, s.priorityOf(third))

	s.Require().NoError(s.ruleSets.MoveDown(s.ctx, second))
	s.Equal(2, s.priorityOf(second))
	s.Equal(3, s.priorityOf(third))
	s.Equal(1, s.priorityOf(ruleSets[0].ID))
}
