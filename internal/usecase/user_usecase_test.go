package usecase

import (
	"regexp"

	"github.com/LavaJover/little-brother/internal/domain"
	userdto "github.com/LavaJover/little-brother/internal/usecase/dto/user"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

func (s *UsecaseSuite) TestAddNewUser() {
	user := s.addUser("kid")

	s.True(user.Active)
	s.Regexp(regexp.MustCompile(`^[0-9]{6}$`), user.AccessCode)
	s.Equal(domain.DefaultProcessNamePattern, user.ProcessNamePattern)

	stored, err := s.users.GetUser(s.ctx, "kid")
	s.Require().NoError(err)
	s.Require().Len(stored.RuleSets, 1)
	s.Equal(domain.DefaultRuleSetPriority, stored.RuleSets[0].Priority)
	s.Equal(domain.DefaultContext, stored.RuleSets[0].Context)
}

func (s *UsecaseSuite) TestAddNewUser_Rejected() {
	s.addUser("kid")

	_, err := s.users.AddNewUser(s.ctx, &userdto.CreateUserInput{Username: "kid"})
	s.ErrorIs(err, domain.ErrUserExists)

	_, err = s.users.AddNewUser(s.ctx, &userdto.CreateUserInput{})
	s.ErrorIs(err, validation.ErrInvalidInput)
}

func (s *UsecaseSuite) TestAssignRuleSet() {
	s.addUser("kid")

	first, err := s.users.AssignRuleSet(s.ctx, "kid")
	s.Require().NoError(err)
	second, err := s.users.AssignRuleSet(s.ctx, "kid")
	s.Require().NoError(err)

	s.Equal(2, first.Priority)
	s.Equal(3, second.Priority)

	_, err = s.users.AssignRuleSet(s.ctx, "nobody")
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *UsecaseSuite) TestSortedUsersAndUserMap() {
	s.addUser("zed")
	s.addUser("bob")
	s.Require().NoError(s.users.UpdateUser(s.ctx, &userdto.UpdateUserInput{Username: "zed", FirstName: "Anna", Active: true}))

	sorted, err := s.users.SortedUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sorted, 2)
	s.Equal("zed", sorted[0].Username)
	s.Equal("Anna", sorted[0].FullName())

	userMap, err := s.users.UserMap(s.ctx)
	s.Require().NoError(err)
	s.Contains(userMap, "bob")
	s.Contains(userMap, "zed")
}

func (s *UsecaseSuite) TestUpdateUser_KeepsProcessPattern() {
	s.addUser("kid")

	s.Require().NoError(s.users.UpdateUser(s.ctx, &userdto.UpdateUserInput{Username: "kid", Locale: "de"}))

	user, err := s.users.GetUser(s.ctx, "kid")
	s.Require().NoError(err)
	s.Equal("de", user.Locale)
	s.False(user.Active)
	s.Equal(domain.DefaultProcessNamePattern, user.ProcessNamePattern)
}

func (s *UsecaseSuite) TestCheckAccessCode() {
	user := s.addUser("kid")

	got, err := s.users.CheckAccessCode(s.ctx, "kid", user.AccessCode)
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)

	_, err = s.users.CheckAccessCode(s.ctx, "kid", "wrong")
	s.ErrorIs(err, domain.ErrInvalidAccessCode)

	_, err = s.users.CheckAccessCode(s.ctx, "nobody", user.AccessCode)
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *UsecaseSuite) TestDeleteUser() {
	s.addUser("kid")

	s.Require().NoError(s.users.DeleteUser(s.ctx, "kid"))

	_, err := s.users.GetUser(s.ctx, "kid")
	s.ErrorIs(err, domain.ErrUserNotFound)
	s.ErrorIs(s.users.DeleteUser(s.ctx, "kid"), domain.ErrUserNotFound)
}
