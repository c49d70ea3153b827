package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jaevor/go-nanoid"

	"github.com/LavaJover/little-brother/internal/domain"
	userdto "github.com/LavaJover/little-brother/internal/usecase/dto/user"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

const (
	accessCodeAlphabet = "0123456789"
	accessCodeLength   = 6
)

type UserUsecase interface {
	AddNewUser(ctx context.Context, input *userdto.CreateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, username string) error
	UpdateUser(ctx context.Context, input *userdto.UpdateUserInput) error
	GetUser(ctx context.Context, username string) (*domain.User, error)
	Users(ctx context.Context) ([]*domain.User, error)
	UserMap(ctx context.Context) (map[string]*domain.User, error)
	SortedUsers(ctx context.Context) ([]*domain.User, error)
	AssignRuleSet(ctx context.Context, username string) (*domain.RuleSet, error)
	CheckAccessCode(ctx context.Context, username, accessCode string) (*domain.User, error)
}

type DefaultUserUsecase struct {
	userRepo    domain.UserRepository
	ruleSetRepo domain.RuleSetRepository
	validator   *validation.Validator
	accessCode  func() string
	logger      *slog.Logger
}

func NewDefaultUserUsecase(
	userRepo domain.UserRepository,
	ruleSetRepo domain.RuleSetRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) (*DefaultUserUsecase, error) {
	accessCode, err := nanoid.CustomASCII(accessCodeAlphabet, accessCodeLength)
	if err != nil {
		return nil, err
	}

	return &DefaultUserUsecase{
		userRepo:    userRepo,
		ruleSetRepo: ruleSetRepo,
		validator:   validator,
		accessCode:  accessCode,
		logger:      logger.With("component", "user_usecase"),
	}, nil
}

// AddNewUser stores the user together with its fixed default rule set.
func (uc *DefaultUserUsecase) AddNewUser(ctx context.Context, input *userdto.CreateUserInput) (*domain.User, error) {
	if err := uc.validator.Validate(input); err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:           input.Username,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Locale:             input.Locale,
		Active:             true,
		AccessCode:         uc.accessCode(),
		ProcessNamePattern: domain.DefaultProcessNamePattern,
	}
	ruleSet := domain.NewDefaultRuleSet("", domain.DefaultRuleSetPriority)

	if err := uc.userRepo.CreateUser(ctx, user, ruleSet); err != nil {
		uc.logger.Warn("cannot create user", "user", input.Username, "error", err)
		return nil, err
	}
	user.RuleSets = []*domain.RuleSet{ruleSet}

	uc.logger.Info("user created", "user", user.Username)
	return user, nil
}

func (uc *DefaultUserUsecase) DeleteUser(ctx context.Context, username string) error {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := uc.userRepo.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}

	uc.logger.Info("user deleted", "user", username)
	return nil
}

func (uc *DefaultUserUsecase) UpdateUser(ctx context.Context, input *userdto.UpdateUserInput) error {
	if err := uc.validator.Validate(input); err != nil {
		return err
	}

	user, err := uc.userRepo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return err
	}

	pattern := input.ProcessNamePattern
	if pattern == "" {
		pattern = user.ProcessNamePattern
	}

	return uc.userRepo.UpdateUser(ctx, user.ID, domain.UpdateUserParams{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Locale:             input.Locale,
		Active:             input.Active,
		ProcessNamePattern: pattern,
	})
}

func (uc *DefaultUserUsecase) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetUserByUsername(ctx, username)
}

func (uc *DefaultUserUsecase) Users(ctx context.Context) ([]*domain.User, error) {
	return uc.userRepo.ListUsers(ctx)
}

func (uc *DefaultUserUsecase) UserMap(ctx context.Context) (map[string]*domain.User, error) {
	users, err := uc.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	userMap := make(map[string]*domain.User, len(users))
	for _, user := range users {
		userMap[user.Username] = user
	}
	return userMap, nil
}

// SortedUsers orders by full name, ignoring case.
func (uc *DefaultUserUsecase) SortedUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := uc.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	sorted := make([]*domain.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].FullName()) < strings.ToLower(sorted[j].FullName())
	})
	return sorted, nil
}

// AssignRuleSet appends an unrestricted rule set above the current highest
// priority.
func (uc *DefaultUserUsecase) AssignRuleSet(ctx context.Context, username string) (*domain.RuleSet, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ruleSet := domain.NewDefaultRuleSet(user.ID, user.MaxRulePriority()+1)
	if err := uc.ruleSetRepo.CreateRuleSet(ctx, ruleSet); err != nil {
		return nil, fmt.Errorf("assign rule set to %s: %w", username, err)
	}

	uc.logger.Info("rule set assigned", "user", username, "priority", ruleSet.Priority)
	return ruleSet, nil
}

func (uc *DefaultUserUsecase) CheckAccessCode(ctx context.Context, username, accessCode string) (*domain.User, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.AccessCode == "" || subtle.ConstantTimeCompare([]byte(user.AccessCode), []byte(accessCode)) != 1 {
		uc.logger.Warn("invalid access code", "user", username)
		return nil, domain.ErrInvalidAccessCode
	}
	return user, nil
}
