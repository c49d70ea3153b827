package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/rulefile"
	rulesetdto "github.com/LavaJover/little-brother/internal/usecase/dto/ruleset"
	userdto "github.com/LavaJover/little-brother/internal/usecase/dto/user"
)

type ImportResult struct {
	UsersCreated    int
	RuleSetsCreated int
	RuleSetsUpdated int
}

type RuleImportUsecase interface {
	Import(ctx context.Context, file *rulefile.File) error
	ImportFile(ctx context.Context, file *rulefile.File) (*ImportResult, error)
}

// DefaultRuleImportUsecase creates missing users and writes each rule set
// entry onto the rule set of the same priority, creating unrestricted rule
// sets to fill priority gaps.
type DefaultRuleImportUsecase struct {
	userUsecase    UserUsecase
	ruleSetUsecase RuleSetUsecase
	logger         *slog.Logger
}

func NewDefaultRuleImportUsecase(userUsecase UserUsecase, ruleSetUsecase RuleSetUsecase, logger *slog.Logger) *DefaultRuleImportUsecase {
	return &DefaultRuleImportUsecase{
		userUsecase:    userUsecase,
		ruleSetUsecase: ruleSetUsecase,
		logger:         logger.With("component", "rule_import_usecase"),
	}
}

func (uc *DefaultRuleImportUsecase) Import(ctx context.Context, file *rulefile.File) error {
	_, err := uc.ImportFile(ctx, file)
	return err
}

func (uc *DefaultRuleImportUsecase) ImportFile(ctx context.Context, file *rulefile.File) (*ImportResult, error) {
	result := &ImportResult{}

	for _, entry := range file.Users {
		if err := uc.importUser(ctx, entry, result); err != nil {
			return result, fmt.Errorf("import user %s: %w", entry.Username, err)
		}
	}

	uc.logger.Info("rule file applied",
		"users_created", result.UsersCreated,
		"rule_sets_created", result.RuleSetsCreated,
		"rule_sets_updated", result.RuleSetsUpdated)
	return result, nil
}

func (uc *DefaultRuleImportUsecase) importUser(ctx context.Context, entry rulefile.User, result *ImportResult) error {
	user, err := uc.userUsecase.GetUser(ctx, entry.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = uc.userUsecase.AddNewUser(ctx, &userdto.CreateUserInput{
			Username:  entry.Username,
			FirstName: entry.FirstName,
			LastName:  entry.LastName,
			Locale:    entry.Locale,
		})
		if err == nil {
			result.UsersCreated++
		}
	}
	if err != nil {
		return err
	}

	byPriority := make(map[int]*domain.RuleSet, len(user.RuleSets))
	for _, rs := range user.RuleSets {
		byPriority[rs.Priority] = rs
	}
	maxPriority := user.MaxRulePriority()

	entries := make([]rulefile.RuleSet, len(entry.RuleSets))
	copy(entries, entry.RuleSets)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Priority < entries[j].Priority })

	for _, rsEntry := range entries {
		for maxPriority < rsEntry.Priority {
			rs, err := uc.userUsecase.AssignRuleSet(ctx, user.Username)
			if err != nil {
				return err
			}
			byPriority[rs.Priority] = rs
			maxPriority = rs.Priority
			result.RuleSetsCreated++
		}

		target, ok := byPriority[rsEntry.Priority]
		if !ok {
			return fmt.Errorf("%w: no rule set with priority %d", domain.ErrRuleSetNotFound, rsEntry.Priority)
		}

		_, err := uc.ruleSetUsecase.UpdateRuleSet(ctx, &rulesetdto.UpdateRuleSetInput{
			RuleSetID:           target.ID,
			Context:             rsEntry.Context,
			ContextDetails:      rsEntry.ContextDetails,
			ContextLabel:        rsEntry.ContextLabel,
			MinTimeOfDay:        rsEntry.MinTimeOfDay,
			MaxTimeOfDay:        rsEntry.MaxTimeOfDay,
			MaxTimePerDay:       rsEntry.MaxTimePerDay.Value,
			MaxActivityDuration: rsEntry.MaxActivityDuration.Value,
			MinBreak:            rsEntry.MinBreak.Value,
			OptionalTimePerDay:  rsEntry.OptionalTimePerDay.Value,
			FreePlay:            rsEntry.FreePlay,
		})
		if err != nil {
			return fmt.Errorf("rule set priority %d: %w", rsEntry.Priority, err)
		}
		result.RuleSetsUpdated++
	}
	return nil
}
