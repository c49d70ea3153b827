package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/rules"
	rulesetdto "github.com/LavaJover/little-brother/internal/usecase/dto/ruleset"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

type RuleSetUsecase interface {
	GetRuleSet(ctx context.Context, ruleSetID string) (*domain.RuleSet, error)
	UpdateRuleSet(ctx context.Context, input *rulesetdto.UpdateRuleSetInput) (*domain.RuleSet, error)
	DeleteRuleSet(ctx context.Context, ruleSetID string) error
	MoveUp(ctx context.Context, ruleSetID string) error
	MoveDown(ctx context.Context, ruleSetID string) error
}

// ContextLookup resolves rule set context names.
type ContextLookup interface {
	ContextHandler(name string) (rules.ContextHandler, bool)
}

type detailsValidator interface {
	Validate(details string) error
}

type DefaultRuleSetUsecase struct {
	ruleSetRepo domain.RuleSetRepository
	contexts    ContextLookup
	validator   *validation.Validator
	logger      *slog.Logger
}

func NewDefaultRuleSetUsecase(
	ruleSetRepo domain.RuleSetRepository,
	contexts ContextLookup,
	validator *validation.Validator,
	logger *slog.Logger,
) *DefaultRuleSetUsecase {
	return &DefaultRuleSetUsecase{
		ruleSetRepo: ruleSetRepo,
		contexts:    contexts,
		validator:   validator,
		logger:      logger.With("component", "ruleset_usecase"),
	}
}

func (uc *DefaultRuleSetUsecase) GetRuleSet(ctx context.Context, ruleSetID string) (*domain.RuleSet, error) {
	return uc.ruleSetRepo.GetRuleSetByID(ctx, ruleSetID)
}

// UpdateRuleSet replaces every editable field. The priority 1 rule set keeps
// the default context.
func (uc *DefaultRuleSetUsecase) UpdateRuleSet(ctx context.Context, input *rulesetdto.UpdateRuleSetInput) (*domain.RuleSet, error) {
	if err := uc.validator.Validate(input); err != nil {
		return nil, err
	}

	ruleSet, err := uc.ruleSetRepo.GetRuleSetByID(ctx, input.RuleSetID)
	if err != nil {
		return nil, err
	}

	contextName := input.Context
	if contextName == "" {
		contextName = domain.DefaultContext
	}
	if ruleSet.FixedContext() && contextName != domain.DefaultContext {
		return nil, fmt.Errorf("%w: context of priority 1 rule set", domain.ErrRuleSetFixed)
	}
	if err := uc.validateContext(contextName, input.ContextDetails); err != nil {
		return nil, err
	}

	updated, err := applyRuleSetInput(ruleSet, contextName, input)
	if err != nil {
		return nil, err
	}

	if err := uc.ruleSetRepo.UpdateRuleSet(ctx, updated); err != nil {
		return nil, fmt.Errorf("update rule set %s: %w", ruleSet.ID, err)
	}
	return updated, nil
}

func (uc *DefaultRuleSetUsecase) validateContext(name, details string) error {
	handler, ok := uc.contexts.ContextHandler(name)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrInvalidContext, name)
	}

	if v, ok := handler.(detailsValidator); ok {
		return v.Validate(details)
	}
	return nil
}

func applyRuleSetInput(ruleSet *domain.RuleSet, contextName string, input *rulesetdto.UpdateRuleSetInput) (*domain.RuleSet, error) {
	updated := ruleSet.Clone()
	updated.Context = contextName
	updated.ContextDetails = input.ContextDetails
	updated.ContextLabel = input.ContextLabel
	updated.MaxTimePerDay = input.MaxTimePerDay
	updated.MaxActivityDuration = input.MaxActivityDuration
	updated.MinBreak = input.MinBreak
	updated.OptionalTimePerDay = input.OptionalTimePerDay
	updated.FreePlay = input.FreePlay

	var err error
	if updated.MinTimeOfDay, err = parseOptionalTimeOfDay(input.MinTimeOfDay); err != nil {
		return nil, err
	}
	if updated.MaxTimeOfDay, err = parseOptionalTimeOfDay(input.MaxTimeOfDay); err != nil {
		return nil, err
	}
	return updated, nil
}

func parseOptionalTimeOfDay(s string) (*domain.TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &tod, nil
}

func (uc *DefaultRuleSetUsecase) DeleteRuleSet(ctx context.Context, ruleSetID string) error {
	ruleSet, err := uc.ruleSetRepo.GetRuleSetByID(ctx, ruleSetID)
	if err != nil {
		return err
	}

	if ruleSet.FixedContext() {
		return domain.ErrRuleSetFixed
	}

	if err := uc.ruleSetRepo.DeleteRuleSet(ctx, ruleSetID); err != nil {
		return err
	}

	uc.logger.Info("rule set deleted", "rule_set_id", ruleSetID, "priority", ruleSet.Priority)
	return nil
}

// MoveUp swaps priorities with the next higher rule set of the same user.
func (uc *DefaultRuleSetUsecase) MoveUp(ctx context.Context, ruleSetID string) error {
	ruleSet, siblings, err := uc.withSiblings(ctx, ruleSetID)
	if err != nil {
		return err
	}

	maxPriority := 0
	for _, rs := range siblings {
		maxPriority = max(maxPriority, rs.Priority)
	}
	if !ruleSet.CanMoveUp(maxPriority) {
		return domain.ErrRuleSetNotMovable
	}

	var neighbour *domain.RuleSet
	for _, rs := range siblings {
		if rs.Priority > ruleSet.Priority && (neighbour == nil || rs.Priority < neighbour.Priority) {
			neighbour = rs
		}
	}
	return uc.swap(ctx, ruleSet, neighbour)
}

// MoveDown swaps priorities with the next lower rule set. The fixed rule set
// is never a partner.
func (uc *DefaultRuleSetUsecase) MoveDown(ctx context.Context, ruleSetID string) error {
	ruleSet, siblings, err := uc.withSiblings(ctx, ruleSetID)
	if err != nil {
		return err
	}

	if !ruleSet.CanMoveDown() {
		return domain.ErrRuleSetNotMovable
	}

	var neighbour *domain.RuleSet
	for _, rs := range siblings {
		if rs.Priority < ruleSet.Priority && (neighbour == nil || rs.Priority > neighbour.Priority) {
			neighbour = rs
		}
	}
	return uc.swap(ctx, ruleSet, neighbour)
}

func (uc *DefaultRuleSetUsecase) withSiblings(ctx context.Context, ruleSetID string) (*domain.RuleSet, []*domain.RuleSet, error) {
	ruleSet, err := uc.ruleSetRepo.GetRuleSetByID(ctx, ruleSetID)
	if err != nil {
		return nil, nil, err
	}

	siblings, err := uc.ruleSetRepo.GetUserRuleSets(ctx, ruleSet.UserID)
	if err != nil {
		return nil, nil, err
	}
	return ruleSet, siblings, nil
}

func (uc *DefaultRuleSetUsecase) swap(ctx context.Context, ruleSet, neighbour *domain.RuleSet) error {
	if neighbour == nil || neighbour.FixedContext() {
		return domain.ErrRuleSetNotMovable
	}

	if err := uc.ruleSetRepo.SwapPriorities(ctx, ruleSet, neighbour); err != nil {
		return fmt.Errorf("swap rule set priorities: %w", err)
	}

	uc.logger.Info("rule set moved", "rule_set_id", ruleSet.ID, "priority", ruleSet.Priority)
	return nil
}
