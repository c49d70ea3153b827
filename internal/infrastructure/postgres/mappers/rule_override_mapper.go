package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMRuleOverride(o *domain.RuleOverride) *models.RuleOverrideModel {
	return &models.RuleOverrideModel{
		ID:                  o.ID,
		Username:            o.Username,
		ReferenceDate:       ToGORMDate(o.ReferenceDate),
		MaxTimePerDay:       toSeconds(o.MaxTimePerDay),
		MinTimeOfDay:        toGORMTime(o.MinTimeOfDay),
		MaxTimeOfDay:        toGORMTime(o.MaxTimeOfDay),
		MinBreak:            toSeconds(o.MinBreak),
		MaxActivityDuration: toSeconds(o.MaxActivityDuration),
		FreePlay:            o.FreePlay,
	}
}

func ToDomainRuleOverride(model *models.RuleOverrideModel) *domain.RuleOverride {
	return &domain.RuleOverride{
		ID:                  model.ID,
		Username:            model.Username,
		ReferenceDate:       toDomainDate(model.ReferenceDate),
		MaxTimePerDay:       toDuration(model.MaxTimePerDay),
		MinTimeOfDay:        toDomainTimeOfDay(model.MinTimeOfDay),
		MaxTimeOfDay:        toDomainTimeOfDay(model.MaxTimeOfDay),
		MinBreak:            toDuration(model.MinBreak),
		MaxActivityDuration: toDuration(model.MaxActivityDuration),
		FreePlay:            model.FreePlay,
	}
}
