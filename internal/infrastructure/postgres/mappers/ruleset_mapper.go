package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMRuleSet(rs *domain.RuleSet) *models.RuleSetModel {
	return &models.RuleSetModel{
		ID:                  rs.ID,
		UserID:              rs.UserID,
		Context:             rs.Context,
		ContextDetails:      rs.ContextDetails,
		ContextLabel:        rs.ContextLabel,
		Priority:            rs.Priority,
		MinTimeOfDay:        toGORMTime(rs.MinTimeOfDay),
		MaxTimeOfDay:        toGORMTime(rs.MaxTimeOfDay),
		MaxTimePerDay:       toSeconds(rs.MaxTimePerDay),
		MaxActivityDuration: toSeconds(rs.MaxActivityDuration),
		MinBreak:            toSeconds(rs.MinBreak),
		OptionalTimePerDay:  toSeconds(rs.OptionalTimePerDay),
		FreePlay:            rs.FreePlay,
	}
}

func ToDomainRuleSet(model *models.RuleSetModel) *domain.RuleSet {
	return &domain.RuleSet{
		ID:                  model.ID,
		UserID:              model.UserID,
		Context:             model.Context,
		ContextDetails:      model.ContextDetails,
		ContextLabel:        model.ContextLabel,
		Priority:            model.Priority,
		MinTimeOfDay:        toDomainTimeOfDay(model.MinTimeOfDay),
		MaxTimeOfDay:        toDomainTimeOfDay(model.MaxTimeOfDay),
		MaxTimePerDay:       toDuration(model.MaxTimePerDay),
		MaxActivityDuration: toDuration(model.MaxActivityDuration),
		MinBreak:            toDuration(model.MinBreak),
		OptionalTimePerDay:  toDuration(model.OptionalTimePerDay),
		FreePlay:            model.FreePlay,
	}
}
