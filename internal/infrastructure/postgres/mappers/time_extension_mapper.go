package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMTimeExtension(te *domain.TimeExtension) *models.TimeExtensionModel {
	return &models.TimeExtensionModel{
		ID:                te.ID,
		Username:          te.Username,
		ReferenceDatetime: te.ReferenceDatetime,
		StartDatetime:     te.StartDatetime,
		EndDatetime:       te.EndDatetime,
	}
}

func ToDomainTimeExtension(model *models.TimeExtensionModel) *domain.TimeExtension {
	return &domain.TimeExtension{
		ID:                model.ID,
		Username:          model.Username,
		ReferenceDatetime: model.ReferenceDatetime,
		StartDatetime:     model.StartDatetime,
		EndDatetime:       model.EndDatetime,
	}
}
