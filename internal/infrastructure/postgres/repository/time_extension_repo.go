package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultTimeExtensionRepository struct {
	DB *gorm.DB
}

func NewDefaultTimeExtensionRepository(db *gorm.DB) *DefaultTimeExtensionRepository {
	return &DefaultTimeExtensionRepository{
		DB: db,
	}
}

const activeAtCondition = "reference_datetime <= ? AND end_datetime > ?"

// ActiveTimeExtensions maps each username to its extension active at ref.
// Should a user have several, the most recently granted one wins.
func (r *DefaultTimeExtensionRepository) ActiveTimeExtensions(ctx context.Context, ref time.Time) (map[string]*domain.TimeExtension, error) {
	var extensionModels []models.TimeExtensionModel
	err := r.DB.WithContext(ctx).
		Where(activeAtCondition, ref, ref).
		Order("reference_datetime").
		Find(&extensionModels).Error
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]*domain.TimeExtension, len(extensionModels))
	for i := range extensionModels {
		ext := mappers.ToDomainTimeExtension(&extensionModels[i])
		extensions[ext.Username] = ext
	}
	return extensions, nil
}

// SetTimeExtension applies deltaMinutes to the extension of username active
// at ref. Without one, a positive delta creates [start, start+delta). With
// one, its end moves by delta; it is removed when delta is zero or the new
// end is not after its start. The matching rows stay locked until commit.
func (r *DefaultTimeExtensionRepository) SetTimeExtension(ctx context.Context, username string, ref, start time.Time, deltaMinutes int) error {
	delta := time.Duration(deltaMinutes) * time.Minute

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []models.TimeExtensionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).
			Where(activeAtCondition, ref, ref).
			Find(&active).Error
		if err != nil {
			return err
		}

		switch len(active) {
		case 0:
			if delta <= 0 {
				return nil
			}
			ext := &domain.TimeExtension{
				Username:          username,
				ReferenceDatetime: ref,
				StartDatetime:     start,
				EndDatetime:       start.Add(delta),
			}
			ensureUUID(&ext.ID)
			return tx.Create(mappers.ToGORMTimeExtension(ext)).Error

		case 1:
			current := active[0]
			newEnd := current.EndDatetime.Add(delta)
			if delta == 0 || !newEnd.After(current.StartDatetime) {
				return tx.Delete(&models.TimeExtensionModel{ID: current.ID}).Error
			}
			return tx.Model(&models.TimeExtensionModel{}).Where("id = ?", current.ID).Update("end_datetime", newEnd).Error

		default:
			return fmt.Errorf("%w: %s has %d", domain.ErrTimeExtensionConflict, username, len(active))
		}
	})
	if err != nil {
		return err
	}

	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultTimeExtensionRepository) DeleteTimeExtensionsBefore(ctx context.Context, ts time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Where("end_datetime < ?", ts).Delete(&models.TimeExtensionModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
