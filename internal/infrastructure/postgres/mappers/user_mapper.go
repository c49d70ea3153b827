package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMUser(user *domain.User) *models.UserModel {
	return &models.UserModel{
		ID:                           user.ID,
		Username:                     user.Username,
		FirstName:                    user.FirstName,
		LastName:                     user.LastName,
		Locale:                       user.Locale,
		Active:                       user.Active,
		AccessCode:                   user.AccessCode,
		ProcessNamePattern:           user.ProcessNamePattern,
		ProhibitedProcessNamePattern: user.ProhibitedProcessNamePattern,
	}
}

// ToDomainUser also maps preloaded rule sets and device assignments.
func ToDomainUser(model *models.UserModel) *domain.User {
	user := &domain.User{
		ID:                           model.ID,
		Username:                     model.Username,
		FirstName:                    model.FirstName,
		LastName:                     model.LastName,
		Locale:                       model.Locale,
		Active:                       model.Active,
		AccessCode:                   model.AccessCode,
		ProcessNamePattern:           model.ProcessNamePattern,
		ProhibitedProcessNamePattern: model.ProhibitedProcessNamePattern,
	}

	for i := range model.RuleSets {
		user.RuleSets = append(user.RuleSets, ToDomainRuleSet(&model.RuleSets[i]))
	}
	for i := range model.Devices {
		u2d := ToDomainUser2Device(&model.Devices[i])
		u2d.Username = model.Username
		user.Devices = append(user.Devices, u2d)
	}
	domain.SortRuleSets(user.RuleSets)

	return user
}
