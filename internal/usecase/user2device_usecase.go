package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/little-brother/internal/domain"
	user2devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/user2device"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

const defaultUser2DevicePercent = 100

type User2DeviceUsecase interface {
	AddUser2Device(ctx context.Context, input *user2devicedto.AssignDeviceInput) (*domain.User2Device, error)
	UpdateUser2Device(ctx context.Context, input *user2devicedto.UpdateUser2DeviceInput) error
	DeleteUser2Device(ctx context.Context, input *user2devicedto.AssignDeviceInput) error
}

type DefaultUser2DeviceUsecase struct {
	user2DeviceRepo domain.User2DeviceRepository
	userRepo        domain.UserRepository
	deviceRepo      domain.DeviceRepository
	validator       *validation.Validator
	logger          *slog.Logger
}

func NewDefaultUser2DeviceUsecase(
	user2DeviceRepo domain.User2DeviceRepository,
	userRepo domain.UserRepository,
	deviceRepo domain.DeviceRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) *DefaultUser2DeviceUsecase {
	return &DefaultUser2DeviceUsecase{
		user2DeviceRepo: user2DeviceRepo,
		userRepo:        userRepo,
		deviceRepo:      deviceRepo,
		validator:       validator,
		logger:          logger.With("component", "user2device_usecase"),
	}
}

// AddUser2Device links an existing user and device. New links start
// inactive with full weight.
func (uc *DefaultUser2DeviceUsecase) AddUser2Device(ctx context.Context, input *user2devicedto.AssignDeviceInput) (*domain.User2Device, error) {
	if err := uc.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	device, err := uc.deviceRepo.GetDeviceByName(ctx, input.DeviceName)
	if err != nil {
		return nil, err
	}

	u2d := &domain.User2Device{
		UserID:     user.ID,
		DeviceID:   device.ID,
		Active:     false,
		Percent:    defaultUser2DevicePercent,
		Username:   user.Username,
		DeviceName: device.DeviceName,
	}
	if err := uc.user2DeviceRepo.CreateUser2Device(ctx, u2d); err != nil {
		return nil, fmt.Errorf("assign device %s to %s: %w", input.DeviceName, input.Username, err)
	}

	uc.logger.Info("device assigned", "user", input.Username, "device", input.DeviceName)
	return u2d, nil
}

func (uc *DefaultUser2DeviceUsecase) UpdateUser2Device(ctx context.Context, input *user2devicedto.UpdateUser2DeviceInput) error {
	if err := uc.validator.Validate(input); err != nil {
		return err
	}

	u2d, err := uc.find(ctx, input.Username, input.DeviceName)
	if err != nil {
		return err
	}

	return uc.user2DeviceRepo.UpdateUser2Device(ctx, u2d.ID, input.Active, input.Percent)
}

func (uc *DefaultUser2DeviceUsecase) DeleteUser2Device(ctx context.Context, input *user2devicedto.AssignDeviceInput) error {
	if err := uc.validator.Validate(input); err != nil {
		return err
	}

	u2d, err := uc.find(ctx, input.Username, input.DeviceName)
	if err != nil {
		return err
	}

	if err := uc.user2DeviceRepo.DeleteUser2Device(ctx, u2d.ID); err != nil {
		return err
	}

	uc.logger.Info("device unassigned", "user", input.Username, "device", input.DeviceName)
	return nil
}

func (uc *DefaultUser2DeviceUsecase) find(ctx context.Context, username, deviceName string) (*domain.User2Device, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	for _, u2d := range user.Devices {
		if u2d.DeviceName == deviceName {
			return u2d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", domain.ErrUser2DeviceNotFound, username, deviceName)
}
