package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/little-brother/internal/domain"
	devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/device"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

type DeviceUsecase interface {
	AddNewDevice(ctx context.Context, input *devicedto.CreateDeviceInput) (*domain.Device, error)
	DeleteDevice(ctx context.Context, deviceName string) error
	UpdateDevice(ctx context.Context, input *devicedto.UpdateDeviceInput) error
	GetByDeviceName(ctx context.Context, deviceName string) (*domain.Device, error)
	Devices(ctx context.Context) ([]*domain.Device, error)
	DeviceMap(ctx context.Context) (map[string]*domain.Device, error)
	HostnameDeviceMap(ctx context.Context) (map[string]*domain.Device, error)
}

type DefaultDeviceUsecase struct {
	deviceRepo domain.DeviceRepository
	validator  *validation.Validator
	logger     *slog.Logger
}

func NewDefaultDeviceUsecase(deviceRepo domain.DeviceRepository, validator *validation.Validator, logger *slog.Logger) *DefaultDeviceUsecase {
	return &DefaultDeviceUsecase{
		deviceRepo: deviceRepo,
		validator:  validator,
		logger:     logger.With("component", "device_usecase"),
	}
}

// AddNewDevice names the device after the first number n for which the
// pattern yields an unused name.
func (uc *DefaultDeviceUsecase) AddNewDevice(ctx context.Context, input *devicedto.CreateDeviceInput) (*domain.Device, error) {
	if err := uc.validator.Validate(input); err != nil {
		return nil, err
	}

	existing, err := uc.DeviceMap(ctx)
	if err != nil {
		return nil, err
	}

	device := &domain.Device{
		DeviceName:          newObjectName(input.NamePattern, existing),
		SampleSize:          domain.DefaultDeviceSampleSize,
		MinActivityDuration: domain.DefaultDeviceMinActivityDuration,
		MaxActivePingDelay:  domain.DefaultDeviceMaxActivePingDelay,
	}

	if err := uc.deviceRepo.CreateDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("create device %s: %w", device.DeviceName, err)
	}

	uc.logger.Info("device created", "device", device.DeviceName)
	return device, nil
}

func newObjectName[T any](pattern string, existing map[string]T) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(pattern, n)
		if _, taken := existing[name]; !taken {
			return name
		}
	}
}

func (uc *DefaultDeviceUsecase) DeleteDevice(ctx context.Context, deviceName string) error {
	device, err := uc.deviceRepo.GetDeviceByName(ctx, deviceName)
	if err != nil {
		return err
	}

	if err := uc.deviceRepo.DeleteDevice(ctx, device.ID); err != nil {
		return fmt.Errorf("delete device %s: %w", deviceName, err)
	}

	uc.logger.Info("device deleted", "device", deviceName)
	return nil
}

func (uc *DefaultDeviceUsecase) UpdateDevice(ctx context.Context, input *devicedto.UpdateDeviceInput) error {
	if err := uc.validator.Validate(input); err != nil {
		return err
	}

	device, err := uc.deviceRepo.GetDeviceByName(ctx, input.DeviceName)
	if err != nil {
		return err
	}

	name := input.NewDeviceName
	if name == "" {
		name = device.DeviceName
	}

	return uc.deviceRepo.UpdateDevice(ctx, device.ID, domain.UpdateDeviceParams{
		DeviceName:          name,
		Hostname:            input.Hostname,
		MinActivityDuration: input.MinActivityDuration,
		MaxActivePingDelay:  input.MaxActivePingDelay,
		SampleSize:          input.SampleSize,
	})
}

func (uc *DefaultDeviceUsecase) GetByDeviceName(ctx context.Context, deviceName string) (*domain.Device, error) {
	return uc.deviceRepo.GetDeviceByName(ctx, deviceName)
}

func (uc *DefaultDeviceUsecase) Devices(ctx context.Context) ([]*domain.Device, error) {
	return uc.deviceRepo.ListDevices(ctx)
}

func (uc *DefaultDeviceUsecase) DeviceMap(ctx context.Context) (map[string]*domain.Device, error) {
	devices, err := uc.deviceRepo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	deviceMap := make(map[string]*domain.Device, len(devices))
	for _, device := range devices {
		deviceMap[device.DeviceName] = device
	}
	return deviceMap, nil
}

// HostnameDeviceMap skips devices without a hostname.
func (uc *DefaultDeviceUsecase) HostnameDeviceMap(ctx context.Context) (map[string]*domain.Device, error) {
	devices, err := uc.deviceRepo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	hostMap := make(map[string]*domain.Device, len(devices))
	for _, device := range devices {
		if device.Hostname != "" {
			hostMap[device.Hostname] = device
		}
	}
	return hostMap, nil
}
