package domain

import "context"

const (
	DefaultDeviceSampleSize          = 10
	DefaultDeviceMinActivityDuration = 60
	DefaultDeviceMaxActivePingDelay  = 50
)

type Device struct {
	ID                  string
	DeviceName          string
	Hostname            string
	MinActivityDuration int // seconds
	MaxActivePingDelay  int // milliseconds
	SampleSize          int

	Users []*User2Device
}

type DeviceRepository interface {
	CreateDevice(ctx context.Context, device *Device) error
	GetDeviceByID(ctx context.Context, deviceID string) (*Device, error)
	GetDeviceByName(ctx context.Context, deviceName string) (*Device, error)
	ListDevices(ctx context.Context) ([]*Device, error)
	UpdateDevice(ctx context.Context, deviceID string, params UpdateDeviceParams) error
	DeleteDevice(ctx context.Context, deviceID string) error
}

type UpdateDeviceParams struct {
	DeviceName          string
	Hostname            string
	MinActivityDuration int
	MaxActivePingDelay  int
	SampleSize          int
}
