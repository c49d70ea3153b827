package domain

import "context"

type User2Device struct {
	ID       string
	UserID   string
	DeviceID string
	Active   bool
	Percent  int

	// Read-only, filled when loaded together with the device.
	DeviceName string
	Username   string
}

type User2DeviceRepository interface {
	CreateUser2Device(ctx context.Context, u2d *User2Device) error
	GetUser2DeviceByID(ctx context.Context, id string) (*User2Device, error)
	UpdateUser2Device(ctx context.Context, id string, active bool, percent int) error
	DeleteUser2Device(ctx context.Context, id string) error
}
