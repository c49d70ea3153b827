package devicedto

import "github.com/LavaJover/little-brother/internal/domain"

type Device struct {
	DeviceName string   `json:"device_name"`
	Hostname   string   `json:"hostname"`
	Users      []string `json:"users,omitempty"`
}

func NewDevice(d *domain.Device) Device {
	out := Device{DeviceName: d.DeviceName, Hostname: d.Hostname}
	for _, u := range d.Users {
		out.Users = append(out.Users, u.Username)
	}
	return out
}
