package usecase

import (
	"github.com/LavaJover/little-brother/internal/domain"
	devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/device"
	user2devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/user2device"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

func (s *UsecaseSuite) TestAddNewDevice_UniqueNames() {
	first, err := s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)
	second, err := s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)

	s.Equal("pc1", first.DeviceName)
	s.Equal("pc2", second.DeviceName)
	s.Equal(domain.DefaultDeviceSampleSize, first.SampleSize)
	s.Equal(domain.DefaultDeviceMinActivityDuration, first.MinActivityDuration)
	s.Equal(domain.DefaultDeviceMaxActivePingDelay, first.MaxActivePingDelay)

	_, err = s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc"})
	s.ErrorIs(err, validation.ErrInvalidInput)
}

func (s *UsecaseSuite) TestUpdateDeviceAndHostnameMap() {
	_, err := s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)
	_, err = s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)

	s.Require().NoError(s.devices.UpdateDevice(s.ctx, &devicedto.UpdateDeviceInput{
		DeviceName:          "pc1",
		NewDeviceName:       "desktop",
		Hostname:            "desktop.local",
		MinActivityDuration: 30,
		MaxActivePingDelay:  40,
		SampleSize:          5,
	}))

	hostMap, err := s.devices.HostnameDeviceMap(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(hostMap, 1)
	s.Equal("desktop", hostMap["desktop.local"].DeviceName)
	s.Equal(30, hostMap["desktop.local"].MinActivityDuration)

	deviceMap, err := s.devices.DeviceMap(s.ctx)
	s.Require().NoError(err)
	s.Contains(deviceMap, "desktop")
	s.Contains(deviceMap, "pc2")
}

func (s *UsecaseSuite) TestDeleteDevice() {
	_, err := s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)

	s.Require().NoError(s.devices.DeleteDevice(s.ctx, "pc1"))
	s.ErrorIs(s.devices.DeleteDevice(s.ctx, "pc1"), domain.ErrDeviceNotFound)

	devices, err := s.devices.Devices(s.ctx)
	s.Require().NoError(err)
	s.Empty(devices)
}

func (s *UsecaseSuite) TestUser2Device() {
	s.addUser("kid")
	_, err := s.devices.AddNewDevice(s.ctx, &devicedto.CreateDeviceInput{NamePattern: "pc%d"})
	s.Require().NoError(err)

	assign := &user2devicedto.AssignDeviceInput{Username: "kid", DeviceName: "pc1"}
	u2d, err := s.user2Devices.AddUser2Device(s.ctx, assign)
	s.Require().NoError(err)
	s.False(u2d.Active)
	s.Equal(100, u2d.Percent)

	s.Require().NoError(s.user2Devices.UpdateUser2Device(s.ctx, &user2devicedto.UpdateUser2DeviceInput{
		Username: "kid", DeviceName: "pc1", Active: true, Percent: 50,
	}))

	user, err := s.users.GetUser(s.ctx, "kid")
	s.Require().NoError(err)
	s.Require().Len(user.Devices, 1)
	s.True(user.Devices[0].Active)
	s.Equal(50, user.Devices[0].Percent)
	s.Equal("pc1", user.Devices[0].DeviceName)

	s.Require().NoError(s.user2Devices.DeleteUser2Device(s.ctx, assign))
	s.ErrorIs(s.user2Devices.DeleteUser2Device(s.ctx, assign), domain.ErrUser2DeviceNotFound)

	_, err = s.user2Devices.AddUser2Device(s.ctx, &user2devicedto.AssignDeviceInput{Username: "kid", DeviceName: "tablet"})
	s.ErrorIs(err, domain.ErrDeviceNotFound)
}
