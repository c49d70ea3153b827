package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func TestDeviceRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultDeviceRepository(db)
	ctx := context.Background()

	device := &domain.Device{
		DeviceName:          "pc",
		Hostname:            "pc.local",
		MinActivityDuration: domain.DefaultDeviceMinActivityDuration,
		MaxActivePingDelay:  domain.DefaultDeviceMaxActivePingDelay,
		SampleSize:          domain.DefaultDeviceSampleSize,
	}
	require.NoError(t, repo.CreateDevice(ctx, device))

	loaded, err := repo.GetDeviceByName(ctx, "pc")
	require.NoError(t, err)
	assert.Equal(t, device.ID, loaded.ID)
	assert.Equal(t, "pc.local", loaded.Hostname)

	require.NoError(t, repo.UpdateDevice(ctx, device.ID, domain.UpdateDeviceParams{
		DeviceName: "pc2", Hostname: "pc2.local", MinActivityDuration: 30, MaxActivePingDelay: 20, SampleSize: 5,
	}))

	loaded, err = repo.GetDeviceByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "pc2", loaded.DeviceName)
	assert.Equal(t, 5, loaded.SampleSize)

	_, err = repo.GetDeviceByName(ctx, "pc")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestDeviceRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultDeviceRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "kid")

	device := &domain.Device{DeviceName: "pc"}
	require.NoError(t, repo.CreateDevice(ctx, device))
	require.NoError(t, NewDefaultUser2DeviceRepository(db).CreateUser2Device(ctx, &domain.User2Device{UserID: user.ID, DeviceID: device.ID}))

	require.NoError(t, repo.DeleteDevice(ctx, device.ID))

	var count int64
	require.NoError(t, db.Model(&models.User2DeviceModel{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.DeleteDevice(ctx, device.ID), domain.ErrDeviceNotFound)
}

func TestDeviceRepository_ListDevicesMemoised(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultDeviceRepository(db)
	ctx := sessionCtx()

	require.NoError(t, repo.CreateDevice(ctx, &domain.Device{DeviceName: "b"}))
	devices, err := repo.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	require.NoError(t, db.Create(&models.DeviceModel{ID: "x", DeviceName: "a"}).Error)
	devices, err = repo.ListDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 1)

	domain.InvalidateSession(ctx)
	devices, err = repo.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "a", devices[0].DeviceName)
}

func TestUser2DeviceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultUser2DeviceRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "kid")

	device := &domain.Device{DeviceName: "pc"}
	require.NoError(t, NewDefaultDeviceRepository(db).CreateDevice(ctx, device))

	u2d := &domain.User2Device{UserID: user.ID, DeviceID: device.ID, Percent: 100}
	require.NoError(t, repo.CreateUser2Device(ctx, u2d))

	require.NoError(t, repo.UpdateUser2Device(ctx, u2d.ID, true, 50))
	loaded, err := repo.GetUser2DeviceByID(ctx, u2d.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Active)
	assert.Equal(t, 50, loaded.Percent)
	assert.Equal(t, "pc", loaded.DeviceName)
	assert.Equal(t, "kid", loaded.Username)

	require.NoError(t, repo.DeleteUser2Device(ctx, u2d.ID))
	_, err = repo.GetUser2DeviceByID(ctx, u2d.ID)
	assert.ErrorIs(t, err, domain.ErrUser2DeviceNotFound)
	assert.ErrorIs(t, repo.DeleteUser2Device(ctx, u2d.ID), domain.ErrUser2DeviceNotFound)
}
