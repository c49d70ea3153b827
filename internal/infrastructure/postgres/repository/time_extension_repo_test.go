package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func TestTimeExtensionRepository_DeltaSequence(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultTimeExtensionRepository(db)
	ctx := context.Background()
	ref := ts(18, 0)

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, 30))
	active, err := repo.ActiveTimeExtensions(ctx, ref)
	require.NoError(t, err)
	require.Contains(t, active, "kid")
	assert.Equal(t, 30*time.Minute, active["kid"].Length())

	later := ref.Add(10 * time.Minute)
	require.NoError(t, repo.SetTimeExtension(ctx, "kid", later, later, 30))
	active, err = repo.ActiveTimeExtensions(ctx, later)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 60*time.Minute, active["kid"].Length())
	assert.True(t, active["kid"].StartDatetime.Equal(ref))

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", later, later, -60))
	active, err = repo.ActiveTimeExtensions(ctx, later)
	require.NoError(t, err)
	assert.Empty(t, active)

	var count int64
	require.NoError(t, db.Model(&models.TimeExtensionModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTimeExtensionRepository_ZeroDeltaRemoves(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()
	ref := ts(18, 0)

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, 15))
	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, 0))

	active, err := repo.ActiveTimeExtensions(ctx, ref)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTimeExtensionRepository_ShortenKeepsRecord(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()
	ref := ts(18, 0)

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, 30))
	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, -10))

	active, err := repo.ActiveTimeExtensions(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, active["kid"].Length())
}

func TestTimeExtensionRepository_NegativeDeltaWithoutExtension(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ts(18, 0), ts(18, 0), -15))

	active, err := repo.ActiveTimeExtensions(ctx, ts(18, 0))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTimeExtensionRepository_ChainedOntoSession(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()
	ref := ts(18, 0)
	sessionEnd := ts(18, 20)

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, sessionEnd, 30))

	active, err := repo.ActiveTimeExtensions(ctx, ref)
	require.NoError(t, err)
	require.Contains(t, active, "kid")
	assert.True(t, active["kid"].StartDatetime.Equal(sessionEnd))
	assert.True(t, active["kid"].EndDatetime.Equal(ts(18, 50)))
}

func TestTimeExtensionRepository_ActiveWindow(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()
	ref := ts(18, 0)

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ref, ref, 30))

	tests := []struct {
		at     time.Time
		active bool
	}{
		{at: ts(17, 59), active: false},
		{at: ts(18, 0), active: true},
		{at: ts(18, 29), active: true},
		{at: ts(18, 30), active: false},
	}
	for _, tt := range tests {
		active, err := repo.ActiveTimeExtensions(ctx, tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.active, active["kid"] != nil, tt.at.Format(time.TimeOnly))
	}
}

func TestTimeExtensionRepository_Conflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultTimeExtensionRepository(db)
	ref := ts(18, 0)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, db.Create(&models.TimeExtensionModel{
			ID: id, Username: "kid", ReferenceDatetime: ref, StartDatetime: ref, EndDatetime: ref.Add(time.Hour),
		}).Error)
	}

	err := repo.SetTimeExtension(context.Background(), "kid", ref, ref, 10)
	assert.ErrorIs(t, err, domain.ErrTimeExtensionConflict)
}

func TestTimeExtensionRepository_LocksActiveRows(t *testing.T) {
	db, mock := newMockDB(t)
	ref := ts(18, 0)

	rows := sqlmock.NewRows([]string{"id", "username", "reference_datetime", "start_datetime", "end_datetime"}).
		AddRow("a", "kid", ref, ref, ref.Add(time.Hour)).
		AddRow("b", "kid", ref, ref, ref.Add(time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(rows)
	mock.ExpectRollback()

	err := NewDefaultTimeExtensionRepository(db).SetTimeExtension(context.Background(), "kid", ref, ref, 10)
	assert.ErrorIs(t, err, domain.ErrTimeExtensionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeExtensionRepository_DeleteBefore(t *testing.T) {
	repo := NewDefaultTimeExtensionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ts(8, 0), ts(8, 0), 30))
	require.NoError(t, repo.SetTimeExtension(ctx, "kid", ts(18, 0), ts(18, 0), 30))

	deleted, err := repo.DeleteTimeExtensionsBefore(ctx, ts(12, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
