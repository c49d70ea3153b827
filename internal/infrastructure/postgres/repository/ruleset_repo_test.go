package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/little-brother/internal/domain"
)

func TestRuleSetRepository_RoundTripsLimits(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultRuleSetRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "kid")

	minTime := domain.MustParseTimeOfDay("8")
	maxTime := domain.MustParseTimeOfDay("20:30")
	perDay := 2 * time.Hour
	activity := 45 * time.Minute

	rs := &domain.RuleSet{
		UserID:              user.ID,
		Context:             "weekday",
		ContextDetails:      "weekend",
		Priority:            2,
		MinTimeOfDay:        &minTime,
		MaxTimeOfDay:        &maxTime,
		MaxTimePerDay:       &perDay,
		MaxActivityDuration: &activity,
	}
	require.NoError(t, repo.CreateRuleSet(ctx, rs))

	loaded, err := repo.GetRuleSetByID(ctx, rs.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(rs, loaded))
}

func TestRuleSetRepository_UpdateClearsLimits(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultRuleSetRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "kid")

	perDay := time.Hour
	rs := &domain.RuleSet{UserID: user.ID, Context: domain.DefaultContext, Priority: 2, MaxTimePerDay: &perDay}
	require.NoError(t, repo.CreateRuleSet(ctx, rs))

	rs.MaxTimePerDay = nil
	rs.FreePlay = true
	rs.Priority = 7
	require.NoError(t, repo.UpdateRuleSet(ctx, rs))

	loaded, err := repo.GetRuleSetByID(ctx, rs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.MaxTimePerDay)
	assert.True(t, loaded.FreePlay)
	assert.Equal(t, 2, loaded.Priority, "priority only changes through swaps")
}

func TestRuleSetRepository_SwapPriorities(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultRuleSetRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "kid")

	second := &domain.RuleSet{UserID: user.ID, Context: domain.DefaultContext, Priority: 2}
	third := &domain.RuleSet{UserID: user.ID, Context: domain.DefaultContext, Priority: 3}
	require.NoError(t, repo.CreateRuleSet(ctx, second))
	require.NoError(t, repo.CreateRuleSet(ctx, third))

	require.NoError(t, repo.SwapPriorities(ctx, second, third))
	assert.Equal(t, 3, second.Priority)
	assert.Equal(t, 2, third.Priority)

	ruleSets, err := repo.GetUserRuleSets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, ruleSets, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{ruleSets[0].Priority, ruleSets[1].Priority, ruleSets[2].Priority})
	assert.Equal(t, third.ID, ruleSets[1].ID)
	assert.Equal(t, second.ID, ruleSets[2].ID)
}

func TestRuleSetRepository_NotFound(t *testing.T) {
	repo := NewDefaultRuleSetRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetRuleSetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRuleSetNotFound)
	assert.ErrorIs(t, repo.DeleteRuleSet(ctx, "missing"), domain.ErrRuleSetNotFound)
	assert.ErrorIs(t, repo.UpdateRuleSet(ctx, &domain.RuleSet{ID: "missing"}), domain.ErrRuleSetNotFound)
}

func TestRuleSetRepository_SwapRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmockResult(1))
	mock.ExpectExec("UPDATE").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	first := &domain.RuleSet{ID: "a", Priority: 2}
	second := &domain.RuleSet{ID: "b", Priority: 3}
	err := NewDefaultRuleSetRepository(db).SwapPriorities(context.Background(), first, second)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, first.Priority)
	assert.Equal(t, 3, second.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}
