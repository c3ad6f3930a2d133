package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalletter/legalletter/internal/models"
	"github.com/legalletter/legalletter/internal/storage/kv"
)

func TestEmptyTables(t *testing.T) {
	ctx := context.Background()
	storage := New(kv.NewMemory())

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	letters, err := storage.ListLetters(ctx)
	require.NoError(t, err)
	assert.Empty(t, letters)

	subs, err := storage.ListSubscriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	entries, err := storage.ListActivities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUsersRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := New(kv.NewMemory())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	users := []models.User{{
		ID:        "u1",
		Email:     "user@example.com",
		FullName:  "John Smith",
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
	}}
	require.NoError(t, storage.SaveUsers(ctx, users))

	got, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)
	assert.True(t, got[0].CreatedAt.Equal(now))
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	storage := New(kv.NewMemory())

	sess, err := storage.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, found, err := storage.LastLogin(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	lastLogin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, storage.SaveSession(ctx, models.Session{UserID: "u1", Token: "tok"}, lastLogin))

	sess, err = storage.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "tok", sess.Token)

	ts, found, err := storage.LastLogin(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, ts.Equal(lastLogin))

	require.NoError(t, storage.ClearSession(ctx))

	sess, err = storage.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, found, err = storage.LastLogin(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}
