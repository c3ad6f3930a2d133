package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/models"
	"github.com/legalletter/legalletter/internal/storage/kv"
	"github.com/legalletter/legalletter/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *RepoMock) ListLetters(ctx context.Context) ([]models.Letter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Letter), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *RepoMock) ListActivities(ctx context.Context) ([]models.AuditEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(t *testing.T, repo Repository) (*Service, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(repo, clk, newNoopLogger(), prometheus.NewRegistry()), clk
}

func TestSnapshotEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, repository.New(kv.NewMemory()))

	m, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, m.TotalUsers)
	assert.Equal(t, 0, m.TotalEmployees)
	assert.Equal(t, 0, m.TotalLetters)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Equal(t, 0, m.ActiveSubscriptions)
	assert.Equal(t, 0.0, m.ConversionRate)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := repository.New(kv.NewMemory())
	svc, _ := newService(t, storage)

	require.NoError(t, storage.SaveUsers(ctx, []models.User{
		{ID: "u1", Role: models.RoleUser},
		{ID: "u2", Role: models.RoleUser},
		{ID: "u3", Role: models.RoleEmployee},
		{ID: "u4", Role: models.RoleAdmin},
	}))
	require.NoError(t, storage.SaveLetters(ctx, []models.Letter{
		{ID: "l1"}, {ID: "l2"}, {ID: "l3"},
	}))
	require.NoError(t, storage.SaveSubscriptions(ctx, []models.Subscription{
		{ID: "s1", Price: decimal.NewFromFloat(479.2), Status: models.SubscriptionStatusActive},
		{ID: "s2", Price: decimal.NewFromInt(299), Status: models.SubscriptionStatusExpired},
	}))

	m, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, m.TotalUsers)
	assert.Equal(t, 1, m.TotalEmployees)
	assert.Equal(t, 3, m.TotalLetters)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromFloat(778.2)), "revenue = %s", m.TotalRevenue)
	assert.Equal(t, 1, m.ActiveSubscriptions)
	assert.Equal(t, 50.0, m.ConversionRate)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	svc, clk := newService(t, repository.New(kv.NewMemory()))

	report := svc.Health(ctx)
	assert.Equal(t, models.HealthStatusHealthy, report.Status)
	assert.True(t, report.Timestamp.Equal(clk.Now().UTC()))
}

func TestHealthDegradedOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(RepoMock)
	repo.On("ListUsers", mock.Anything).Return(nil, errors.New("storage down"))
	svc, _ := newService(t, repo)

	report := svc.Health(ctx)
	assert.Equal(t, models.HealthStatusDegraded, report.Status)
	assert.Equal(t, 0, report.Metrics.TotalUsers)
	assert.True(t, report.Metrics.TotalRevenue.IsZero())
	repo.AssertExpectations(t)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	storage := repository.New(kv.NewMemory())
	svc, _ := newService(t, storage)

	require.NoError(t, storage.SaveUsers(ctx, []models.User{{ID: "u1", Role: models.RoleUser}}))
	require.NoError(t, storage.SaveLetters(ctx, []models.Letter{{ID: "l1"}}))
	require.NoError(t, storage.SaveSubscriptions(ctx, []models.Subscription{{ID: "s1"}}))
	require.NoError(t, storage.SaveActivities(ctx, []models.AuditEntry{{ID: "a1"}}))

	export, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, export.Users, 1)
	assert.Len(t, export.Letters, 1)
	assert.Len(t, export.Subscriptions, 1)
	assert.Len(t, export.Activities, 1)
}
