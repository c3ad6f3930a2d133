// Package metrics реализует read-only агрегацию по всем таблицам хранилища
// для панелей администратора, выгрузку данных и проверку работоспособности.
// Снимок метрик дублируется в prometheus-гейджи для внешнего наблюдения.
package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/lib/sl"
	"github.com/legalletter/legalletter/internal/models"
)

// Repository описывает чтения, необходимые для агрегации.
type Repository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListLetters(ctx context.Context) ([]models.Letter, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	ListActivities(ctx context.Context) ([]models.AuditEntry, error)
}

// Service агрегирует показатели системы.
type Service struct {
	repo Repository
	clk  clock.Clock
	log  *slog.Logger

	usersGauge      prometheus.Gauge
	employeesGauge  prometheus.Gauge
	lettersGauge    prometheus.Gauge
	revenueGauge    prometheus.Gauge
	activeSubsGauge prometheus.Gauge
	conversionGauge prometheus.Gauge
}

// New создает новый экземпляр Service и регистрирует гейджи в reg.
func New(repo Repository, clk clock.Clock, log *slog.Logger, reg prometheus.Registerer) *Service {
	factory := promauto.With(reg)
	return &Service{
		repo: repo,
		clk:  clk,
		log:  log,
		usersGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_users_total",
			Help: "Number of registered users with role user.",
		}),
		employeesGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_employees_total",
			Help: "Number of registered employees.",
		}),
		lettersGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_letters_total",
			Help: "Number of letters ever requested.",
		}),
		revenueGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_revenue_total",
			Help: "Sum of subscription prices after discounts.",
		}),
		activeSubsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_active_subscriptions",
			Help: "Number of subscriptions with status active.",
		}),
		conversionGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "legalletter_conversion_rate_percent",
			Help: "Subscriptions per registered user, in percent.",
		}),
	}
}

// Snapshot возвращает агрегированные показатели и обновляет гейджи.
// На пустых данных все показатели нулевые, деления на ноль нет.
func (s *Service) Snapshot(ctx context.Context) (models.SystemMetrics, error) {
	const op = "metrics.Snapshot"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return models.SystemMetrics{}, fmt.Errorf("%s: %w", op, err)
	}
	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		return models.SystemMetrics{}, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return models.SystemMetrics{}, fmt.Errorf("%s: %w", op, err)
	}

	m := models.SystemMetrics{
		TotalLetters: len(letters),
		TotalRevenue: decimal.Zero,
	}
	for _, u := range users {
		switch u.Role {
		case models.RoleUser:
			m.TotalUsers++
		case models.RoleEmployee:
			m.TotalEmployees++
		}
	}
	for _, sub := range subs {
		m.TotalRevenue = m.TotalRevenue.Add(sub.Price)
		if sub.Status == models.SubscriptionStatusActive {
			m.ActiveSubscriptions++
		}
	}
	if len(users) > 0 {
		m.ConversionRate = float64(len(subs)) / float64(len(users)) * 100
	}

	s.usersGauge.Set(float64(m.TotalUsers))
	s.employeesGauge.Set(float64(m.TotalEmployees))
	s.lettersGauge.Set(float64(m.TotalLetters))
	s.revenueGauge.Set(m.TotalRevenue.InexactFloat64())
	s.activeSubsGauge.Set(float64(m.ActiveSubscriptions))
	s.conversionGauge.Set(m.ConversionRate)

	return m, nil
}

// Health возвращает отчёт о работоспособности. Сбой чтения не приводит
// к ошибке: возвращается статус degraded с нулевыми метриками.
func (s *Service) Health(ctx context.Context) models.HealthReport {
	report := models.HealthReport{
		Status:    models.HealthStatusHealthy,
		Timestamp: s.clk.Now().UTC(),
	}
	m, err := s.Snapshot(ctx)
	if err != nil {
		s.log.Warn("health check degraded", sl.Err(err))
		report.Status = models.HealthStatusDegraded
		report.Metrics = models.SystemMetrics{TotalRevenue: decimal.Zero}
		return report
	}
	report.Metrics = m
	return report
}

// Export возвращает полный снимок данных для выгрузки администратором.
func (s *Service) Export(ctx context.Context) (*models.Export, error) {
	const op = "metrics.Export"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	activities, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Export{
		Users:         users,
		Letters:       letters,
		Subscriptions: subs,
		Activities:    activities,
	}, nil
}
