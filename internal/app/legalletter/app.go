// Package legalletter собирает приложение из компонентов: хранилище,
// журнал активности, сервисы идентичности, писем, подписок и метрик.
// Собранные сервисы — публичный контракт ядра для UI-слоёв; событий ядро
// не публикует, асинхронные переходы наблюдаются опросом.
package legalletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/legalletter/legalletter/internal/audit"
	"github.com/legalletter/legalletter/internal/config"
	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/lib/jwt"
	"github.com/legalletter/legalletter/internal/lib/sl"
	"github.com/legalletter/legalletter/internal/services/identity"
	"github.com/legalletter/legalletter/internal/services/letter"
	"github.com/legalletter/legalletter/internal/services/metrics"
	"github.com/legalletter/legalletter/internal/services/subscription"
	"github.com/legalletter/legalletter/internal/storage/kv"
	"github.com/legalletter/legalletter/internal/storage/repository"
)

// App — собранное приложение.
type App struct {
	Identity      *identity.Service
	Letters       *letter.Service
	Subscriptions *subscription.Service
	Metrics       *metrics.Service
	Audit         *audit.Log

	cfg        *config.Config
	logger     *slog.Logger
	storage    *repository.Storage
	metricsSrv *http.Server
}

// New создаёт приложение с хранилищем, выбранным по конфигу.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	var backend kv.Store
	switch cfg.Storage.Driver {
	case "sqlite":
		store, err := kv.NewSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		backend = store
	case "memory":
		backend = kv.NewMemory()
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	storage := repository.New(backend)
	clk := clock.New()
	auditLog := audit.New(storage, clk, logger)
	maker := jwt.NewMaker(cfg.Auth.JWTSecretKey, cfg.Auth.SessionTTL)

	identitySvc := identity.New(storage, auditLog, maker, clk, identity.Config{
		AdminSecret: cfg.Auth.AdminSecret,
		SessionTTL:  cfg.Auth.SessionTTL,
	}, logger)
	subscriptionSvc := subscription.New(storage, identitySvc, auditLog, clk, logger)
	letterSvc := letter.New(storage, identitySvc, subscriptionSvc, auditLog, clk,
		cfg.Generation.ProcessingDelay, logger)
	metricsSvc := metrics.New(storage, clk, logger, prometheus.DefaultRegisterer)

	app := &App{
		Identity:      identitySvc,
		Letters:       letterSvc,
		Subscriptions: subscriptionSvc,
		Metrics:       metricsSvc,
		Audit:         auditLog,
		cfg:           cfg,
		logger:        logger,
		storage:       storage,
	}
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.metricsSrv = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
	}
	return app, nil
}

// Run держит приложение до отмены контекста, периодически обновляя
// prometheus-гейджи и, если настроено, отдавая их по HTTP.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	if a.metricsSrv != nil {
		go func() {
			a.logger.Info("metrics listener starting on", slog.String("address", a.metricsSrv.Addr))
			err := a.metricsSrv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				errCh <- nil
			} else {
				errCh <- err
			}
		}()
	}

	ticker := time.NewTicker(a.cfg.Metrics.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			if _, err := a.Metrics.Snapshot(ctx); err != nil {
				a.logger.Warn("metrics refresh failed", sl.Err(err))
			}
		case <-ctx.Done():
			if a.metricsSrv != nil {
				timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				a.logger.Info("shutting down metrics listener gracefully")
				if err := a.metricsSrv.Shutdown(timeoutCtx); err != nil {
					a.logger.Warn("metrics listener shutdown failed", sl.Err(err))
				}
			}
			return a.storage.Close()
		}
	}
}
