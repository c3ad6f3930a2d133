// Package audit реализует ограниченный по размеру append-only журнал
// активности. Запись в журнал никогда не возвращает ошибку: сбой
// логирования не должен прерывать породившую его операцию.
package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/lib/sl"
	"github.com/legalletter/legalletter/internal/models"
)

// MaxEntries — максимальное число записей журнала; более старые вытесняются.
const MaxEntries = 1000

// Repository описывает доступ к таблице журнала в хранилище.
type Repository interface {
	ListActivities(ctx context.Context) ([]models.AuditEntry, error)
	SaveActivities(ctx context.Context, entries []models.AuditEntry) error
}

// Log — журнал активности, разделяемый всеми сервисами.
type Log struct {
	repo Repository
	clk  clock.Clock
	log  *slog.Logger
	max  int

	mu sync.Mutex
}

// New создаёт журнал с лимитом MaxEntries.
func New(repo Repository, clk clock.Clock, log *slog.Logger) *Log {
	return &Log{repo: repo, clk: clk, log: log, max: MaxEntries}
}

// Record добавляет запись в журнал и обрезает его до лимита.
// Ошибки хранилища логируются и проглатываются.
func (l *Log) Record(ctx context.Context, action, userID string, details map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.repo.ListActivities(ctx)
	if err != nil {
		l.log.Warn("audit log read failed", slog.String("action", action), sl.Err(err))
		return
	}
	entries = append(entries, models.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		Details:   details,
		Timestamp: l.clk.Now().UTC(),
	})
	if len(entries) > l.max {
		entries = entries[len(entries)-l.max:]
	}
	if err := l.repo.SaveActivities(ctx, entries); err != nil {
		l.log.Warn("audit log write failed", slog.String("action", action), sl.Err(err))
	}
}

// List возвращает записи журнала, от старых к новым.
func (l *Log) List(ctx context.Context) ([]models.AuditEntry, error) {
	return l.repo.ListActivities(ctx)
}
