// Package repository реализует типизированный доступ к логическим таблицам
// key-value хранилища: пользователям, письмам, подпискам, журналу активности
// и данным текущей сессии. Каждая таблица читается и пишется целиком —
// атомарность модификаций обеспечивают сервисы-владельцы.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/legalletter/legalletter/internal/models"
	"github.com/legalletter/legalletter/internal/storage/kv"
)

// Storage инкапсулирует key-value бэкенд и реализует методы чтения
// и записи доменных таблиц.
type Storage struct {
	store kv.Store
}

// New создаёт Storage поверх переданного бэкенда.
func New(store kv.Store) *Storage {
	return &Storage{store: store}
}

// ListUsers возвращает всех пользователей. Отсутствие таблицы — пустой срез.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "repository.ListUsers"
	var users []models.User
	if _, err := s.store.Get(ctx, kv.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// SaveUsers перезаписывает таблицу пользователей.
func (s *Storage) SaveUsers(ctx context.Context, users []models.User) error {
	const op = "repository.SaveUsers"
	if err := s.store.Put(ctx, kv.KeyUsers, users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListLetters возвращает все письма.
func (s *Storage) ListLetters(ctx context.Context) ([]models.Letter, error) {
	const op = "repository.ListLetters"
	var letters []models.Letter
	if _, err := s.store.Get(ctx, kv.KeyLetters, &letters); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return letters, nil
}

// SaveLetters перезаписывает таблицу писем.
func (s *Storage) SaveLetters(ctx context.Context, letters []models.Letter) error {
	const op = "repository.SaveLetters"
	if err := s.store.Put(ctx, kv.KeyLetters, letters); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSubscriptions возвращает все подписки.
func (s *Storage) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	const op = "repository.ListSubscriptions"
	var subs []models.Subscription
	if _, err := s.store.Get(ctx, kv.KeySubscriptions, &subs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// SaveSubscriptions перезаписывает таблицу подписок.
func (s *Storage) SaveSubscriptions(ctx context.Context, subs []models.Subscription) error {
	const op = "repository.SaveSubscriptions"
	if err := s.store.Put(ctx, kv.KeySubscriptions, subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListActivities возвращает журнал активности.
func (s *Storage) ListActivities(ctx context.Context) ([]models.AuditEntry, error) {
	const op = "repository.ListActivities"
	var entries []models.AuditEntry
	if _, err := s.store.Get(ctx, kv.KeyActivities, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// SaveActivities перезаписывает журнал активности.
func (s *Storage) SaveActivities(ctx context.Context, entries []models.AuditEntry) error {
	const op = "repository.SaveActivities"
	if err := s.store.Put(ctx, kv.KeyActivities, entries); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Session возвращает текущую сессию или nil, если её нет.
func (s *Storage) Session(ctx context.Context) (*models.Session, error) {
	const op = "repository.Session"
	var sess models.Session
	found, err := s.store.Get(ctx, kv.KeyCurrentUser, &sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}
	return &sess, nil
}

// SaveSession сохраняет сессию и отметку последнего входа.
func (s *Storage) SaveSession(ctx context.Context, sess models.Session, lastLogin time.Time) error {
	const op = "repository.SaveSession"
	if err := s.store.Put(ctx, kv.KeyCurrentUser, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Put(ctx, kv.KeyLastLogin, lastLogin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LastLogin возвращает отметку последнего входа.
func (s *Storage) LastLogin(ctx context.Context) (time.Time, bool, error) {
	const op = "repository.LastLogin"
	var ts time.Time
	found, err := s.store.Get(ctx, kv.KeyLastLogin, &ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return ts, found, nil
}

// ClearSession удаляет сессию и отметку последнего входа.
func (s *Storage) ClearSession(ctx context.Context) error {
	const op = "repository.ClearSession"
	if err := s.store.Delete(ctx, kv.KeyCurrentUser); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Delete(ctx, kv.KeyLastLogin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает нижележащий бэкенд.
func (s *Storage) Close() error {
	return s.store.Close()
}
