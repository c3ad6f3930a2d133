// Package letter содержит бизнес-логику генерации юридических писем:
// создание запроса с проверкой квоты подписки, симулируемый асинхронный
// конвейер генерации (pending -> processing -> completed|failed) и выдачу
// списка писем пользователя. Пакет — единственный владелец таблицы letters.
package letter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/lib/sl"
	"github.com/legalletter/legalletter/internal/lib/validate"
	"github.com/legalletter/legalletter/internal/models"
)

const aiModel = "gemini-pro"

// Repository описывает доступ к таблице писем.
type Repository interface {
	ListLetters(ctx context.Context) ([]models.Letter, error)
	SaveLetters(ctx context.Context, letters []models.Letter) error
}

// SessionSource отдаёт пользователя текущей сессии.
type SessionSource interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// QuotaSource атомарно списывает квоту писем с действующей подписки.
type QuotaSource interface {
	ConsumeQuota(ctx context.Context, userID string) error
}

// AuditLog описывает журнал активности.
type AuditLog interface {
	Record(ctx context.Context, action, userID string, details map[string]any)
}

// Service реализует операции над письмами.
type Service struct {
	repo     Repository
	sessions SessionSource
	quota    QuotaSource
	audit    AuditLog
	clk      clock.Clock
	delay    time.Duration
	log      *slog.Logger

	mu sync.Mutex
}

// New создает новый экземпляр Service. delay — длительность симулируемой
// обработки между переходами processing и completed.
func New(repo Repository, sessions SessionSource, quota QuotaSource, auditLog AuditLog,
	clk clock.Clock, delay time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		quota:    quota,
		audit:    auditLog,
		clk:      clk,
		delay:    delay,
		log:      log,
	}
}

// Create создаёт письмо в статусе pending и планирует его асинхронную
// генерацию. Требования: аутентифицированная сессия, роль user, действующая
// подписка со свободной квотой, все текстовые поля заполнены. Функция
// возвращается сразу после записи pending-письма; дальнейшие статусы
// наблюдаются через ListForUser. Запланированные переходы не отменяются
// и выполняются вхолостую, если письмо к тому моменту исчезло.
func (s *Service) Create(ctx context.Context, req models.CreateLetterRequest) (*models.Letter, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	cur, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCreationFailed, err)
	}
	if cur == nil {
		return nil, models.ErrNotAuthenticated
	}
	if cur.Role != models.RoleUser {
		return nil, models.ErrInsufficientPermissions
	}

	if err := s.quota.ConsumeQuota(ctx, cur.ID); err != nil {
		if errors.Is(err, models.ErrNoSubscription) || errors.Is(err, models.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", models.ErrCreationFailed, err)
	}

	ltr := models.Letter{
		ID:               uuid.NewString(),
		UserID:           cur.ID,
		SenderName:       req.SenderName,
		SenderAddress:    req.SenderAddress,
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
		Matter:           req.Matter,
		Resolution:       req.Resolution,
		Status:           models.LetterStatusPending,
		GeneratedAt:      s.clk.Now().UTC(),
		Version:          1,
		Metadata:         models.LetterMetadata{AIModel: aiModel},
	}

	s.mu.Lock()
	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", models.ErrCreationFailed, err)
	}
	letters = append(letters, ltr)
	if err := s.repo.SaveLetters(ctx, letters); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", models.ErrCreationFailed, err)
	}
	s.mu.Unlock()

	s.audit.Record(ctx, models.ActionLetterCreated, cur.ID, map[string]any{
		"letterId": ltr.ID,
		"matter":   ltr.Matter,
	})
	s.log.Info("letter created", slog.String("letterId", ltr.ID), slog.String("userId", cur.ID))

	s.clk.AfterFunc(0, func() { s.markProcessing(ltr.ID) })
	s.clk.AfterFunc(s.delay, func() { s.complete(ltr.ID) })

	return &ltr, nil
}

// ListForUser возвращает письма пользователя, новые первыми, без мягко
// удалённых. Доступ разрешён владельцу и администратору.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Letter, error) {
	const op = "letter.ListForUser"

	cur, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cur == nil {
		return nil, models.ErrNotAuthenticated
	}
	if cur.ID != userID && cur.Role != models.RoleAdmin {
		return nil, models.ErrAccessDenied
	}

	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Letter
	for _, ltr := range letters {
		if ltr.UserID == userID && !ltr.IsDeleted {
			result = append(result, ltr)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GeneratedAt.After(result[j].GeneratedAt)
	})
	return result, nil
}

// Delete мягко удаляет письмо владельца: запись остаётся в хранилище,
// но пропадает из списков. Доступ разрешён владельцу и администратору.
func (s *Service) Delete(ctx context.Context, letterID string) error {
	const op = "letter.Delete"

	cur, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cur == nil {
		return models.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, ltr := range letters {
		if ltr.ID != letterID || ltr.IsDeleted {
			continue
		}
		if ltr.UserID != cur.ID && cur.Role != models.RoleAdmin {
			return models.ErrAccessDenied
		}
		updated := ltr
		updated.IsDeleted = true
		letters[i] = updated
		if err := s.repo.SaveLetters(ctx, letters); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return models.ErrAccessDenied
}

// markProcessing переводит письмо pending -> processing.
func (s *Service) markProcessing(letterID string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		s.log.Warn("letter processing transition failed", slog.String("letterId", letterID), sl.Err(err))
		return
	}
	idx := findLetter(letters, letterID)
	if idx < 0 || letters[idx].Status != models.LetterStatusPending {
		return
	}

	updated := letters[idx]
	updated.Status = models.LetterStatusProcessing
	updated.Version++
	letters[idx] = updated
	if err := s.repo.SaveLetters(ctx, letters); err != nil {
		s.log.Warn("letter processing transition failed", slog.String("letterId", letterID), sl.Err(err))
		return
	}
	s.audit.Record(ctx, models.ActionLetterUpdated, updated.UserID, map[string]any{
		"letterId": letterID,
		"status":   updated.Status,
		"version":  updated.Version,
	})
}

// complete завершает генерацию: заполняет содержимое и метаданные и
// переводит письмо в completed. При сбое записи письмо переводится в failed,
// чтобы оно не зависло в processing — сообщать об ошибке уже некому.
func (s *Service) complete(letterID string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	letters, err := s.repo.ListLetters(ctx)
	if err != nil {
		s.log.Warn("letter completion failed", slog.String("letterId", letterID), sl.Err(err))
		return
	}
	idx := findLetter(letters, letterID)
	if idx < 0 {
		return
	}
	status := letters[idx].Status
	if status != models.LetterStatusPending && status != models.LetterStatusProcessing {
		return
	}

	now := s.clk.Now().UTC()
	content := GenerateContent(letters[idx], now)

	updated := letters[idx]
	updated.Status = models.LetterStatusCompleted
	updated.Version++
	updated.Content = content
	updated.CompletedAt = &now
	updated.Metadata.WordCount = len(strings.Fields(content))
	updated.Metadata.ConfidenceScore = 0.85 + rand.Float64()*0.1
	updated.Metadata.ProcessingSeconds = s.delay.Seconds()
	letters[idx] = updated

	if err := s.repo.SaveLetters(ctx, letters); err != nil {
		s.log.Warn("letter completion failed, marking as failed", slog.String("letterId", letterID), sl.Err(err))
		failed := updated
		failed.Status = models.LetterStatusFailed
		failed.Version = updated.Version
		failed.Content = ""
		failed.CompletedAt = nil
		letters[idx] = failed
		if err := s.repo.SaveLetters(ctx, letters); err != nil {
			s.log.Error("letter stuck in processing", slog.String("letterId", letterID), sl.Err(err))
		}
		return
	}
	s.audit.Record(ctx, models.ActionLetterUpdated, updated.UserID, map[string]any{
		"letterId": letterID,
		"status":   updated.Status,
		"version":  updated.Version,
	})
}

func findLetter(letters []models.Letter, id string) int {
	for i := range letters {
		if letters[i].ID == id {
			return i
		}
	}
	return -1
}
