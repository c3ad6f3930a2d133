// Package subscription содержит бизнес-логику тарифов: покупку подписки,
// применение реферального купона со скидкой, начисление комиссии сотруднику
// и атомарное списание квоты писем. Пакет — единственный владелец таблицы
// subscriptions; счётчики сотрудников мутируются только через IdentityService.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/models"
)

// Скидка по купону, процентов от цены тарифа.
const couponDiscountPercent = 20

// Ставка комиссии сотрудника: 5% от итоговой цены после скидки.
var commissionRate = decimal.NewFromFloat(0.05)

// Repository описывает доступ к таблице подписок.
type Repository interface {
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	SaveSubscriptions(ctx context.Context, subs []models.Subscription) error
}

// IdentityDirectory — операции IdentityService, нужные для купонов и комиссий.
type IdentityDirectory interface {
	FindEmployeeByCoupon(ctx context.Context, code string) (*models.User, error)
	CreditEmployee(ctx context.Context, employeeID string, amount decimal.Decimal) error
}

// AuditLog описывает журнал активности.
type AuditLog interface {
	Record(ctx context.Context, action, userID string, details map[string]any)
}

// Service реализует операции над подписками.
type Service struct {
	repo  Repository
	users IdentityDirectory
	audit AuditLog
	clk   clock.Clock
	log   *slog.Logger

	mu sync.Mutex
}

// New создает новый экземпляр Service.
func New(repo Repository, users IdentityDirectory, auditLog AuditLog, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		audit: auditLog,
		clk:   clk,
		log:   log,
	}
}

// ResolveCoupon возвращает активного сотрудника, которому принадлежит код,
// или nil, если код неизвестен — вызывающая сторона трактует это как
// «без скидки», ошибкой это не является.
func (s *Service) ResolveCoupon(ctx context.Context, code string) (*models.User, error) {
	return s.users.FindEmployeeByCoupon(ctx, code)
}

// Create оформляет подписку на тариф planID для пользователя userID.
// Если couponCode принадлежит активному сотруднику, цена уменьшается на 20%,
// а сотруднику начисляется 5% от итоговой цены и один реферал.
// Неизвестный тариф — ErrInvalidPlan; неожиданные внутренние сбои
// оборачиваются в ErrSubscriptionFailed.
func (s *Service) Create(ctx context.Context, userID, planID, couponCode string) (*models.Subscription, error) {
	plan, ok := models.Plans[planID]
	if !ok {
		return nil, models.ErrInvalidPlan
	}

	employee, err := s.ResolveCoupon(ctx, couponCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrSubscriptionFailed, err)
	}

	discount := 0
	price := plan.Price
	if employee != nil {
		discount = couponDiscountPercent
		price = plan.Price.Mul(decimal.NewFromInt(int64(100 - discount))).Div(decimal.NewFromInt(100))
	}
	// Восстановление цены до скидки: price / (1 - discount/100).
	originalPrice := price.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(100 - discount)))

	now := s.clk.Now().UTC()
	sub := models.Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		Plan:           plan.ID,
		Price:          price,
		OriginalPrice:  originalPrice,
		Discount:       discount,
		CouponCode:     couponCode,
		Status:         models.SubscriptionStatusActive,
		CreatedAt:      now,
		LettersAllowed: plan.LettersAllowed,
	}
	if employee != nil {
		sub.EmployeeID = employee.ID
	}
	if plan.DurationDays > 0 {
		expires := now.AddDate(0, 0, plan.DurationDays)
		sub.ExpiresAt = &expires
	}

	s.mu.Lock()
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", models.ErrSubscriptionFailed, err)
	}
	subs = append(subs, sub)
	if err := s.repo.SaveSubscriptions(ctx, subs); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", models.ErrSubscriptionFailed, err)
	}
	s.mu.Unlock()

	if employee != nil {
		commission := price.Mul(commissionRate)
		if err := s.users.CreditEmployee(ctx, employee.ID, commission); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrSubscriptionFailed, err)
		}
	}

	s.audit.Record(ctx, models.ActionSubscription, userID, map[string]any{
		"subscriptionId": sub.ID,
		"plan":           sub.Plan,
		"price":          sub.Price.String(),
	})
	s.log.Info("subscription created",
		slog.String("subscriptionId", sub.ID),
		slog.String("plan", sub.Plan),
		slog.Int("discount", sub.Discount))
	return &sub, nil
}

// ActiveSubscription возвращает действующую подписку пользователя или nil.
// Если активных подписок несколько, выбирается созданная последней.
func (s *Service) ActiveSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "subscription.ActiveSubscription"

	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.clk.Now()
	var current *models.Subscription
	for i := range subs {
		sub := subs[i]
		if sub.UserID != userID || !sub.IsCurrent(now) {
			continue
		}
		if current == nil || sub.CreatedAt.After(current.CreatedAt) {
			current = &sub
		}
	}
	return current, nil
}

// ConsumeQuota атомарно списывает единицу квоты с действующей подписки
// пользователя. Возвращает ErrNoSubscription при отсутствии действующей
// подписки и ErrQuotaExceeded при исчерпанном лимите; в обоих случаях
// хранилище не изменяется.
func (s *Service) ConsumeQuota(ctx context.Context, userID string) error {
	const op = "subscription.ConsumeQuota"

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now := s.clk.Now()
	idx := -1
	for i := range subs {
		if subs[i].UserID != userID || !subs[i].IsCurrent(now) {
			continue
		}
		if idx < 0 || subs[i].CreatedAt.After(subs[idx].CreatedAt) {
			idx = i
		}
	}
	if idx < 0 {
		return models.ErrNoSubscription
	}
	if subs[idx].LettersUsed >= subs[idx].LettersAllowed {
		return models.ErrQuotaExceeded
	}

	updated := subs[idx]
	updated.LettersUsed++
	subs[idx] = updated
	if err := s.repo.SaveSubscriptions(ctx, subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает подписки пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "subscription.List"

	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Subscription
	for _, sub := range subs {
		if sub.UserID == userID {
			result = append(result, sub)
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}
