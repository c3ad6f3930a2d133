// Package identity содержит бизнес-логику управления пользователями и сессией:
// регистрацию, вход, выход, ленивую проверку срока сессии, а также операции
// над записями сотрудников (поиск по купону, начисление комиссии).
// Пакет — единственный владелец таблицы users.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/legalletter/legalletter/internal/lib/clock"
	"github.com/legalletter/legalletter/internal/lib/coupon"
	"github.com/legalletter/legalletter/internal/lib/jwt"
	"github.com/legalletter/legalletter/internal/lib/password"
	"github.com/legalletter/legalletter/internal/lib/validate"
	"github.com/legalletter/legalletter/internal/models"
)

// Repository описывает доступ к таблице пользователей и данным сессии.
type Repository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
	Session(ctx context.Context) (*models.Session, error)
	SaveSession(ctx context.Context, sess models.Session, lastLogin time.Time) error
	LastLogin(ctx context.Context) (time.Time, bool, error)
	ClearSession(ctx context.Context) error
}

// AuditLog описывает журнал активности.
type AuditLog interface {
	Record(ctx context.Context, action, userID string, details map[string]any)
}

// Config — настройки сервиса.
type Config struct {
	AdminSecret string        // Секрет, требуемый для регистрации администратора
	SessionTTL  time.Duration // Срок действия сессии с момента последнего входа
}

// Service реализует операции над пользователями и сессией.
type Service struct {
	repo  Repository
	audit AuditLog
	maker jwt.Maker
	clk   clock.Clock
	cfg   Config
	log   *slog.Logger

	mu sync.Mutex
}

// New создает новый экземпляр Service.
func New(repo Repository, auditLog AuditLog, maker jwt.Maker, clk clock.Clock, cfg Config, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		audit: auditLog,
		maker: maker,
		clk:   clk,
		cfg:   cfg,
		log:   log,
	}
}

// SignUp регистрирует нового пользователя, устанавливает его сессию
// и возвращает созданную запись. Email уникален без учёта регистра,
// роль admin требует корректного секрета, сотрудник получает уникальный
// реферальный код.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	const op = "identity.SignUp"

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, err
	}
	if err := validate.Name(req.FullName); err != nil {
		return nil, err
	}
	if req.Role == models.RoleAdmin {
		if err := validate.AdminSecret(req.AdminSecret, s.cfg.AdminSecret); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, models.ErrDuplicateEmail
		}
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clk.Now().UTC()
	user := models.User{
		ID:            uuid.NewString(),
		Email:         strings.ToLower(req.Email),
		FullName:      strings.TrimSpace(req.FullName),
		PasswordHash:  hash,
		Role:          req.Role,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		LastLoginAt:   &now,
		Earnings:      decimal.Zero,
		Preferences:   models.DefaultPreferences(),
	}
	if req.Role == models.RoleEmployee {
		user.CouponCode = uniqueCouponCode(users, user.FullName)
	}

	users = append(users, user)
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.establishSession(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Record(ctx, models.ActionUserSignup, user.ID, map[string]any{
		"role":  user.Role,
		"email": user.Email,
	})
	s.log.Info("user signed up", slog.String("userId", user.ID), slog.String("role", user.Role))
	return &user, nil
}

// SignIn выполняет вход по email и паролю, обновляет lastLoginAt
// и устанавливает сессию. Любое несоответствие — неизвестный email,
// деактивированный или неподтверждённый аккаунт, неверный пароль —
// возвращается как ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "identity.SignIn"

	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawPassword) == "" {
		return nil, &models.ValidationError{Field: "password", Message: "is a required field"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := -1
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			idx = i
			break
		}
	}
	if idx < 0 || !users[idx].IsActive || !users[idx].EmailVerified {
		return nil, models.ErrInvalidCredentials
	}
	if err := password.CompareHash(users[idx].PasswordHash, rawPassword); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	now := s.clk.Now().UTC()
	user := users[idx]
	user.LastLoginAt = &now
	users[idx] = user
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.establishSession(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Record(ctx, models.ActionUserSignin, user.ID, map[string]any{"email": user.Email})
	return &user, nil
}

// SignOut завершает текущую сессию. Отсутствие сессии не является ошибкой.
func (s *Service) SignOut(ctx context.Context) error {
	const op = "identity.SignOut"

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.repo.Session(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if sess != nil {
		s.audit.Record(ctx, models.ActionUserSignout, sess.UserID, nil)
	}
	if err := s.repo.ClearSession(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CurrentUser возвращает пользователя текущей сессии или nil, если сессии нет.
// Срок сессии проверяется лениво при каждом вызове: просроченная сессия
// очищается на месте, фоновых таймеров нет.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	const op = "identity.CurrentUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.repo.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sess == nil {
		return nil, nil
	}

	lastLogin, found, err := s.repo.LastLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || s.clk.Now().Sub(lastLogin) > s.cfg.SessionTTL {
		s.audit.Record(ctx, models.ActionSessionExpired, sess.UserID, nil)
		return nil, s.expireSession(ctx, op)
	}
	if _, err := s.maker.ParseToken(sess.Token); err != nil {
		return nil, s.expireSession(ctx, op)
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.ID == sess.UserID && u.IsActive {
			return &u, nil
		}
	}
	return nil, s.expireSession(ctx, op)
}

func (s *Service) expireSession(ctx context.Context, op string) error {
	if err := s.repo.ClearSession(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindEmployeeByCoupon возвращает активного сотрудника с указанным
// реферальным кодом без учёта регистра. Неизвестный код — ожидаемый
// бизнес-исход: возвращается (nil, nil), а не ошибка.
func (s *Service) FindEmployeeByCoupon(ctx context.Context, code string) (*models.User, error) {
	const op = "identity.FindEmployeeByCoupon"

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.Role == models.RoleEmployee && u.IsActive && strings.EqualFold(u.CouponCode, code) {
			return &u, nil
		}
	}
	return nil, nil
}

// CreditEmployee начисляет сотруднику комиссию за приведённого покупателя:
// referrals увеличивается на единицу, earnings — на amount. Вызывается
// SubscriptionService; прямых мутаций таблицы users извне нет.
func (s *Service) CreditEmployee(ctx context.Context, employeeID string, amount decimal.Decimal) error {
	const op = "identity.CreditEmployee"

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, u := range users {
		if u.ID != employeeID {
			continue
		}
		if u.Role != models.RoleEmployee {
			return fmt.Errorf("%s: user %s is not an employee", op, employeeID)
		}
		u.Referrals++
		u.Earnings = u.Earnings.Add(amount)
		users[i] = u
		if err := s.repo.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.audit.Record(ctx, models.ActionEmployeeCredit, employeeID, map[string]any{
			"earnings":      amount.String(),
			"totalEarnings": u.Earnings.String(),
		})
		return nil
	}
	return fmt.Errorf("%s: employee %s not found", op, employeeID)
}

// GetUser возвращает пользователя по ID или nil, если он не найден.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "identity.GetUser"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

// ListUsers возвращает всех пользователей (для административных чтений).
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) establishSession(ctx context.Context, user models.User) error {
	token, err := s.maker.GenerateToken(user.ID, user.Role)
	if err != nil {
		return err
	}
	return s.repo.SaveSession(ctx, models.Session{UserID: user.ID, Token: token}, s.clk.Now().UTC())
}

// uniqueCouponCode генерирует код, не совпадающий ни с одним из существующих.
func uniqueCouponCode(users []models.User, fullName string) string {
	for {
		code := coupon.Generate(fullName)
		taken := false
		for _, u := range users {
			if strings.EqualFold(u.CouponCode, code) {
				taken = true
				break
			}
		}
		if !taken {
			return code
		}
	}
}
