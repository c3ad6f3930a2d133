package models

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки бизнес-уровня, общие для всех сервисов.
// Сервисы пропускают их наверх без изменений, чтобы вызывающая сторона
// могла ветвиться через errors.Is; неожиданные внутренние ошибки
// оборачиваются в обобщённые ErrCreationFailed / ErrSubscriptionFailed.
var (
	ErrDuplicateEmail          = errors.New("user already exists with this email")
	ErrInvalidCredentials      = errors.New("invalid credentials or account deactivated")
	ErrNotAuthenticated        = errors.New("user not authenticated")
	ErrUnauthorized            = errors.New("invalid admin secret key")
	ErrInsufficientPermissions = errors.New("only users can generate letters")
	ErrAccessDenied            = errors.New("access denied")
	ErrNoSubscription          = errors.New("active subscription required")
	ErrQuotaExceeded           = errors.New("letter limit exceeded for current subscription")
	ErrInvalidPlan             = errors.New("unknown subscription plan")
	ErrCreationFailed          = errors.New("failed to create letter")
	ErrSubscriptionFailed      = errors.New("failed to create subscription")
)

// ValidationError — ошибка валидации входных данных с указанием поля.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
