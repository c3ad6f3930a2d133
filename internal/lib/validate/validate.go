// Package validate содержит чистые функции проверки пользовательского ввода:
// формат email, стойкость пароля, формат имени и секрет администратора.
// Все функции детерминированы и не зависят от локали или времени.
package validate

import (
	"crypto/subtle"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator"

	"github.com/legalletter/legalletter/internal/models"
)

var (
	vld    = validator.New()
	nameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// Email проверяет, что строка имеет форму local@domain.tld.
func Email(email string) error {
	if err := vld.Var(email, "required,email"); err != nil {
		return &models.ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// Password проверяет минимальную длину и наличие строчной буквы,
// заглавной буквы и цифры.
func Password(pw string) error {
	if len(pw) < 8 {
		return &models.ValidationError{Field: "password", Message: "password must be at least 8 characters long"}
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return &models.ValidationError{Field: "password", Message: "password must contain uppercase, lowercase, and number"}
	}
	return nil
}

// Name проверяет, что имя после обрезки пробелов содержит не меньше двух
// символов и состоит только из букв и пробелов.
func Name(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || !nameRe.MatchString(trimmed) {
		return &models.ValidationError{Field: "fullName", Message: "invalid name format"}
	}
	return nil
}

// AdminSecret сравнивает переданный секрет с ожидаемым за постоянное время.
// Возвращает models.ErrUnauthorized при несовпадении.
func AdminSecret(secret, want string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(want)) != 1 {
		return models.ErrUnauthorized
	}
	return nil
}

// Struct валидирует структуру по validate-тегам и возвращает первую
// нарушенную проверку как *models.ValidationError.
func Struct(v any) error {
	err := vld.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &models.ValidationError{Field: "request", Message: "invalid request"}
	}
	first := errs[0]
	field := first.Field()
	if len(field) > 0 {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	switch first.ActualTag() {
	case "required":
		return &models.ValidationError{Field: field, Message: "is a required field"}
	case "email":
		return &models.ValidationError{Field: field, Message: "invalid email format"}
	case "oneof":
		return &models.ValidationError{Field: field, Message: "has unsupported value"}
	default:
		return &models.ValidationError{Field: field, Message: "is not valid"}
	}
}
