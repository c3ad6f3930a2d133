// Package models содержит доменную модель сервиса генерации юридических писем:
// пользователей, письма, подписки и записи журнала активности.
// Все даты сериализуются в JSON как строки ISO-8601, денежные суммы — как
// decimal-строки, чтобы данные без потерь переживали запись в хранилище.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Роли пользователей системы.
const (
	RoleUser     = "user"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Поля CouponCode, Referrals и Earnings заполняются только для роли employee:
// купон выдаётся при регистрации, а счётчики мутируются исключительно
// через IdentityService.CreditEmployee при применении купона.
type User struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"` // хранится в нижнем регистре, уникален
	FullName      string          `json:"fullName"`
	PasswordHash  string          `json:"passwordHash"`
	Role          string          `json:"role"`
	IsActive      bool            `json:"isActive"`
	EmailVerified bool            `json:"emailVerified"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastLoginAt   *time.Time      `json:"lastLoginAt,omitempty"`
	CouponCode    string          `json:"couponCode,omitempty"`
	Referrals     int             `json:"referrals"`
	Earnings      decimal.Decimal `json:"earnings"`
	Preferences   Preferences     `json:"preferences"`
}

// Preferences — пользовательские настройки интерфейса и приватности.
type Preferences struct {
	Theme         string              `json:"theme"` // light, dark или system
	Notifications NotificationsConfig `json:"notifications"`
	Privacy       PrivacyConfig       `json:"privacy"`
}

// NotificationsConfig — настройки каналов уведомлений.
type NotificationsConfig struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Marketing bool `json:"marketing"`
}

// PrivacyConfig — настройки приватности профиля.
type PrivacyConfig struct {
	ProfileVisible  bool `json:"profileVisible"`
	AnalyticsOptOut bool `json:"analyticsOptOut"`
}

// DefaultPreferences возвращает настройки, назначаемые новому пользователю.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: "system",
		Notifications: NotificationsConfig{
			Email: true,
		},
		Privacy: PrivacyConfig{
			ProfileVisible: true,
		},
	}
}

// Session — текущая сессия пользователя, хранится под ключом currentUser.
// Token — подписанный JWT, срок действия которого проверяется лениво
// при каждом обращении к CurrentUser вместе с отметкой lastLogin.
type Session struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// SignUpRequest используется для приёма данных регистрации до конвертации в User.
// AdminSecret обязателен только при роли admin.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	FullName    string `json:"fullName" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=user employee admin"`
	AdminSecret string `json:"adminSecret,omitempty"`
}
