package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы проверки работоспособности.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// SystemMetrics — агрегированные показатели для панелей администратора.
type SystemMetrics struct {
	TotalUsers          int             `json:"totalUsers"`
	TotalEmployees      int             `json:"totalEmployees"`
	TotalLetters        int             `json:"totalLetters"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	ActiveSubscriptions int             `json:"activeSubscriptions"`
	ConversionRate      float64         `json:"conversionRate"` // подписки / пользователи, в процентах
}

// HealthReport — результат проверки работоспособности. При сбое чтения
// возвращается статус degraded с нулевыми метриками вместо ошибки.
type HealthReport struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Metrics   SystemMetrics `json:"metrics"`
}

// Export — полный снимок данных для выгрузки администратором.
type Export struct {
	Users         []User         `json:"users"`
	Letters       []Letter       `json:"letters"`
	Subscriptions []Subscription `json:"subscriptions"`
	Activities    []AuditEntry   `json:"activities"`
}
