package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Идентификаторы тарифных планов.
const (
	PlanSingle  = "single"
	PlanAnnual4 = "annual4"
	PlanAnnual8 = "annual8"
)

// Статусы подписки.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Plan — фиксированный тариф: цена, лимит писем и срок действия.
// DurationDays == 0 означает разовую покупку без срока действия.
type Plan struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	LettersAllowed int
	DurationDays   int
}

// Plans — каталог доступных тарифов.
var Plans = map[string]Plan{
	PlanSingle: {
		ID:             PlanSingle,
		Name:           "Single Letter",
		Price:          decimal.NewFromInt(299),
		LettersAllowed: 1,
	},
	PlanAnnual4: {
		ID:             PlanAnnual4,
		Name:           "Annual 4 Letters",
		Price:          decimal.NewFromInt(299),
		LettersAllowed: 4,
		DurationDays:   365,
	},
	PlanAnnual8: {
		ID:             PlanAnnual8,
		Name:           "Annual 8 Letters",
		Price:          decimal.NewFromInt(599),
		LettersAllowed: 8,
		DurationDays:   365,
	},
}

// Subscription представляет купленный экземпляр тарифа.
// Price — итоговая цена после скидки, OriginalPrice — цена до скидки,
// Discount — процент скидки (0 или 20). EmployeeID заполняется, если
// купон принадлежит активному сотруднику. LettersUsed увеличивается
// только LetterService при создании письма и никогда не превышает
// LettersAllowed.
type Subscription struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Plan           string          `json:"plan"`
	Price          decimal.Decimal `json:"price"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	Discount       int             `json:"discount"`
	CouponCode     string          `json:"couponCode,omitempty"`
	EmployeeID     string          `json:"employeeId,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
	LettersUsed    int             `json:"lettersUsed"`
	LettersAllowed int             `json:"lettersAllowed"`
}

// IsCurrent сообщает, действует ли подписка в момент now:
// статус active и срок действия не истёк (или отсутствует).
func (s Subscription) IsCurrent(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
