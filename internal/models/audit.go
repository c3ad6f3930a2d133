package models

import "time"

// Действия, фиксируемые в журнале активности.
const (
	ActionUserSignup     = "USER_SIGNUP"
	ActionUserSignin     = "USER_SIGNIN"
	ActionUserSignout    = "USER_SIGNOUT"
	ActionSessionExpired = "SESSION_EXPIRED"
	ActionLetterCreated  = "LETTER_CREATED"
	ActionLetterUpdated  = "LETTER_UPDATED"
	ActionSubscription   = "SUBSCRIPTION_CREATED"
	ActionEmployeeCredit = "EMPLOYEE_EARNINGS_UPDATED"
)

// AuditEntry — запись журнала активности. Журнал append-only и ограничен
// последними 1000 записями, более старые вытесняются первыми.
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	UserID    string         `json:"userId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
