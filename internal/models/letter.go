package models

import "time"

// Статусы жизненного цикла письма. Переходы допустимы только по цепочке
// pending -> processing -> completed|failed.
const (
	LetterStatusPending    = "pending"
	LetterStatusProcessing = "processing"
	LetterStatusCompleted  = "completed"
	LetterStatusFailed     = "failed"
)

// Letter представляет запрос на генерацию юридического письма и его результат.
// Content заполняется только при переходе в статус completed, Version
// увеличивается при каждой смене статуса.
type Letter struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	SenderName       string         `json:"senderName"`
	SenderAddress    string         `json:"senderAddress"`
	RecipientName    string         `json:"recipientName"`
	RecipientAddress string         `json:"recipientAddress"`
	Matter           string         `json:"matter"`
	Resolution       string         `json:"resolution"`
	Content          string         `json:"content"`
	Status           string         `json:"status"`
	GeneratedAt      time.Time      `json:"generatedAt"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	Version          int            `json:"version"`
	IsDeleted        bool           `json:"isDeleted"`
	Metadata         LetterMetadata `json:"metadata"`
}

// LetterMetadata — служебные сведения о генерации, заполняются при завершении.
type LetterMetadata struct {
	AIModel           string  `json:"aiModel"`
	ProcessingSeconds float64 `json:"processingSeconds"`
	WordCount         int     `json:"wordCount"`
	ConfidenceScore   float64 `json:"confidenceScore"`
}

// CreateLetterRequest используется для приёма данных нового письма.
// Все текстовые поля обязательны.
type CreateLetterRequest struct {
	SenderName       string `json:"senderName" validate:"required"`
	SenderAddress    string `json:"senderAddress" validate:"required"`
	RecipientName    string `json:"recipientName" validate:"required"`
	RecipientAddress string `json:"recipientAddress" validate:"required"`
	Matter           string `json:"matter" validate:"required"`
	Resolution       string `json:"resolution" validate:"required"`
}
