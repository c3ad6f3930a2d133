// Package kv определяет контракт неймспейсного key-value хранилища
// с JSON-значениями: одна логическая таблица на ключ. Контракт реализуют
// два бэкенда — in-memory для тестов и SQLite для долговременного хранения.
package kv

import "context"

// Ключи логических таблиц хранилища.
const (
	KeyUsers         = "users"
	KeyLetters       = "letters"
	KeySubscriptions = "subscriptions"
	KeyActivities    = "activities"
	KeyCurrentUser   = "currentUser"
	KeyLastLogin     = "lastLogin"
)

// Store описывает контракт key-value хранилища. Значения сериализуются
// в JSON и обязаны восстанавливаться без потерь: даты — строки ISO-8601,
// денежные суммы — decimal-строки.
type Store interface {
	// Get декодирует значение ключа в dest. Возвращает false, если ключа нет.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Put сохраняет JSON-представление value под ключом key.
	Put(ctx context.Context, key string, value any) error
	// Delete удаляет ключ; отсутствие ключа не является ошибкой.
	Delete(ctx context.Context, key string) error
	// Close освобождает ресурсы бэкенда.
	Close() error
}
