package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory — in-memory реализация Store. Значения хранятся уже
// сериализованными, чтобы поведение совпадало с durable-бэкендом
// (каждый Get возвращает независимую копию данных).
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory создаёт пустое in-memory хранилище.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get декодирует значение ключа в dest.
func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	const op = "kv.Memory.Get"
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Put сохраняет JSON-представление value под ключом key.
func (m *Memory) Put(_ context.Context, key string, value any) error {
	const op = "kv.Memory.Put"
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// Delete удаляет ключ.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Close реализует Store; для in-memory бэкенда это no-op.
func (m *Memory) Close() error { return nil }
