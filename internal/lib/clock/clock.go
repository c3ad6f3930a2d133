// Package clock абстрагирует источник времени и отложенный запуск задач.
//
// Сервисы получают Clock при конструировании: в продакшене это системные
// часы, в тестах — Fake, позволяющий продвигать виртуальное время без
// реальных задержек.
package clock

import "time"

// Clock предоставляет текущее время и планирование отложенных функций.
type Clock interface {
	// Now возвращает текущее время.
	Now() time.Time
	// AfterFunc вызывает fn в отдельной горутине по истечении d
	// и возвращает функцию отмены (true, если отмена успела).
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type systemClock struct{}

// New возвращает Clock, работающий от системных часов.
func New() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
