// Package coupon генерирует реферальные коды сотрудников.
//
// Код состоит из префикса — до четырёх букв имени сотрудника в верхнем
// регистре — и четырёх случайных символов. Уникальность кода среди всех
// сотрудников обеспечивает вызывающая сторона, перегенерируя код при
// коллизии.
package coupon

import (
	"crypto/rand"
	"strings"
	"unicode"
)

const (
	suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen      = 4
	prefixMaxLen   = 4
	fallbackPrefix = "EMP"
)

// Generate возвращает новый реферальный код для сотрудника с указанным именем.
func Generate(fullName string) string {
	return prefix(fullName) + randomSuffix()
}

func prefix(fullName string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(fullName), " ")
	var b strings.Builder
	for _, r := range first {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= prefixMaxLen {
			break
		}
	}
	if b.Len() == 0 {
		return fallbackPrefix
	}
	return b.String()
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	// rand.Read из crypto/rand никогда не возвращает ошибку начиная с Go 1.24.
	_, _ = rand.Read(buf)
	out := make([]byte, suffixLen)
	for i, c := range buf {
		out[i] = suffixAlphabet[int(c)%len(suffixAlphabet)]
	}
	return string(out)
}
