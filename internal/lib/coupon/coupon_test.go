package coupon

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var codeRe = regexp.MustCompile(`^[A-Z]{1,4}[A-Z0-9]{4}$`)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		fullName   string
		wantPrefix string
	}{
		{name: "short first name", fullName: "Ann Lee", wantPrefix: "ANN"},
		{name: "long first name truncated", fullName: "Jonathan Smith", wantPrefix: "JONA"},
		{name: "lowercase input", fullName: "maria garcia", wantPrefix: "MARI"},
		{name: "single word", fullName: "Bob", wantPrefix: "BOB"},
		{name: "empty name falls back", fullName: "", wantPrefix: "EMP"},
		{name: "non letters fall back", fullName: "1234 567", wantPrefix: "EMP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := Generate(tt.fullName)
			assert.Regexp(t, codeRe, code)
			assert.Equal(t, tt.wantPrefix, code[:len(code)-suffixLen])
		})
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		seen[Generate("Ann Lee")] = true
	}
	// 4 случайных символа из 36 практически не дают коллизий на 50 попытках.
	assert.Greater(t, len(seen), 1)
}
