package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPII(t *testing.T) {
	out := RedactPII("call 0551234567 or mail ali@example.com")
	assert.NotContains(t, out, "0551234567")
	assert.NotContains(t, out, "ali@example.com")
	assert.Contains(t, out, "[redacted phone]")
	assert.Contains(t, out, "[redacted email]")
	assert.Equal(t, "", RedactPII(""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "ali", Fold("  ALI "))
	assert.Equal(t, "محمد", Fold("مُحـمَّد"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "short", Summary("short", 10))
	assert.Equal(t, "hello…", Summary("hello wonderful world", 8))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "966551234567", Digits("+966 55-123 4567"))
}
