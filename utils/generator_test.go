package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateOTP()
		assert.Len(t, code, 4)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from 10000 values virtually never collapse to one
	assert.Greater(t, len(seen), 1)
}

func TestGenerateBookingCode(t *testing.T) {
	a, b := GenerateBookingCode(), GenerateBookingCode()

	assert.True(t, strings.HasPrefix(a, "BK-"))
	assert.Len(t, a, 11)
	assert.NotEqual(t, a, b)
}
