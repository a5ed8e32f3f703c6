package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+37477123456", "+37477123456"},
		{"37477123456", "+37477123456"},
		{"0037477123456", "+37477123456"},
		{"077123456", "+37477123456"},
		{"77123456", "+37477123456"},
		{"+374 77 12 34 56", "+37477123456"},
		{"(077) 12-34-56", "+37477123456"},
		{"  +37477123456  ", "+37477123456"},
		{"", ""},
		{"abc", ""},
		{"12345", ""},
		{"+1", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}
