package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple integer", "100", true},
		{"decimal", "250.50", true},
		{"one", "1", true},
		{"max amount", "1000000", true},
		{"surrounding spaces", "  42  ", true},
		{"zero", "0", false},
		{"negative", "-5", false},
		{"over max", "1000001", false},
		{"not a number", "abc", false},
		{"empty", "", false},
		{"infinity", "Inf", false},
		{"nan", "NaN", false},
		{"number with words", "100 leones", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAmount(tt.input))
		})
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"e164 with plus", "+23276123456", true},
		{"without plus", "23276123456", true},
		{"spaces stripped", "+232 76 123 456", true},
		{"leading zero", "076123456", false},
		{"too long", "+1234567890123456", false},
		{"letters", "+2327six1234", false},
		{"empty", "", false},
		{"just plus", "+", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhoneNumber(tt.input))
		})
	}
}

func TestStripPhoneNumber(t *testing.T) {
	assert.Equal(t, "+23276123456", StripPhoneNumber("+232 76 123 456"))
	assert.Equal(t, "23276123456", StripPhoneNumber("  23276123456  "))
}

func TestIsValidButtonReply(t *testing.T) {
	assert.True(t, IsValidButtonReply("confirm_yes", "confirm_yes", "confirm_cancel"))
	assert.False(t, IsValidButtonReply("bogus", "confirm_yes", "confirm_cancel"))
	assert.False(t, IsValidButtonReply("confirm_yes"))
}

func TestIsValidListReply(t *testing.T) {
	assert.True(t, IsValidListReply("menu_deposit", "menu_deposit", "menu_withdraw"))
	assert.False(t, IsValidListReply("", "menu_deposit"))
}
