package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxAmount is the largest single transaction amount the bot accepts.
const MaxAmount = 1_000_000

// Loose E.164: optional +, no leading zero, up to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// IsValidAmount reports whether s is a finite number with
// 0 < value <= MaxAmount.
func IsValidAmount(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > 0 && v <= MaxAmount
}

// IsValidPhoneNumber reports whether s looks like an E.164 mobile
// number after stripping whitespace.
func IsValidPhoneNumber(s string) bool {
	stripped := strings.Join(strings.Fields(s), "")
	return phoneRegex.MatchString(stripped)
}

// StripPhoneNumber removes all whitespace from a phone input
func StripPhoneNumber(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// IsValidButtonReply reports whether id is one of the IDs the current
// template's buttons can produce.
func IsValidButtonReply(id string, expectedIDs ...string) bool {
	for _, expected := range expectedIDs {
		if id == expected {
			return true
		}
	}
	return false
}

// IsValidListReply reports whether id is one of the IDs the current
// template's list rows can produce.
func IsValidListReply(id string, expectedIDs ...string) bool {
	return IsValidButtonReply(id, expectedIDs...)
}
