package services

import (
	"strings"
)

// Operator is a mobile money network we can route payouts through,
// identified by the provider's channel code.
type Operator struct {
	Code string
	Name string
}

// Sierra Leone mobile prefixes to provider channel codes.
var operatorPrefixes = map[string]Operator{
	"76": {Code: "m17", Name: "Orange Money"},
	"75": {Code: "m17", Name: "Orange Money"},
	"78": {Code: "m17", Name: "Orange Money"},
	"79": {Code: "m17", Name: "Orange Money"},
	"77": {Code: "m18", Name: "Afrimoney"},
	"88": {Code: "m18", Name: "Afrimoney"},
	"30": {Code: "m18", Name: "Afrimoney"},
	"33": {Code: "m18", Name: "Afrimoney"},
	"99": {Code: "m18", Name: "Afrimoney"},
	"31": {Code: "m13", Name: "Qcell"},
	"32": {Code: "m13", Name: "Qcell"},
	"34": {Code: "m13", Name: "Qcell"},
}

// Payout rails not yet live with the provider.
var deniedOperators = map[string]bool{
	"m13": true,
}

// LookupOperator resolves a phone number to its mobile money operator.
// The second return is false when the prefix is unknown.
func LookupOperator(number string) (Operator, bool) {
	digits := strings.TrimPrefix(strings.TrimSpace(number), "+")
	digits = strings.TrimPrefix(digits, "232")
	if len(digits) < 2 {
		return Operator{}, false
	}
	op, ok := operatorPrefixes[digits[:2]]
	return op, ok
}

// IsSupportedOperator reports whether we can send a payout to the
// operator serving the given number.
func IsSupportedOperator(number string) bool {
	op, ok := LookupOperator(number)
	if !ok {
		return false
	}
	return !deniedOperators[op.Code]
}
