package models

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// IsMissingValue reports whether a raw field value counts as absent: empty
// after trimming, or the literal token N/A in any casing.
func IsMissingValue(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || strings.EqualFold(trimmed, "N/A")
}

// CleanAmountString strips currency symbols, thousands separators, percent
// signs and whitespace from a raw monetary value.
func CleanAmountString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || r == '%' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseAmount parses a monetary field. Missing or unparseable values coerce
// to zero rather than erroring; presence is enforced separately, before
// parsing.
func ParseAmount(s string) decimal.Decimal {
	if IsMissingValue(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(CleanAmountString(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseCompletion parses a percent-of-completion field as an integer
// percentage. Missing or unparseable values coerce to zero; fractional
// values truncate toward zero.
func ParseCompletion(s string) int {
	if IsMissingValue(s) {
		return 0
	}
	cleaned := CleanAmountString(s)
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int(f)
	}
	return 0
}
