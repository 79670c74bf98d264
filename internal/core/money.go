// Package core holds the debt record and the pure derivations over it:
// status classification, financial aggregation, reminders and sorting.
//
// This file contains amount parsing for form input. Amounts stay float64
// end to end; installment math intentionally uses plain double-precision
// division rather than fixed-point correction.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string to a positive float64 amount.
// Both dot (1234.56) and comma (1234,56) decimal separators are accepted.
// Returns ErrInvalidTotalValue for empty input, signs, malformed digits,
// non-finite results, or non-positive amounts.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidTotalValue
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidTotalValue
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidTotalValue
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidTotalValue
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidTotalValue
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidTotalValue
	}
	return v, nil
}
