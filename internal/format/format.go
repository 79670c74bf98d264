// Package format holds presentation helpers shared by the HTTP templates,
// the reminder emails and the XLSX export. Formatting is display-only; the
// derivation core hands out raw float64 values and ISO dates.
package format

import (
	"fmt"
	"strings"

	"dividas/internal/core"
)

// BRL renders an amount as Brazilian currency, e.g. "R$ 1.234,56".
func BRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	// Round to cents first so 99.999 prints as 100,00.
	cents := int64(v*100 + 0.5)
	intPart := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", intPart)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	s := fmt.Sprintf("R$ %s,%02d", b.String(), frac)
	if neg {
		return "-" + s
	}
	return s
}

// Date renders a calendar date as DD/MM/YYYY, or "N/A" for a zero date.
func Date(d core.Date) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format("02/01/2006")
}
