// file: models/normalize.go
package models

import (
	"strings"
	"unicode"
)

// Field length caps.
const (
	MobileLength   = 10
	AWBMaxLength   = 20
	QuantityLength = 4
)

// DigitsOnly strips every non-digit and caps the result at max runes (0 = no cap).
func DigitsOnly(value string, max int) string {
	return keep(value, max, func(r rune) (rune, bool) {
		return r, r >= '0' && r <= '9'
	})
}

// AlphanumericUpper keeps ASCII letters and digits, upper-cased, capped at max.
func AlphanumericUpper(value string, max int) string {
	return keep(value, max, func(r rune) (rune, bool) {
		if r > unicode.MaxASCII {
			return r, false
		}
		if unicode.IsDigit(r) {
			return r, true
		}
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r), true
		}
		return r, false
	})
}

func keep(value string, max int, accept func(rune) (rune, bool)) string {
	var b strings.Builder
	n := 0
	for _, r := range value {
		if max > 0 && n == max {
			break
		}
		if out, ok := accept(r); ok {
			b.WriteRune(out)
			n++
		}
	}
	return b.String()
}
