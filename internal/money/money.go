// Package money converts between user-entered decimal amounts and the
// integer minor units (cents) stored on expenses.
package money

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for empty, malformed, negative or zero amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// maxWhole keeps whole*100 inside int64.
const maxWhole = (1<<63 - 1) / 100

// ParseCents converts a decimal string such as "12.34" or "12,34" into cents.
// A third fractional digit rounds half-up; further digits are ignored.
// Only strictly positive amounts are accepted.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrInvalidAmount
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > maxWhole {
		return 0, ErrInvalidAmount
	}

	var cents int64
	if len(frac) > 0 {
		cents = int64(frac[0]-'0') * 10
	}
	if len(frac) > 1 {
		cents += int64(frac[1] - '0')
	}
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}

	total := w*100 + cents
	if total <= 0 {
		return 0, ErrInvalidAmount
	}
	return total, nil
}

// Format renders cents as a plain decimal with two fractional digits,
// e.g. 123456 -> "1234.56". This is also the value written back into forms.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + frac
}

// Sum adds up a list of amounts.
func Sum(amounts ...int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
