package journal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ParseNumber turns user text such as "1,200.50", "−850" or "₪ 42" into a
// decimal. Currency symbols, spaces and letters are dropped, the Unicode
// minus becomes '-', and thousands commas are removed. Whatever is left must
// be a plain signed decimal or the input is rejected.
func ParseNumber(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, ErrEmptyNumber
	}

	raw = strings.ReplaceAll(raw, "\u2212", "-")

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if !numberPattern.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidNumber, raw, err)
	}
	return d, nil
}

// FlipSign negates the number in raw and returns it as text.
func FlipSign(raw string) (string, error) {
	d, err := ParseNumber(raw)
	if err != nil {
		return raw, err
	}
	return d.Neg().String(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// exact is money without rounding: two decimals unless d needs more.
func exact(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
