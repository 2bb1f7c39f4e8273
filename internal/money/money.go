package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMoney = errors.New("invalid money amount")
)

// maxDigits matches NUMERIC(14, 2): twelve integer digits.
const maxDigits = 12

// Parse reads a decimal amount as sent by clients. Signs are kept; callers
// decide whether negatives are allowed.
func Parse(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	if d.Abs().Truncate(0).NumDigits() > maxDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	return d.Round(2), nil
}

// Number renders d as a bare JSON number.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// FromNumber parses a JSON number field back into a decimal.
func FromNumber(n json.Number) (decimal.Decimal, error) {
	return Parse(n.String())
}

// Format renders d with two decimals and thousands separators, e.g. -1,234.50.
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// FormatCurrency prefixes well-known symbols and suffixes other codes.
func FormatCurrency(d decimal.Decimal, currency string) string {
	symbols := map[string]string{"USD": "$", "EUR": "€", "GBP": "£", "INR": "₹"}
	if sym, ok := symbols[strings.ToUpper(currency)]; ok {
		if d.IsNegative() {
			return "-" + sym + Format(d.Neg())
		}
		return sym + Format(d)
	}
	if currency == "" {
		return Format(d)
	}
	return Format(d) + " " + strings.ToUpper(currency)
}
