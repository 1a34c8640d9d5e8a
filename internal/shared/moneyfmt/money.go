// Package moneyfmt formats decimal amounts for display.
package moneyfmt

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is given.
const DefaultCurrency = money.USD

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Format renders amount in the currency's display style, e.g. "$1,234.56".
// Amounts are rounded half away from zero to the currency's minor unit.
// Unknown currency codes fall back to "1234.56 XYZ".
func Format(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	f := cur.Formatter()
	minor := amount.Round(int32(f.Fraction)).Shift(int32(f.Fraction))
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return formatDigits(f, minor)
	}
	return f.Format(minor.IntPart())
}

// formatDigits applies the go-money template to a minor-unit amount that does
// not fit in int64, working on the decimal digit string instead.
func formatDigits(f *money.Formatter, minor decimal.Decimal) string {
	sa := minor.Abs().StringFixed(0)

	if len(sa) <= f.Fraction {
		sa = strings.Repeat("0", f.Fraction-len(sa)+1) + sa
	}
	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)

	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
