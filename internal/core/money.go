// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals. Parsing accepts the inputs a person types into a
// form; formatting produces the grouped dollar strings shown next to totals.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.English)

// ParseAmount converts a decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected, zero is allowed. Amounts are rounded half-up to cents.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if len(parts) == 2 && parts[1] == "" {
		s = parts[0]
	}
	if s == "" || s == "." {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// ParsePositiveAmount is ParseAmount restricted to values above zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount for display with thousands grouping,
// e.g. 5000 -> "5,000" and 1234.5 -> "1,234.50". Fractions are rounded
// half-up to cents without going through float64.
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	out := groupWhole(whole)
	if !d.Equal(whole) {
		fixed := d.StringFixed(2)
		out += fixed[strings.IndexByte(fixed, '.'):]
	}
	return sign + out
}

// groupWhole inserts thousands separators into a non-negative integer.
// Values outside int64 are grouped by hand since the printer only
// formats machine integers.
func groupWhole(whole decimal.Decimal) string {
	if bi := whole.BigInt(); bi.IsInt64() {
		return displayPrinter.Sprintf("%d", bi.Int64())
	}
	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Dollars prefixes FormatAmount with a dollar sign, keeping the sign in front.
func Dollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + FormatAmount(d.Neg())
	}
	return "$" + FormatAmount(d)
}
