// Package money formats monetary amounts for receipt and label output.
package money

import (
	"math"
	"strconv"
	"strings"
)

// Format renders an amount with exactly two decimal places and thousands
// grouping, e.g. 1050.5 -> "1,050.50". Negative amounts keep a leading minus.
// Non-finite amounts come back as FormatFloat prints them ("+Inf", "NaN").
func Format(amount float64) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)
	return b.String()
}

// FormatQuantity renders a quantity without trailing zeros, e.g. 3 -> "3",
// 0.5 -> "0.5".
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
