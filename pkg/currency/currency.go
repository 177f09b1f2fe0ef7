// Package currency formats amounts the way the inventory UI shows them:
// dots group thousands, a comma starts the decimals ("1.234.567,89").
package currency

import (
	"strconv"
	"strings"
)

// FormatDisplay reformats raw keystroke input for display. It keeps a
// leading minus, drops every other non-digit, strips leading zeros (a single
// zero before the decimal comma stays) and regroups the integer part.
// Everything after the last comma is kept as the decimal part, so partial
// input like "12," survives.
func FormatDisplay(input string) string {
	if input == "" {
		return ""
	}
	negative := strings.HasPrefix(strings.TrimSpace(input), "-")

	intPart, decPart, hasDecimal := split(input)
	display := groupThousands(trimLeadingZeros(intPart))
	if hasDecimal {
		display += "," + decPart
	}
	if negative {
		display = "-" + display
	}
	return display
}

// Normalize converts display input to a machine numeric string such as
// "-1234567.89". It returns "" when the input holds no digits.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	negative := strings.HasPrefix(trimmed, "-")

	intPart, decPart, hasDecimal := split(trimmed)
	intPart = trimLeadingZeros(intPart)
	if intPart == "" && decPart == "" {
		return ""
	}
	if intPart == "" {
		intPart = "0"
	}
	out := intPart
	if hasDecimal && decPart != "" {
		out += "." + decPart
	}
	if negative {
		out = "-" + out
	}
	return out
}

// Parse returns the numeric value of display input. ok is false when the
// input holds no digits.
func Parse(input string) (float64, bool) {
	n := Normalize(input)
	if n == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Format renders a model value for display. A nil value renders as "".
func Format(value *float64) string {
	if value == nil {
		return ""
	}
	return FormatFloat(*value)
}

func FormatFloat(value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, decPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	out := groupThousands(intPart)
	if decPart != "" {
		out += "," + decPart
	}
	if negative {
		out = "-" + out
	}
	return out
}

// FormatInt renders a whole amount such as a house price.
func FormatInt(value int64) string {
	s := strconv.FormatInt(value, 10)
	if strings.HasPrefix(s, "-") {
		return "-" + groupThousands(s[1:])
	}
	return groupThousands(s)
}

// split divides input at its last comma and keeps only digits on each side.
func split(input string) (intPart, decPart string, hasDecimal bool) {
	i := strings.LastIndex(input, ",")
	if i < 0 {
		return digits(input), "", false
	}
	return digits(input[:i]), digits(input[i+1:]), true
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
