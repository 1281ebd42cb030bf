package core

import "github.com/chewxy/math32"

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	// Count digits
	temp := n
	digits := 0
	for temp > 0 {
		digits++
		temp /= 10
	}

	if negative {
		digits++
	}

	// Build string from right to left
	buf := make([]byte, digits)
	pos := digits - 1

	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}

	if negative {
		buf[0] = '-'
	}

	return string(buf)
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	temp := n
	digits := 0
	for temp > 0 {
		digits++
		temp /= 10
	}

	buf := make([]byte, digits)
	pos := digits - 1

	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}

	return string(buf)
}

// ftoa converts a float to a fixed-precision decimal string.
// NaN renders as "nan" so a stale channel is still visible on the wire.
func ftoa(f float32, prec int) string {
	if math32.IsNaN(f) {
		return "nan"
	}
	if math32.IsInf(f, 0) {
		if f < 0 {
			return "-inf"
		}
		return "inf"
	}

	negative := f < 0
	if negative {
		f = -f
	}

	scale := int64(1)
	for i := 0; i < prec; i++ {
		scale *= 10
	}

	scaled := int64(float64(f)*float64(scale) + 0.5)
	intPart := scaled / scale
	frac := scaled % scale

	s := itoa(int(intPart))
	if prec > 0 {
		fs := itoa(int(frac))
		for len(fs) < prec {
			fs = "0" + fs
		}
		s += "." + fs
	}

	if negative {
		s = "-" + s
	}
	return s
}

// parseInt parses a whole string as a decimal integer.
func parseInt(s string) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}

	pos := 0
	negative := false
	if s[pos] == '-' {
		negative = true
		pos++
	} else if s[pos] == '+' {
		pos++
	}

	start := pos
	value := 0
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		value = value*10 + int(s[pos]-'0')
		pos++
	}

	if pos == start || pos != len(s) {
		return 0, false
	}

	if negative {
		value = -value
	}
	return value, true
}

// parseFloat parses a whole string as a decimal number. Only plain
// fixed-point notation is accepted; that is all the protocol carries.
func parseFloat(s string) (float32, bool) {
	if len(s) == 0 {
		return 0, false
	}

	pos := 0
	negative := false
	if s[pos] == '-' {
		negative = true
		pos++
	} else if s[pos] == '+' {
		pos++
	}

	start := pos
	intPart := int64(0)
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		intPart = intPart*10 + int64(s[pos]-'0')
		pos++
	}
	intDigits := pos - start

	fracPart := int64(0)
	fracDigits := 0
	if pos < len(s) && s[pos] == '.' {
		pos++
		fracStart := pos
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			fracPart = fracPart*10 + int64(s[pos]-'0')
			pos++
		}
		fracDigits = pos - fracStart
	}

	if pos != len(s) || (intDigits == 0 && fracDigits == 0) {
		return 0, false
	}

	value := float64(intPart)
	if fracDigits > 0 {
		divisor := 1.0
		for i := 0; i < fracDigits; i++ {
			divisor *= 10.0
		}
		value += float64(fracPart) / divisor
	}

	if negative {
		value = -value
	}
	return float32(value), true
}
