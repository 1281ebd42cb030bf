package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "7", itoa(7))
	assert.Equal(t, "255", itoa(255))
	assert.Equal(t, "-42", itoa(-42))
}

func TestUtoa(t *testing.T) {
	assert.Equal(t, "0", utoa(0))
	assert.Equal(t, "4294967295", utoa(4294967295))
}

func TestFtoa(t *testing.T) {
	assert.Equal(t, "2.000", ftoa(2.0, 3))
	assert.Equal(t, "0.150", ftoa(0.15, 3))
	assert.Equal(t, "-1.5", ftoa(-1.5, 1))
	assert.Equal(t, "27.5", ftoa(27.46, 1))
	assert.Equal(t, "3", ftoa(3.2, 0))
	assert.Equal(t, "nan", ftoa(math32.NaN(), 2))
	assert.Equal(t, "inf", ftoa(math32.Inf(1), 2))
}

func TestParseInt(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"128", 128, true},
		{"-10", -10, true},
		{"+5", 5, true},
		{"", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
		{"-", 0, false},
	} {
		got, ok := parseInt(tc.in)
		assert.Equal(t, tc.ok, ok, "parseInt(%q)", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "parseInt(%q)", tc.in)
		}
	}
}

func TestParseFloat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float32
		ok   bool
	}{
		{"2", 2, true},
		{"0.5", 0.5, true},
		{".25", 0.25, true},
		{"-3.75", -3.75, true},
		{"10.", 10, true},
		{"", 0, false},
		{".", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
	} {
		got, ok := parseFloat(tc.in)
		assert.Equal(t, tc.ok, ok, "parseFloat(%q)", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-6, "parseFloat(%q)", tc.in)
		}
	}
}
