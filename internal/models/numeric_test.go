package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity_ThousandsSuffix(t *testing.T) {
	assert.Equal(t, 52000.0, ParseQuantity("52K"))
	assert.Equal(t, 52000.0, ParseQuantity("52k"))
	assert.Equal(t, 1500.0, ParseQuantity("1.5k"))
}

func TestParseQuantity_MillionsSuffix(t *testing.T) {
	assert.Equal(t, 2100000.0, ParseQuantity("2.1M"))
	assert.Equal(t, 1000000.0, ParseQuantity("1m"))
}

func TestParseQuantity_ThousandsSeparators(t *testing.T) {
	assert.Equal(t, 1234.0, ParseQuantity("1,234"))
	assert.Equal(t, 1234567.0, ParseQuantity("1,234,567"))
}

func TestParseQuantity_PlainNumbers(t *testing.T) {
	assert.Equal(t, 50000.0, ParseQuantity("50000"))
	assert.Equal(t, 4.2, ParseQuantity("4.2"))
}

func TestParseQuantity_EmptyAndGarbage(t *testing.T) {
	assert.Equal(t, 0.0, ParseQuantity(""))
	assert.Equal(t, 0.0, ParseQuantity("   "))
	assert.Equal(t, 0.0, ParseQuantity("abc"))
}

func TestParseQuantity_Whitespace(t *testing.T) {
	assert.Equal(t, 52000.0, ParseQuantity("  52K  "))
}

// Suffix detection is a substring check, so the parse stops at the first
// non-numeric character and the trailing text is ignored.
func TestParseQuantity_SuffixSubstringQuirk(t *testing.T) {
	assert.Equal(t, 1000.0, ParseQuantity("1k2"))
	assert.Equal(t, 5000000.0, ParseQuantity("5m followers"))
}

// Negative inputs are not rejected: they pass through the parse as-is.
// The merge boundary floors them before anything is committed.
func TestParseQuantity_NegativePassesThrough(t *testing.T) {
	assert.Equal(t, -5.0, ParseQuantity("-5"))
	assert.Equal(t, -2000.0, ParseQuantity("-2k"))
}
