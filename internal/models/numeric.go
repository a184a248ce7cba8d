package models

import (
	"strconv"
	"strings"
)

// ParseQuantity converts a human-written quantity ("52K", "2.1M", "1,234")
// into a number. It never fails: empty or unparsable input yields 0.
//
// Suffix detection is a substring check on the lowered string, so "1k2"
// parses as 1 x 1000: the leading float stops at the suffix and the rest
// is ignored. Kept deliberately to match the observed form behavior.
// Negative inputs are not rejected and pass through the parse.
func ParseQuantity(input string) float64 {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")

	if strings.Contains(s, "k") {
		return leadingFloat(s) * 1_000
	}
	if strings.Contains(s, "m") {
		return leadingFloat(s) * 1_000_000
	}
	return leadingFloat(s)
}

// leadingFloat parses the longest numeric prefix of s, 0 if none.
func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for i, c := range s {
		if c >= '0' && c <= '9' {
			end = i + 1
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			continue
		}
		if (c == '-' || c == '+') && i == 0 {
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
