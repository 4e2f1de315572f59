package utils

import (
	"strconv"
	"strings"
)

// ParseValue types an untyped text cell: int64, then float64, then string.
// Blank cells become nil.
func ParseValue(s string) any {
	// Trim whitespace first
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// try int
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
