package render

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// TextShadow is the halo drawn behind labels so they stay readable on any
// fill.
const TextShadow = "0 0 0.2em #333, 0 0 0.2em #333, 0 0 0.2em #333"

// Escape returns s with XML special characters escaped.
func Escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Num formats a coordinate with at most two decimals and no trailing zeros.
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	s = trimDot(s)
	if s == "-0" {
		return "0"
	}
	return s
}

func trimDot(s string) string {
	if n := len(s); n > 0 && s[n-1] == '.' {
		return s[:n-1]
	}
	return s
}
