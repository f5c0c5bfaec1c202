package utils

import (
	"regexp"
	"strings"
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// NormalizeName trims a display name and collapses inner whitespace.
// "  Land   Rover " -> "Land Rover"
func NormalizeName(name string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(name), " ")
}

// NameKey is the case-insensitive comparison key for a display name
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// NormalizeColorCode maps a hex color to "#RRGGBB" uppercase form.
// Returns false when the input is not a hex color; empty input is accepted as-is.
func NormalizeColorCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", true
	}
	m := hexColor.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	hex := strings.ToUpper(m[1])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return "#" + hex, true
}
