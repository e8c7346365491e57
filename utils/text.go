package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	emailSeparators = regexp.MustCompile(`[\n,; ]+`)
)

// NormalizeUnitText collapses internal whitespace and trims. Building names
// and unit numbers are free text, so this is the only canonical form they
// ever get.
func NormalizeUnitText(value string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
}

// UnitKey builds the case-insensitive uniqueness key for a
// (building, unit number) pair.
func UnitKey(buildingName, unitNumber string) string {
	return strings.ToLower(NormalizeUnitText(buildingName)) + "::" + strings.ToLower(NormalizeUnitText(unitNumber))
}

// EqualFoldNormalized compares two free-text values after whitespace
// normalization, case-insensitive.
func EqualFoldNormalized(a, b string) bool {
	return strings.EqualFold(NormalizeUnitText(a), NormalizeUnitText(b))
}

// ParseEmailList splits a pasted list of addresses on commas, semicolons,
// newlines or spaces, dropping blanks and duplicates while keeping order.
func ParseEmailList(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, entry := range emailSeparators.Split(raw, -1) {
		email := strings.TrimSpace(entry)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, email)
	}
	return out
}
