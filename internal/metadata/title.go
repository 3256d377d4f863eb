package metadata

import (
	"regexp"
	"strings"
)

var trailingYearRE = regexp.MustCompile(`\s*\(\d{4}\)\s*$|\s+\d{4}\s*$`)

// CleanTitle strips one trailing four-digit year, bare or parenthesized,
// from the end of name. A name that is only a year is returned trimmed.
func CleanTitle(name string) string {
	trimmed := strings.TrimSpace(name)
	cleaned := strings.TrimSpace(trailingYearRE.ReplaceAllString(trimmed, ""))
	if cleaned == "" {
		return trimmed
	}
	return cleaned
}
