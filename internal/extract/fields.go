package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var sizeSuffixRE = regexp.MustCompile(`(?i)-\d+x\d+(\.(?:jpe?g|png))$`)

// StripSizeSuffix removes a trailing -<width>x<height> thumbnail suffix
// that sits right before the image extension.
func StripSizeSuffix(rawURL string) string {
	return sizeSuffixRE.ReplaceAllString(rawURL, "$1")
}

// ParseReleaseYear reads the year from the last token of a release date.
// Text with two or fewer tokens never yields a year.
func ParseReleaseYear(raw string) *int {
	parts := strings.Fields(raw)
	if len(parts) <= 2 {
		return nil
	}
	year, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return nil
	}
	return &year
}

// ParseRating parses a decimal rating; non-numeric text is unknown.
func ParseRating(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func textOf(sel *goquery.Selection) *string {
	if !Present(sel) {
		return nil
	}
	s := strings.TrimSpace(sel.Text())
	return &s
}

func attrOf(sel *goquery.Selection, name string) *string {
	if !Present(sel) {
		return nil
	}
	v, ok := sel.Attr(name)
	if !ok {
		return nil
	}
	return &v
}

func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
