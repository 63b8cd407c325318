package statement

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize canonicalizes a description for matching: the installment
// marker is removed, the text is lowercased, quotes become spaces and runs
// of whitespace collapse to one space.
func Normalize(s string) string {
	s = installmentMarker.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	s = strings.NewReplacer(`"`, " ", `'`, " ").Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
