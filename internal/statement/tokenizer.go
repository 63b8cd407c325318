// Package statement holds the text-level rules for card issuer statement
// exports: tokenizing lines, classifying titles, computing the billing
// competency and expanding installment markers.
package statement

import (
	"strings"

	"github.com/cleared-dev/spendsync/internal/model"
)

const numFields = 3

// Tokenize splits statement text into data rows. The first line is a header
// and is always discarded; blank lines are ignored. Lines with fewer than
// three fields are dropped and counted in malformed.
func Tokenize(text string) (rows []model.RawRow, malformed int) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitFields(line, numFields)
		if len(fields) < numFields {
			malformed++
			continue
		}
		rows = append(rows, model.RawRow{
			Line:   i + 1,
			Date:   Unquote(fields[0]),
			Title:  Unquote(fields[1]),
			Amount: Unquote(fields[2]),
		})
	}
	return rows, malformed
}

// splitFields splits on commas outside double quotes into at most n fields.
// A quote only encloses a field when it is the field's first non-space
// character; inside such a field "" is a literal quote and a single quote
// closes it. Quotes elsewhere are literal. The last field keeps the
// remainder of the line verbatim.
func splitFields(line string, n int) []string {
	var fields []string
	inQuotes := false
	fieldStart := true
	start := 0
	for i := 0; i < len(line) && len(fields) < n-1; i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					i++
				} else {
					inQuotes = false
				}
			}
		case c == ',':
			fields = append(fields, line[start:i])
			start = i + 1
			fieldStart = true
		case fieldStart && c == '"':
			inQuotes = true
			fieldStart = false
		case fieldStart && (c == ' ' || c == '\t'):
		default:
			fieldStart = false
		}
	}
	return append(fields, line[start:])
}

// Unquote trims a CSV field, strips one pair of surrounding double quotes and
// turns doubled quotes into a single literal quote.
func Unquote(field string) string {
	s := strings.TrimSpace(field)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}
