// Package refund nets refund and cancellation rows of a statement against the
// purchases they reverse.
package refund

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/statement"
)

// targetPatterns are tried in order; the first match names the refunded purchase.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)refund\s+of\s+"([^"]+)"`),
	regexp.MustCompile(`(?i)refund\s+of\s+(.+)`),
	regexp.MustCompile(`(?i)cancellation\s+of\s+"([^"]+)"`),
	regexp.MustCompile(`(?i)cancellation\s+of\s+(.+)`),
	regexp.MustCompile(`(?i)purchase\s+cancelled\s*[:\-]?\s*(.+)`),
}

// ExtractTarget returns the description of the purchase a refund title
// refers to, or false when no pattern matches.
func ExtractTarget(title string) (string, bool) {
	for _, re := range targetPatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// Sign selects which refund rows feed an Index.
type Sign int

const (
	// AnyNonZero accepts refund rows of either sign.
	AnyNonZero Sign = iota
	// NegativeOnly accepts only refund rows with a negative amount.
	NegativeOnly
)

// Index holds pending refund amounts per normalized target description.
// Each amount can be consumed once.
type Index struct {
	pending   map[string][]decimal.Decimal
	tolerance decimal.Decimal
}

// NewIndex creates an empty Index that matches amounts within tolerance.
func NewIndex(tolerance decimal.Decimal) *Index {
	return &Index{pending: make(map[string][]decimal.Decimal), tolerance: tolerance.Abs()}
}

// BuildIndex scans rows for refund titles and records their absolute
// amounts under the normalized target description. Rows whose amount does
// not parse or is zero are ignored.
func BuildIndex(rows []model.RawRow, c *statement.Classifier, sign Sign, tolerance decimal.Decimal) *Index {
	ix := NewIndex(tolerance)
	for _, row := range rows {
		if !c.IsRefund(row.Title) {
			continue
		}
		amount, err := statement.ParseAmount(row.Amount)
		if err != nil || amount.IsZero() {
			continue
		}
		if sign == NegativeOnly && !amount.IsNegative() {
			continue
		}

		target := row.Title
		if t, ok := ExtractTarget(row.Title); ok {
			target = t
		}
		ix.Add(statement.Normalize(target), amount)
	}
	return ix
}

// Add records a pending refund amount under key.
func (ix *Index) Add(key string, amount decimal.Decimal) {
	ix.pending[key] = append(ix.pending[key], amount.Abs())
}

// Consume removes the first pending amount under key that equals amount
// within tolerance. It reports whether one was found.
func (ix *Index) Consume(key string, amount decimal.Decimal) bool {
	list := ix.pending[key]
	for i, v := range list {
		if v.Sub(amount.Abs()).Abs().LessThanOrEqual(ix.tolerance) {
			list = append(list[:i:i], list[i+1:]...)
			if len(list) == 0 {
				delete(ix.pending, key)
			} else {
				ix.pending[key] = list
			}
			return true
		}
	}
	return false
}

// Len returns the number of pending refund amounts.
func (ix *Index) Len() int {
	n := 0
	for _, list := range ix.pending {
		n += len(list)
	}
	return n
}
