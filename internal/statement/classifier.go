package statement

import "strings"

// Classifier flags statement titles by case-insensitive phrase containment.
type Classifier struct {
	exclude []string
	refund  []string
}

// NewClassifier builds a Classifier from exclusion and refund phrase lists.
func NewClassifier(exclude, refund []string) *Classifier {
	return &Classifier{exclude: lowerAll(exclude), refund: lowerAll(refund)}
}

// IsExcluded reports whether the title is non-expense boilerplate
// (payments, debt closures) that must never become a record.
func (c *Classifier) IsExcluded(title string) bool {
	return containsAny(strings.ToLower(title), c.exclude)
}

// IsRefund reports whether the title describes a refund or cancellation.
func (c *Classifier) IsRefund(title string) bool {
	return containsAny(strings.ToLower(title), c.refund)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
