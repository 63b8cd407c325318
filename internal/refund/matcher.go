package refund

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/statement"
)

// Matcher removes refunded purchases from already parsed records.
type Matcher struct {
	classifier *statement.Classifier
	tolerance  decimal.Decimal
	logger     logrus.FieldLogger
}

// NewMatcher creates a Matcher.
func NewMatcher(c *statement.Classifier, tolerance decimal.Decimal, logger logrus.FieldLogger) *Matcher {
	return &Matcher{classifier: c, tolerance: tolerance, logger: logger}
}

// Apply builds an index from every non-zero refund row in text, nets the
// records against it and then strips residual refund rows.
func (m *Matcher) Apply(text string, records []model.Expense) []model.Expense {
	rows, _ := statement.Tokenize(text)
	ix := BuildIndex(rows, m.classifier, AnyNonZero, m.tolerance)
	pending := ix.Len()

	netted := Net(ix, records)
	out := m.StripResidual(netted)

	m.logger.WithFields(logrus.Fields{
		"refunds":  pending,
		"netted":   len(records) - len(netted),
		"residual": len(netted) - len(out),
	}).Debug("applied statement refunds")
	return out
}

// Net drops every record whose normalized description and amount match a
// pending refund, consuming that refund. Records are visited in order and a
// new slice is returned.
func Net(ix *Index, records []model.Expense) []model.Expense {
	out := make([]model.Expense, 0, len(records))
	for _, rec := range records {
		if ix.Consume(statement.Normalize(rec.Description), rec.Amount) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// StripResidual drops records whose own description is a refund or
// cancellation, such as credits an issuer lists with a positive amount.
func (m *Matcher) StripResidual(records []model.Expense) []model.Expense {
	out := make([]model.Expense, 0, len(records))
	for _, rec := range records {
		if m.classifier.IsRefund(rec.Description) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
