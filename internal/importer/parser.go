package importer

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/refund"
	"github.com/cleared-dev/spendsync/internal/statement"
)

// Config holds the values the parser stamps on or uses to filter records.
type Config struct {
	ClosingDay     int
	Category       string
	ReferencedTo   string
	Tolerance      decimal.Decimal
	ExcludePhrases []string
	RefundPhrases  []string
}

// DefaultConfig returns the stock import settings.
func DefaultConfig() Config {
	return Config{
		ClosingDay:   3,
		Category:     model.DefaultCategory,
		ReferencedTo: model.DefaultReferencedTo,
		Tolerance:    decimal.RequireFromString("0.01"),
		ExcludePhrases: []string{
			"payment received",
			"debt closure",
			"interest on closed debt",
		},
		RefundPhrases: []string{
			"refund",
			"cancellation",
			"cancelled",
			"canceled",
			"purchase cancelled",
			"reversal",
		},
	}
}

// SkipReason says why a statement row produced no record.
type SkipReason string

const (
	SkipMalformed   SkipReason = "malformed"
	SkipExcluded    SkipReason = "excluded"
	SkipBadAmount   SkipReason = "bad_amount"
	SkipNonPositive SkipReason = "non_positive"
	SkipBadDate     SkipReason = "bad_date"
	SkipRefunded    SkipReason = "refunded"
)

// Stats counts what happened to the rows of one statement.
type Stats struct {
	Rows     int // data rows read, including malformed ones
	Produced int // records emitted after installment expansion
	Skipped  map[SkipReason]int
}

// SkippedTotal returns the number of rows that produced no record.
func (s Stats) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

func (s *Stats) skip(r SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[r]++
}

// StatementParser turns issuer statement text (date,title,amount) into
// candidate expense records.
type StatementParser struct {
	cfg        Config
	classifier *statement.Classifier
	logger     logrus.FieldLogger
}

// NewStatementParser creates a StatementParser.
func NewStatementParser(cfg Config, logger logrus.FieldLogger) *StatementParser {
	return &StatementParser{
		cfg:        cfg,
		classifier: statement.NewClassifier(cfg.ExcludePhrases, cfg.RefundPhrases),
		logger:     logger,
	}
}

// Classifier returns the title classifier built from the parser config.
func (p *StatementParser) Classifier() *statement.Classifier { return p.classifier }

// Config returns the parser configuration.
func (p *StatementParser) Config() Config { return p.cfg }

// Parse parses text using the configured default closing day.
func (p *StatementParser) Parse(text string) ([]model.Expense, Stats) {
	return p.ParseWithClosingDay(text, p.cfg.ClosingDay)
}

// ParseWithClosingDay parses text, assigning competencies with closingDay.
// Malformed rows, excluded titles, non-positive amounts and purchases
// cancelled by a negative refund row in the same text are skipped.
func (p *StatementParser) ParseWithClosingDay(text string, closingDay int) ([]model.Expense, Stats) {
	rows, malformed := statement.Tokenize(text)
	stats := Stats{Rows: len(rows) + malformed}
	for i := 0; i < malformed; i++ {
		stats.skip(SkipMalformed)
	}

	refunds := refund.BuildIndex(rows, p.classifier, refund.NegativeOnly, p.cfg.Tolerance)

	var out []model.Expense
	for _, row := range rows {
		log := p.logger.WithField("line", row.Line)

		if p.classifier.IsExcluded(row.Title) {
			log.Debug("skipping non-expense row")
			stats.skip(SkipExcluded)
			continue
		}

		amount, err := statement.ParseAmount(row.Amount)
		if err != nil {
			log.WithError(err).Debug("skipping row")
			stats.skip(SkipBadAmount)
			continue
		}
		if !amount.IsPositive() {
			stats.skip(SkipNonPositive)
			continue
		}

		purchase, err := statement.ParseDate(row.Date)
		if err != nil {
			log.WithError(err).Debug("skipping row")
			stats.skip(SkipBadDate)
			continue
		}

		if refunds.Consume(statement.Normalize(row.Title), amount) {
			log.Debug("purchase cancelled by refund row")
			stats.skip(SkipRefunded)
			continue
		}

		tmpl := model.Expense{
			Category:     p.cfg.Category,
			Amount:       amount.Round(2),
			ReferencedTo: p.cfg.ReferencedTo,
		}
		base := statement.Competency(purchase, closingDay)
		recs := statement.Expand(tmpl, row.Title, base)
		stats.Produced += len(recs)
		out = append(out, recs...)
	}

	p.logger.WithFields(logrus.Fields{
		"rows":     stats.Rows,
		"produced": stats.Produced,
		"skipped":  stats.SkippedTotal(),
	}).Debug("parsed statement")
	return out, stats
}
