// Package pipeline runs statement imports and previews end to end: parse,
// net refunds, optionally collapse and anchor, deduplicate, then persist or
// summarize.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/spendsync/internal/dedup"
	"github.com/cleared-dev/spendsync/internal/importer"
	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/preview"
	"github.com/cleared-dev/spendsync/internal/refund"
	"github.com/cleared-dev/spendsync/internal/store"
)

// CardLookup resolves the closing day of a card.
type CardLookup interface {
	ClosingDay(cardID string) (int, bool)
}

// Options select the passes and context of one run.
type Options struct {
	UserID        string
	CardID        string
	ClosingDay    int  // used when the card is unknown; 0 means the configured default
	StatementMode bool // collapse installment plans to the current installment
	Anchor        bool // force every record into Month/Year
	Month         int
	Year          int
}

// ImportResult counts the outcome of an import. Read is the number of
// candidates that reached deduplication.
type ImportResult struct {
	Read     int
	Imported int
	Ignored  int
}

// Service wires the parser, refund matcher, deduplication and storage.
type Service struct {
	parser     *importer.StatementParser
	matcher    *refund.Matcher
	store      store.Store
	cards      CardLookup
	aggregator *preview.Aggregator
	logger     logrus.FieldLogger
}

// NewService creates a Service. cards may be nil.
func NewService(parser *importer.StatementParser, st store.Store, cards CardLookup, agg *preview.Aggregator, logger logrus.FieldLogger) *Service {
	return &Service{
		parser:     parser,
		matcher:    refund.NewMatcher(parser.Classifier(), parser.Config().Tolerance, logger),
		store:      st,
		cards:      cards,
		aggregator: agg,
		logger:     logger,
	}
}

// closingDay resolves the closing day: the card's, then the explicit
// override, then the configured default. It also reports whether the card
// was found.
func (s *Service) closingDay(opts Options) (int, bool) {
	if opts.CardID != "" && s.cards != nil {
		if day, ok := s.cards.ClosingDay(opts.CardID); ok {
			return day, true
		}
	}
	if opts.ClosingDay > 0 {
		return opts.ClosingDay, false
	}
	return s.parser.Config().ClosingDay, false
}

func (s *Service) parse(text string, opts Options) []model.Expense {
	day, cardFound := s.closingDay(opts)
	records, stats := s.parser.ParseWithClosingDay(text, day)

	for i := range records {
		records[i].UserID = opts.UserID
		if cardFound {
			records[i].CardID = opts.CardID
		}
	}

	s.logger.WithFields(logrus.Fields{
		"closing_day": day,
		"rows":        stats.Rows,
		"produced":    stats.Produced,
		"skipped":     stats.SkippedTotal(),
	}).Debug("statement parsed")
	return records
}

func anchored(records []model.Expense, opts Options) []model.Expense {
	if opts.Anchor && opts.Month > 0 && opts.Year > 0 {
		return Anchor(records, opts.Month, opts.Year)
	}
	return records
}

// Import parses text and stores every record that is not a duplicate.
func (s *Service) Import(ctx context.Context, text string, opts Options) (ImportResult, error) {
	records := s.parse(text, opts)
	records = s.matcher.Apply(text, records)
	if opts.StatementMode {
		records = CollapseToCurrentInstallment(records)
	}
	records = anchored(records, opts)

	fresh, err := dedup.Against(ctx, s.store, records, opts.UserID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("deduplicating: %w", err)
	}
	saved, err := s.store.SaveAll(ctx, fresh)
	if err != nil {
		return ImportResult{}, fmt.Errorf("saving expenses: %w", err)
	}

	res := ImportResult{Read: len(records), Imported: len(saved)}
	res.Ignored = res.Read - res.Imported
	s.logger.WithFields(logrus.Fields{
		"user":     opts.UserID,
		"card":     opts.CardID,
		"read":     res.Read,
		"imported": res.Imported,
		"ignored":  res.Ignored,
	}).Info("statement imported")
	return res, nil
}

// Preview runs the import passes without storing anything and summarizes
// what an import would store.
func (s *Service) Preview(ctx context.Context, text string, opts Options) (preview.Summary, error) {
	records := s.parse(text, opts)
	if opts.StatementMode {
		records = CollapseToCurrentInstallment(records)
	}
	records = s.matcher.Apply(text, records)
	records = anchored(records, opts)

	fresh, err := dedup.Against(ctx, s.store, records, opts.UserID)
	if err != nil {
		return preview.Summary{}, fmt.Errorf("deduplicating: %w", err)
	}
	return s.aggregator.Aggregate(len(records), fresh), nil
}
