// Package preview summarizes a batch of candidate records without
// persisting them.
package preview

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/period"
)

// Config controls aggregation output.
type Config struct {
	TopN            int
	DefaultCategory string
}

// DefaultConfig returns the stock preview settings.
func DefaultConfig() Config {
	return Config{TopN: 10, DefaultCategory: "No Category"}
}

// MonthSummary is the total of one competency.
type MonthSummary struct {
	Year  int
	Month int
	Total decimal.Decimal
	Count int
}

// Period returns the competency formatted as YYYY-MM.
func (m MonthSummary) Period() string { return period.Format(m.Year, m.Month) }

// CategorySummary is the total of one category.
type CategorySummary struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Summary is the result of previewing a statement.
type Summary struct {
	Read         int
	Imported     int
	Ignored      int
	TotalAmount  decimal.Decimal
	LumpSum      int
	Installments int
	Months       []MonthSummary
	Categories   []CategorySummary
	Top          []model.Expense
}

// Aggregator builds preview summaries.
type Aggregator struct {
	cfg Config
}

// NewAggregator creates an Aggregator. Zero config values fall back to the
// defaults.
func NewAggregator(cfg Config) *Aggregator {
	def := DefaultConfig()
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = def.DefaultCategory
	}
	return &Aggregator{cfg: cfg}
}

// Aggregate summarizes records, the survivors of deduplication out of read
// candidates.
func (a *Aggregator) Aggregate(read int, records []model.Expense) Summary {
	s := Summary{
		Read:        read,
		Imported:    len(records),
		Ignored:     read - len(records),
		TotalAmount: decimal.Zero,
	}
	if s.Ignored < 0 {
		s.Ignored = 0
	}

	type monthKey struct{ year, month int }
	months := make(map[monthKey]*MonthSummary)
	cats := make(map[string]*CategorySummary)

	for _, r := range records {
		s.TotalAmount = s.TotalAmount.Add(r.Amount)
		if r.IsInstallment() {
			s.Installments++
		} else {
			s.LumpSum++
		}

		mk := monthKey{r.Year, r.Month}
		m, ok := months[mk]
		if !ok {
			m = &MonthSummary{Year: r.Year, Month: r.Month, Total: decimal.Zero}
			months[mk] = m
		}
		m.Total = m.Total.Add(r.Amount)
		m.Count++

		name := strings.TrimSpace(r.Category)
		if name == "" {
			name = a.cfg.DefaultCategory
		}
		ck := strings.ToLower(name)
		c, ok := cats[ck]
		if !ok {
			c = &CategorySummary{Category: name, Total: decimal.Zero}
			cats[ck] = c
		}
		c.Total = c.Total.Add(r.Amount)
		c.Count++
	}

	for _, m := range months {
		s.Months = append(s.Months, *m)
	}
	sort.Slice(s.Months, func(i, j int) bool {
		return period.Less(s.Months[i].Year, s.Months[i].Month, s.Months[j].Year, s.Months[j].Month)
	})

	for _, c := range cats {
		s.Categories = append(s.Categories, *c)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if cmp := s.Categories[i].Total.Cmp(s.Categories[j].Total); cmp != 0 {
			return cmp > 0
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	top := make([]model.Expense, len(records))
	copy(top, records)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount.GreaterThan(top[j].Amount)
	})
	if len(top) > a.cfg.TopN {
		top = top[:a.cfg.TopN]
	}
	s.Top = top
	return s
}
