// Package store persists expense records. It provides a SQLite backed
// implementation for the CLI and an in-memory one for tests and previews.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsync/internal/model"
)

// ErrNotFound is returned when no stored expense has the given id.
var ErrNotFound = errors.New("expense not found")

// Query selects a page of one user's expenses for a competency.
type Query struct {
	UserID          string
	Month           int
	Year            int
	Paid            *bool  // nil matches both
	ExcludeCategory string // case-insensitive; empty excludes nothing
	Offset          int
	Limit           int // 0 means no limit
}

// Page is one page of query results. Total counts all matches.
type Page struct {
	Items []model.StoredExpense
	Total int
}

// Store is the persistence boundary of the import pipeline.
type Store interface {
	FindByPeriod(ctx context.Context, month, year int, userID string) ([]model.StoredExpense, error)
	FindByCategory(ctx context.Context, category, userID string) ([]model.StoredExpense, error)
	FindByMonthYear(ctx context.Context, q Query) (Page, error)
	// SaveAll validates and stores records as one unit. Either every record
	// is stored or none is.
	SaveAll(ctx context.Context, records []model.Expense) ([]model.StoredExpense, error)
	Get(ctx context.Context, id string) (model.StoredExpense, error)
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string, paid bool) error
	Close() error
}

// prepare validates records and assigns ids.
func prepare(records []model.Expense) ([]model.StoredExpense, error) {
	out := make([]model.StoredExpense, 0, len(records))
	for i, r := range records {
		if errs := r.Validate(); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for j, e := range errs {
				msgs[j] = e.Error()
			}
			return nil, fmt.Errorf("record %d (%s): %s", i+1, r.Description, strings.Join(msgs, "; "))
		}
		out = append(out, model.StoredExpense{ID: uuid.NewString(), Expense: r})
	}
	return out, nil
}

// MonthlySummary totals one competency.
type MonthlySummary struct {
	Year  int
	Month int
	Total decimal.Decimal
	Paid  decimal.Decimal
	Open  decimal.Decimal
	Count int
}

// Summarize totals items, which are expected to share one competency.
func Summarize(year, month int, items []model.StoredExpense) MonthlySummary {
	s := MonthlySummary{Year: year, Month: month, Total: decimal.Zero, Paid: decimal.Zero, Open: decimal.Zero}
	for _, it := range items {
		s.Total = s.Total.Add(it.Amount)
		if it.Paid {
			s.Paid = s.Paid.Add(it.Amount)
		} else {
			s.Open = s.Open.Add(it.Amount)
		}
		s.Count++
	}
	return s
}

// CategoryTotal is the sum of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// ByCategory groups items by category, sorted by total descending.
func ByCategory(items []model.StoredExpense) []CategoryTotal {
	idx := make(map[string]int)
	var out []CategoryTotal
	for _, it := range items {
		key := strings.ToLower(it.Category)
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, CategoryTotal{Category: it.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(it.Amount)
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}
