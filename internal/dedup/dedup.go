// Package dedup removes candidate records that are already stored or
// repeated within the same batch.
package dedup

import (
	"context"
	"fmt"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/period"
	"github.com/cleared-dev/spendsync/internal/statement"
)

// Signature identifies a record for duplicate detection. Two records with
// equal signatures are the same expense.
type Signature struct {
	UserID           string
	Month            int
	Year             int
	Description      string
	Amount           string // fixed to two decimal places
	InstallmentIndex int
	InstallmentTotal int
}

// SignatureOf computes the signature of e. Absent installment fields count
// as zero.
func SignatureOf(e model.Expense) Signature {
	return Signature{
		UserID:           e.UserID,
		Month:            e.Month,
		Year:             e.Year,
		Description:      statement.Normalize(e.Description),
		Amount:           e.Amount.StringFixed(2),
		InstallmentIndex: e.InstallmentIndex,
		InstallmentTotal: e.InstallmentTotal,
	}
}

// PeriodFinder loads the stored records of one user for one competency.
type PeriodFinder interface {
	FindByPeriod(ctx context.Context, month, year int, userID string) ([]model.StoredExpense, error)
}

type competency struct{ month, year int }

// Against returns the records whose signature is neither stored for userID
// nor seen earlier in records. Input order is preserved.
func Against(ctx context.Context, finder PeriodFinder, records []model.Expense, userID string) ([]model.Expense, error) {
	if len(records) == 0 {
		return nil, nil
	}

	existing := make(map[Signature]struct{})
	loaded := make(map[competency]bool)
	for _, r := range records {
		p := competency{r.Month, r.Year}
		if loaded[p] {
			continue
		}
		loaded[p] = true

		stored, err := finder.FindByPeriod(ctx, p.month, p.year, userID)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", period.Format(p.year, p.month), err)
		}
		for _, s := range stored {
			sig := SignatureOf(s.Expense)
			sig.UserID = userID
			existing[sig] = struct{}{}
		}
	}

	seen := make(map[Signature]struct{}, len(records))
	var out []model.Expense
	for _, r := range records {
		sig := SignatureOf(r)
		sig.UserID = userID
		if _, ok := existing[sig]; ok {
			continue
		}
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}
