package pipeline

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/spendsync/internal/model"
)

// CollapseToCurrentInstallment keeps, for each installment plan, only the
// record with the lowest installment index. A plan is identified by
// description, amount and installment total, compared case-insensitively.
// Records that are not installments pass through. Input order is preserved.
func CollapseToCurrentInstallment(records []model.Expense) []model.Expense {
	keep := make(map[string]int) // plan key -> position in records
	for i, r := range records {
		if !r.IsInstallment() {
			continue
		}
		key := planKey(r)
		if j, ok := keep[key]; !ok || r.InstallmentIndex < records[j].InstallmentIndex {
			keep[key] = i
		}
	}

	out := make([]model.Expense, 0, len(records))
	for i, r := range records {
		if r.IsInstallment() && keep[planKey(r)] != i {
			continue
		}
		out = append(out, r)
	}
	return out
}

func planKey(r model.Expense) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%d", r.Description, r.Amount.String(), r.InstallmentTotal))
}

// Anchor returns a copy of records with every month and year set to the
// given competency.
func Anchor(records []model.Expense, month, year int) []model.Expense {
	out := make([]model.Expense, len(records))
	for i, r := range records {
		r.Month, r.Year = month, year
		out[i] = r
	}
	return out
}
