package model

import (
	"github.com/shopspring/decimal"
)

// Referenced-to tag and category applied when the importer has nothing better.
const (
	DefaultCategory     = "Imported"
	DefaultReferencedTo = "Personal"
)

// RawRow is one tokenized statement line before any interpretation.
type RawRow struct {
	Line   int // 1-based line number in the statement text
	Date   string
	Title  string
	Amount string
}

// Expense is a candidate expense record produced by the import pipeline.
type Expense struct {
	Description      string
	Category         string
	Amount           decimal.Decimal // always the positive magnitude
	Month            int             // statement month, 1-12
	Year             int             // statement year
	InstallmentIndex int             // 0 = not an installment
	InstallmentTotal int             // 0 = not an installment
	Paid             bool
	ReferencedTo     string
	UserID           string
	CardID           string
}

// IsInstallment reports whether the record is one charge of an installment plan.
func (e Expense) IsInstallment() bool {
	return e.InstallmentIndex > 0 && e.InstallmentTotal > 0
}

// StoredExpense is an Expense persisted by a storage collaborator.
type StoredExpense struct {
	ID string
	Expense
}
