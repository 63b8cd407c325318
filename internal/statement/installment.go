package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/spendsync/internal/model"
)

// MaxInstallments bounds the total of an installment marker.
const MaxInstallments = 999

var (
	installmentPattern = regexp.MustCompile(`(?i)\binstallment\s*(\d+)/(\d+)\b`)
	installmentMarker  = regexp.MustCompile(`(?i)\s*(?:-\s*)?\binstallment\s*\d+/\d+\b\s*`)
)

// Installment is a parsed "installment N/M" marker.
type Installment struct {
	Current int
	Total   int
}

// ParseInstallment finds an "installment N/M" marker in title. Markers with
// N < 1, N > M or M > MaxInstallments are not treated as installments.
func ParseInstallment(title string) (Installment, bool) {
	m := installmentPattern.FindStringSubmatch(title)
	if m == nil {
		return Installment{}, false
	}
	current, err := strconv.Atoi(m[1])
	if err != nil {
		return Installment{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Installment{}, false
	}
	if current < 1 || current > total || total > MaxInstallments {
		return Installment{}, false
	}
	return Installment{Current: current, Total: total}, true
}

// StripInstallment removes the installment marker (and a leading " - ")
// from title.
func StripInstallment(title string) string {
	return strings.TrimSpace(installmentMarker.ReplaceAllString(title, " "))
}

// Expand turns one parsed statement row into records. Without a marker it
// returns a single record at base. With "installment N/M" it returns M-N+1
// records for installments N..M, each one month after the previous. The
// amount is the per-installment value and is copied unchanged.
func Expand(template model.Expense, title string, base time.Time) []model.Expense {
	inst, ok := ParseInstallment(title)
	if !ok {
		rec := template
		rec.Description = title
		rec.Year, rec.Month = base.Year(), int(base.Month())
		return []model.Expense{rec}
	}

	desc := StripInstallment(title)
	out := make([]model.Expense, 0, inst.Total-inst.Current+1)
	for p := inst.Current; p <= inst.Total; p++ {
		comp := base.AddDate(0, p-inst.Current, 0)
		rec := template
		rec.Description = desc
		rec.Year, rec.Month = comp.Year(), int(comp.Month())
		rec.InstallmentIndex = p
		rec.InstallmentTotal = inst.Total
		out = append(out, rec)
	}
	return out
}
