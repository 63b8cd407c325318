package statement

import "time"

// Competency returns the first day of the statement month a purchase belongs
// to. Purchases before the closing day fall in the same calendar month; on or
// after it they roll into the next one.
func Competency(purchase time.Time, closingDay int) time.Time {
	first := time.Date(purchase.Year(), purchase.Month(), 1, 0, 0, 0, 0, time.UTC)
	if purchase.Day() < closingDay {
		return first
	}
	return first.AddDate(0, 1, 0)
}
