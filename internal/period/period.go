// Package period formats and parses statement periods like "2025-08".
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is returned when a period string cannot be parsed.
var ErrInvalid = errors.New("invalid period")

// Format returns a period like "2025-08".
func Format(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Parse parses "2025-08" into year and month.
func Parse(s string) (year, month int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year in %q: %v", ErrInvalid, s, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month in %q: %v", ErrInvalid, s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %d out of range in %q", ErrInvalid, month, s)
	}

	return year, month, nil
}

// Add advances year/month by n calendar months (n may be negative).
func Add(year, month, n int) (int, int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return t.Year(), int(t.Month())
}

// Less orders periods chronologically.
func Less(y1, m1, y2, m2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}
