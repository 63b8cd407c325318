package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCompetency(t *testing.T) {
	tests := []struct {
		name       string
		purchase   time.Time
		closingDay int
		want       time.Time
	}{
		{"day before closing stays", day(2025, 7, 2), 3, day(2025, 7, 1)},
		{"closing day rolls over", day(2025, 7, 3), 3, day(2025, 8, 1)},
		{"after closing rolls over", day(2025, 7, 31), 3, day(2025, 8, 1)},
		{"december rolls into next year", day(2025, 12, 15), 10, day(2026, 1, 1)},
		{"closing day 1 always rolls", day(2025, 3, 1), 1, day(2025, 4, 1)},
		{"closing day 31 in a short month", day(2025, 2, 28), 31, day(2025, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Competency(tt.purchase, tt.closingDay))
		})
	}
}
