package cards

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/spendsync/internal/model"
)

const (
	numFields     = 3
	colID         = 0
	colName       = 1
	colClosingDay = 2
)

// ReadCards reads cards.csv.
func ReadCards(r io.Reader) ([]model.Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading cards CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var cards []model.Card
	for i, rec := range records[1:] {
		card, err := UnmarshalCard(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// WriteCards writes cards.csv.
func WriteCards(w io.Writer, cards []model.Card) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"card_id", "name", "closing_day"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range cards {
		if err := cw.Write(MarshalCard(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCard converts a Card to a CSV row.
func MarshalCard(c model.Card) []string {
	row := make([]string, numFields)
	row[colID] = c.ID
	row[colName] = c.Name
	row[colClosingDay] = strconv.Itoa(c.ClosingDay)
	return row
}

// UnmarshalCard converts a CSV row to a Card.
func UnmarshalCard(record []string) (model.Card, error) {
	if len(record) != numFields {
		return model.Card{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	day, err := strconv.Atoi(strings.TrimSpace(record[colClosingDay]))
	if err != nil {
		return model.Card{}, fmt.Errorf("parsing closing_day %q: %w", record[colClosingDay], err)
	}

	c := model.Card{
		ID:         strings.TrimSpace(record[colID]),
		Name:       record[colName],
		ClosingDay: day,
	}
	if err := Validate(c); err != nil {
		return model.Card{}, err
	}
	return c, nil
}

// Validate checks that a card has an id and a closing day in 1..31.
func Validate(c model.Card) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("card_id is empty")
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return fmt.Errorf("closing_day %d not in 1..31", c.ClosingDay)
	}
	return nil
}
