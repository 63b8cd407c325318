package cards

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsync/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cards := []model.Card{
		{ID: "visa", Name: "Visa Gold", ClosingDay: 3},
		{ID: "mc", Name: "Mastercard, Black", ClosingDay: 28},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCards(&buf, cards))

	got, err := ReadCards(&buf)
	require.NoError(t, err)
	assert.Equal(t, cards, got)
}

func TestReadCards_Empty(t *testing.T) {
	got, err := ReadCards(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadCards_HeaderOnly(t *testing.T) {
	got, err := ReadCards(strings.NewReader("card_id,name,closing_day\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalCard_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"field count", []string{"visa", "Visa"}, "expected 3 fields"},
		{"empty id", []string{" ", "Visa", "3"}, "card_id is empty"},
		{"bad day", []string{"visa", "Visa", "x"}, "parsing closing_day"},
		{"day out of range", []string{"visa", "Visa", "32"}, "not in 1..31"},
		{"zero day", []string{"visa", "Visa", "0"}, "not in 1..31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalCard(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadCards_RowNumberInError(t *testing.T) {
	_, err := ReadCards(strings.NewReader("card_id,name,closing_day\nvisa,Visa,3\nmc,MC,99\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}
