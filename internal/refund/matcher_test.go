package refund

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsync/internal/model"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func expense(desc, amount string, month, idx, total int) model.Expense {
	return model.Expense{
		Description:      desc,
		Amount:           dec(amount),
		Month:            month,
		Year:             2025,
		InstallmentIndex: idx,
		InstallmentTotal: total,
	}
}

func TestMatcher_Apply_NetsFirstInstallment(t *testing.T) {
	text := "date,title,amount\n" +
		"2025-07-03,Store A - Installment 1/3,30.00\n" +
		"2025-07-10,Refund of \"Store A\",30.00\n"
	records := []model.Expense{
		expense("Store A", "30.00", 8, 1, 3),
		expense("Store A", "30.00", 9, 2, 3),
		expense("Store A", "30.00", 10, 3, 3),
		expense(`Refund of "Store A"`, "30.00", 8, 0, 0),
	}

	m := NewMatcher(classifier(), tolerance, quietLogger())
	out := m.Apply(text, records)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].InstallmentIndex)
	assert.Equal(t, 3, out[1].InstallmentIndex)
}

func TestMatcher_Apply_OrderInsensitive(t *testing.T) {
	refundFirst := "date,title,amount\n" +
		"2025-07-01,Cancellation of Store B,-45.10\n" +
		"2025-07-05,Store B,45.10\n"
	purchaseFirst := "date,title,amount\n" +
		"2025-07-05,Store B,45.10\n" +
		"2025-07-01,Cancellation of Store B,-45.10\n"
	records := []model.Expense{expense("Store B", "45.10", 8, 0, 0)}

	m := NewMatcher(classifier(), tolerance, quietLogger())
	assert.Empty(t, m.Apply(refundFirst, records))
	assert.Empty(t, m.Apply(purchaseFirst, records))
}

func TestMatcher_Apply_AmountMismatchKeeps(t *testing.T) {
	text := "date,title,amount\n2025-07-01,Refund of Store C,-10.00\n"
	records := []model.Expense{expense("Store C", "10.02", 8, 0, 0)}

	m := NewMatcher(classifier(), tolerance, quietLogger())
	out := m.Apply(text, records)
	require.Len(t, out, 1)
	assert.Equal(t, "Store C", out[0].Description)
}

func TestMatcher_Apply_OneRefundPerPurchase(t *testing.T) {
	text := "date,title,amount\n2025-07-01,Refund of Store D,-10.00\n"
	records := []model.Expense{
		expense("Store D", "10.00", 8, 0, 0),
		expense("Store D", "10.00", 8, 0, 0),
	}

	m := NewMatcher(classifier(), tolerance, quietLogger())
	assert.Len(t, m.Apply(text, records), 1)
}

func TestMatcher_Apply_Idempotent(t *testing.T) {
	text := "date,title,amount\n2025-07-01,Refund of Store D,-10.00\n"
	records := []model.Expense{
		expense("Store D", "10.00", 8, 0, 0),
		expense("Store E", "5.00", 8, 0, 0),
	}

	m := NewMatcher(classifier(), tolerance, quietLogger())
	once := m.Apply(text, records)
	// A second pass with a fresh index nets nothing that is not a refund of a
	// still-present purchase.
	twice := m.Apply("date,title,amount\n", once)
	assert.Equal(t, once, twice)
}

func TestNet_DoesNotMutateInput(t *testing.T) {
	ix := NewIndex(tolerance)
	ix.Add("store a", dec("1.00"))
	records := []model.Expense{expense("Store A", "1.00", 1, 0, 0), expense("Store B", "2.00", 1, 0, 0)}

	out := Net(ix, records)
	require.Len(t, out, 1)
	assert.Equal(t, "Store B", out[0].Description)
	assert.Len(t, records, 2)
	assert.Equal(t, "Store A", records[0].Description)
}

func TestStripResidual(t *testing.T) {
	m := NewMatcher(classifier(), tolerance, quietLogger())
	out := m.StripResidual([]model.Expense{
		expense("Purchase cancelled: X", "3.00", 1, 0, 0),
		expense("Store A", "3.00", 1, 0, 0),
		expense("REVERSAL", "1.00", 1, 0, 0),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Store A", out[0].Description)
}
