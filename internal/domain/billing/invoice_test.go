package billing

import (
	"testing"
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

var invoiceDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-2026-0001", uuid.New(), "Mehta Garments",
		dec(5000),
		ordercalc.DiscountPolicy{Type: ordercalc.DiscountPercentage, Value: dec(10)},
		ordercalc.TaxPolicy{Type: ordercalc.TaxGST, Rate: dec(12)},
		invoiceDate)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("breakdown frozen at creation", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.True(t, inv.DiscountAmount.Equal(dec(500)))
		assert.True(t, inv.TaxableAmount.Equal(dec(4500)))
		assert.True(t, inv.CGST.Equal(dec(270)))
		assert.True(t, inv.SGST.Equal(dec(270)))
		assert.True(t, inv.TotalTax.Equal(dec(540)))
		assert.True(t, inv.TotalAmount.Equal(dec(5040)))
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.True(t, inv.AmountReceived.IsZero())

		b := inv.Breakdown()
		assert.True(t, b.TotalAmount.Equal(inv.TaxableAmount.Add(b.TotalTax).Add(b.RoundOff)))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewInvoice("", uuid.New(), "Mehta Garments", dec(100), ordercalc.NoDiscount(), ordercalc.NoTax(), invoiceDate)
		assert.Error(t, err)

		_, err = NewInvoice("INV-1", uuid.Nil, "Mehta Garments", dec(100), ordercalc.NoDiscount(), ordercalc.NoTax(), invoiceDate)
		assert.Error(t, err)

		_, err = NewInvoice("INV-1", uuid.New(), "Mehta Garments", dec(-100), ordercalc.NoDiscount(), ordercalc.NoTax(), invoiceDate)
		assert.Error(t, err)
	})
}

func TestInvoice_RecordPayment(t *testing.T) {
	inv := newTestInvoice(t) // total 5040
	paidAt := invoiceDate.AddDate(0, 0, 5)

	record, err := inv.RecordPayment(dec(2000), PaymentMethodUPI, "UTR123456", "advance", paidAt)
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodUPI, record.Method)
	assert.Equal(t, InvoiceStatusPartial, inv.Status)
	assert.True(t, inv.Outstanding().Equal(dec(3040)))
	assert.Equal(t, 40, inv.PaymentProgress())

	// overpayment rejected
	_, err = inv.RecordPayment(dec(3041), PaymentMethodCash, "", "", paidAt)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrOverpayment)

	// settle the balance
	_, err = inv.RecordPayment(dec(3040), PaymentMethodBankTransfer, "NEFT-991", "", paidAt)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Outstanding().IsZero())
	assert.Equal(t, 100, inv.PaymentProgress())
	assert.Len(t, inv.Payments, 2)

	// no payments on a paid invoice
	_, err = inv.RecordPayment(dec(1), PaymentMethodCash, "", "", paidAt)
	assert.Error(t, err)
}

func TestInvoice_RecordPayment_Validation(t *testing.T) {
	inv := newTestInvoice(t)
	paidAt := invoiceDate

	_, err := inv.RecordPayment(decimal.Zero, PaymentMethodCash, "", "", paidAt)
	assert.Error(t, err)

	_, err = inv.RecordPayment(dec(-10), PaymentMethodCash, "", "", paidAt)
	assert.Error(t, err)

	_, err = inv.RecordPayment(dec(10), PaymentMethod("BARTER"), "", "", paidAt)
	assert.Error(t, err)
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("cancel pending invoice", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Cancel("raised against wrong customer"))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.NotNil(t, inv.CancelledAt)
	})

	t.Run("cannot cancel after payment", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.RecordPayment(dec(100), PaymentMethodCash, "", "", invoiceDate)
		require.NoError(t, err)
		assert.Error(t, inv.Cancel("too late"))
	})

	t.Run("reason required", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.Cancel(""))
	})
}

func TestInvoice_IsOverdue(t *testing.T) {
	today := time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	t.Run("no due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.False(t, inv.IsOverdue(today))
	})

	t.Run("past due while open", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.SetPaymentDueDate(&yesterday))
		assert.False(t, inv.IsOverdue(yesterday))
		assert.True(t, inv.IsOverdue(today))
	})

	t.Run("future due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.SetPaymentDueDate(&tomorrow))
		assert.False(t, inv.IsOverdue(today))
	})

	t.Run("paid invoice is never overdue", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.SetPaymentDueDate(&yesterday))
		_, err := inv.RecordPayment(inv.TotalAmount, PaymentMethodBankTransfer, "NEFT-1", "", today)
		require.NoError(t, err)
		assert.False(t, inv.IsOverdue(today))
	})

	t.Run("partial invoice past due is overdue", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.SetPaymentDueDate(&yesterday))
		_, err := inv.RecordPayment(dec(1000), PaymentMethodCash, "", "", today)
		require.NoError(t, err)
		assert.True(t, inv.IsOverdue(today))
	})
}

func TestInvoice_RoundOffPersisted(t *testing.T) {
	// 100.50 taxable at 18% GST: exact 118.59 rounds to 119, round-off +0.41
	inv, err := NewInvoice("INV-2026-0002", uuid.New(), "Mehta Garments",
		dec(100.50), ordercalc.NoDiscount(),
		ordercalc.TaxPolicy{Type: ordercalc.TaxGST, Rate: dec(18)}, invoiceDate)
	require.NoError(t, err)

	assert.True(t, inv.TotalAmount.Equal(dec(119)))
	assert.True(t, inv.RoundOff.Equal(dec(0.41)), "round off %s", inv.RoundOff)
}
