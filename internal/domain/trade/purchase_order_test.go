package trade

import (
	"testing"
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func newTestPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder("PO-2026-0001", uuid.New(), "Shree Textiles")
	require.NoError(t, err)
	return po
}

func addTestItem(t *testing.T, po *PurchaseOrder, qty, rate float64) *PurchaseOrderItem {
	t.Helper()
	item, err := po.AddItem(uuid.New(), "Cotton Poplin 60s", "FAB-001", ordercalc.UnitMeter, dec(qty), dec(rate))
	require.NoError(t, err)
	return item
}

func TestNewPurchaseOrder(t *testing.T) {
	tests := []struct {
		name         string
		orderNumber  string
		supplierID   uuid.UUID
		supplierName string
		wantErr      bool
	}{
		{
			name:         "valid order",
			orderNumber:  "PO-2026-0001",
			supplierID:   uuid.New(),
			supplierName: "Shree Textiles",
			wantErr:      false,
		},
		{
			name:         "empty order number",
			orderNumber:  "",
			supplierID:   uuid.New(),
			supplierName: "Shree Textiles",
			wantErr:      true,
		},
		{
			name:         "nil supplier",
			orderNumber:  "PO-2026-0001",
			supplierID:   uuid.Nil,
			supplierName: "Shree Textiles",
			wantErr:      true,
		},
		{
			name:         "empty supplier name",
			orderNumber:  "PO-2026-0001",
			supplierID:   uuid.New(),
			supplierName: "",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			po, err := NewPurchaseOrder(tt.orderNumber, tt.supplierID, tt.supplierName)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, po)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ordercalc.StatusApprovalPending, po.Status)
			assert.True(t, po.ItemTotal.IsZero())
			assert.Equal(t, ordercalc.DiscountNone, po.DiscountType)
			assert.Equal(t, ordercalc.TaxNone, po.TaxType)
			assert.Equal(t, 1, po.GetVersion())
		})
	}
}

func TestPurchaseOrder_AddItem(t *testing.T) {
	po := newTestPO(t)

	item := addTestItem(t, po, 100, 85.50)
	assert.Equal(t, 1, po.ItemCount())
	assert.True(t, item.LineTotal.Equal(dec(8550)))
	assert.True(t, po.ItemTotal.Equal(dec(8550)))

	// same product twice is rejected
	_, err := po.AddItem(item.ProductID, "Cotton Poplin 60s", "FAB-001", ordercalc.UnitMeter, dec(10), dec(85.50))
	assert.Error(t, err)

	// no items after approval
	require.NoError(t, po.Approve())
	_, err = po.AddItem(uuid.New(), "Denim 12oz", "FAB-002", ordercalc.UnitMeter, dec(50), dec(120))
	assert.Error(t, err)
}

func TestPurchaseOrder_UpdateAndRemoveItem(t *testing.T) {
	po := newTestPO(t)
	item := addTestItem(t, po, 100, 85.50)

	require.NoError(t, po.UpdateItemQuantity(item.ID, dec(150)))
	assert.True(t, po.ItemTotal.Equal(dec(12825)))

	assert.Error(t, po.UpdateItemQuantity(uuid.New(), dec(10)))
	assert.Error(t, po.UpdateItemQuantity(item.ID, decimal.Zero))

	require.NoError(t, po.RemoveItem(item.ID))
	assert.Equal(t, 0, po.ItemCount())
	assert.True(t, po.ItemTotal.IsZero())
}

func TestPurchaseOrder_Approve(t *testing.T) {
	po := newTestPO(t)

	// no items
	assert.Error(t, po.Approve())

	addTestItem(t, po, 100, 85.50)
	require.NoError(t, po.Approve())
	assert.Equal(t, ordercalc.StatusInProgress, po.Status)
	assert.NotNil(t, po.ApprovedAt)

	// double approve
	assert.Error(t, po.Approve())
}

func TestPurchaseOrder_RecordInward(t *testing.T) {
	po := newTestPO(t)
	item := addTestItem(t, po, 100, 85.50)

	// not allowed before approval
	_, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(40)}})
	assert.Error(t, err)

	require.NoError(t, po.Approve())

	infos, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(40), BatchNumber: "B-101"}})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "B-101", infos[0].BatchNumber)
	assert.Equal(t, 40, po.CompletionPercentage())
	assert.Equal(t, ordercalc.StatusInProgress, po.Status)

	// unknown product
	_, err = po.RecordInward([]InwardItem{{ProductID: uuid.New(), Quantity: dec(10)}})
	assert.Error(t, err)

	// remaining quantity completes the order
	_, err = po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(60), BatchNumber: "B-102"}})
	require.NoError(t, err)
	assert.Equal(t, ordercalc.StatusCompleted, po.Status)
	assert.NotNil(t, po.CompletedAt)
	assert.Equal(t, 100, po.CompletionPercentage())

	// nothing further once completed
	_, err = po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(1)}})
	assert.Error(t, err)
}

func TestPurchaseOrder_OverDeliveryAllowed(t *testing.T) {
	po := newTestPO(t)
	item := addTestItem(t, po, 100, 85.50)
	require.NoError(t, po.Approve())

	// supplier ships 110m against 100m ordered
	_, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(110)}})
	require.NoError(t, err)

	assert.Equal(t, ordercalc.StatusCompleted, po.Status)
	assert.Equal(t, 110, po.CompletionPercentage())
	assert.Equal(t, 100, ordercalc.ClampPercentage(po.CompletionPercentage()))
	assert.True(t, po.GetItem(item.ID).PendingQuantity().IsZero())
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	t.Run("cancel pending order", func(t *testing.T) {
		po := newTestPO(t)
		addTestItem(t, po, 100, 85.50)
		require.NoError(t, po.Cancel("supplier unable to deliver"))
		assert.Equal(t, ordercalc.StatusCancelled, po.Status)
		assert.NotNil(t, po.CancelledAt)
	})

	t.Run("cancel requires reason", func(t *testing.T) {
		po := newTestPO(t)
		assert.Error(t, po.Cancel(""))
	})

	t.Run("cancel in progress before any inward", func(t *testing.T) {
		po := newTestPO(t)
		addTestItem(t, po, 100, 85.50)
		require.NoError(t, po.Approve())
		require.NoError(t, po.Cancel("order placed in error"))
		assert.Equal(t, ordercalc.StatusCancelled, po.Status)
	})

	t.Run("cannot cancel after goods received", func(t *testing.T) {
		po := newTestPO(t)
		item := addTestItem(t, po, 100, 85.50)
		require.NoError(t, po.Approve())
		_, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(10)}})
		require.NoError(t, err)
		assert.Error(t, po.Cancel("change of plan"))
	})

	t.Run("cannot cancel completed order", func(t *testing.T) {
		po := newTestPO(t)
		item := addTestItem(t, po, 100, 85.50)
		require.NoError(t, po.Approve())
		_, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(100)}})
		require.NoError(t, err)
		assert.Error(t, po.Cancel("too late"))
	})
}

func TestPurchaseOrder_DisplayStatus(t *testing.T) {
	today := time.Date(2026, 3, 15, 11, 0, 0, 0, time.Local)
	pastDue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	futureDue := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)

	po := newTestPO(t)
	item := addTestItem(t, po, 100, 85.50)

	// pending orders never show overdue
	require.NoError(t, po.SetDueDate(&pastDue))
	assert.Equal(t, ordercalc.StatusApprovalPending, po.DisplayStatus(today))

	require.NoError(t, po.Approve())
	assert.Equal(t, ordercalc.StatusOverdue, po.DisplayStatus(today))

	require.NoError(t, po.SetDueDate(&futureDue))
	assert.Equal(t, ordercalc.StatusInProgress, po.DisplayStatus(today))

	// completion wins over the due date
	require.NoError(t, po.SetDueDate(&pastDue))
	_, err := po.RecordInward([]InwardItem{{ProductID: item.ProductID, Quantity: dec(100)}})
	require.NoError(t, err)
	assert.Equal(t, ordercalc.StatusCompleted, po.DisplayStatus(today))
}

func TestPurchaseOrder_Breakdown(t *testing.T) {
	po := newTestPO(t)
	addTestItem(t, po, 100, 50) // 5000

	require.NoError(t, po.SetDiscount(ordercalc.DiscountPolicy{Type: ordercalc.DiscountPercentage, Value: dec(10)}))
	require.NoError(t, po.SetTax(ordercalc.TaxPolicy{Type: ordercalc.TaxGST, Rate: dec(12)}))

	b := po.Breakdown()
	assert.True(t, b.DiscountAmount.Equal(dec(500)))
	assert.True(t, b.TaxableAmount.Equal(dec(4500)))
	assert.True(t, b.CGST.Equal(dec(270)))
	assert.True(t, b.SGST.Equal(dec(270)))
	assert.True(t, b.TotalAmount.Equal(dec(5040)))

	// policies frozen after approval
	require.NoError(t, po.Approve())
	assert.Error(t, po.SetDiscount(ordercalc.NoDiscount()))
	assert.Error(t, po.SetTax(ordercalc.NoTax()))
}

func TestPurchaseOrder_VersionIncrements(t *testing.T) {
	po := newTestPO(t)
	v := po.GetVersion()
	addTestItem(t, po, 100, 85.50)
	assert.Greater(t, po.GetVersion(), v)
}
