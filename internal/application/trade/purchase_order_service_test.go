package trade

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fabricerp/backend/internal/domain/catalog"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== In-memory fakes ====================

type fakePurchaseOrderRepo struct {
	orders map[uuid.UUID]*trade.PurchaseOrder
	seq    int
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *fakePurchaseOrderRepo) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakePurchaseOrderRepo) SaveWithLock(_ context.Context, order *trade.PurchaseOrder, expectedVersion int) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != order.Version && stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakePurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakePurchaseOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.PurchaseOrder, error) {
	result := make([]*trade.PurchaseOrder, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}
	return result, nil
}

func (r *fakePurchaseOrderRepo) FindByStatus(_ context.Context, status ordercalc.Status, _ shared.Filter) ([]*trade.PurchaseOrder, error) {
	result := make([]*trade.PurchaseOrder, 0)
	for _, order := range r.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *fakePurchaseOrderRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if status, ok := filter.Filters["status"]; ok && order.Status != ordercalc.Status(status.(string)) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakePurchaseOrderRepo) NextOrderNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PO-2026-%04d", r.seq), nil
}

func (r *fakePurchaseOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.Code == code {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

// ==================== Fixtures ====================

var fixedToday = time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)

func newServiceUnderTest(t *testing.T) (*PurchaseOrderService, *fakePurchaseOrderRepo, *catalog.Product) {
	t.Helper()
	orderRepo := newFakePurchaseOrderRepo()
	productRepo := newFakeProductRepo()

	product, err := catalog.NewProduct("Cotton Poplin 60s", "FAB-001", ordercalc.StockRoll, ordercalc.UnitMeter)
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(context.Background(), product))

	svc := NewPurchaseOrderService(orderRepo, productRepo, shared.FixedClock{Instant: fixedToday})
	return svc, orderRepo, product
}

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// ==================== Tests ====================

func TestPurchaseOrderService_Create(t *testing.T) {
	svc, _, product := newServiceUnderTest(t)
	ctx := context.Background()

	taxRate := d(12)
	discount := d(10)
	resp, err := svc.Create(ctx, CreatePurchaseOrderRequest{
		SupplierID:    uuid.New(),
		SupplierName:  "Shree Textiles",
		Items:         []OrderItemInput{{ProductID: product.ID, Quantity: d(100), UnitRate: d(50)}},
		DiscountType:  "PERCENTAGE",
		DiscountValue: &discount,
		TaxType:       "GST",
		TaxRate:       &taxRate,
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-2026-0001", resp.OrderNumber)
	assert.Equal(t, "APPROVAL_PENDING", resp.Status)
	assert.Equal(t, "APPROVAL_PENDING", resp.DisplayStatus)
	assert.Equal(t, 0, resp.CompletionPercentage)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "METER", resp.Items[0].Unit)
	assert.Equal(t, "m", resp.Items[0].UnitLabel)

	// breakdown derived from items and policies
	assert.True(t, resp.Breakdown.ItemTotal.Equal(d(5000)))
	assert.True(t, resp.Breakdown.DiscountAmount.Equal(d(500)))
	assert.True(t, resp.Breakdown.TaxableAmount.Equal(d(4500)))
	assert.True(t, resp.Breakdown.CGST.Equal(d(270)))
	assert.True(t, resp.Breakdown.SGST.Equal(d(270)))
	assert.True(t, resp.Breakdown.TotalAmount.Equal(d(5040)))
}

func TestPurchaseOrderService_CreateUnknownProduct(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)

	_, err := svc.Create(context.Background(), CreatePurchaseOrderRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Shree Textiles",
		Items:        []OrderItemInput{{ProductID: uuid.New(), Quantity: d(10), UnitRate: d(50)}},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderService_ApproveAndInward(t *testing.T) {
	svc, _, product := newServiceUnderTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePurchaseOrderRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Shree Textiles",
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: d(100), UnitRate: d(85.50)}},
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", approved.Status)

	resp, entries, err := svc.RecordInward(ctx, created.ID, RecordFulfilmentRequest{
		Items: []FulfilmentItemInput{{ProductID: product.ID, Quantity: d(40), BatchNumber: "B-101"}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B-101", entries[0].BatchNumber)
	assert.Equal(t, 40, resp.CompletionPercentage)
	assert.Equal(t, "IN_PROGRESS", resp.Status)

	resp, _, err = svc.RecordInward(ctx, created.ID, RecordFulfilmentRequest{
		Items: []FulfilmentItemInput{{ProductID: product.ID, Quantity: d(70)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, 110, resp.CompletionPercentage)
	assert.Equal(t, 100, resp.CompletionDisplay)
}

func TestPurchaseOrderService_OverdueDerivedAtRead(t *testing.T) {
	svc, _, product := newServiceUnderTest(t)
	ctx := context.Background()

	pastDue := fixedToday.AddDate(0, 0, -3)
	created, err := svc.Create(ctx, CreatePurchaseOrderRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Shree Textiles",
		DueDate:      &pastDue,
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: d(100), UnitRate: d(85.50)}},
	})
	require.NoError(t, err)

	// pending: no overdue even though past due
	assert.Equal(t, "APPROVAL_PENDING", created.DisplayStatus)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", approved.Status)
	assert.Equal(t, "OVERDUE", approved.DisplayStatus)

	// persisted status never becomes OVERDUE
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", got.Status)
	assert.Equal(t, "OVERDUE", got.DisplayStatus)
}

func TestPurchaseOrderService_Cancel(t *testing.T) {
	svc, _, product := newServiceUnderTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePurchaseOrderRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Shree Textiles",
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: d(100), UnitRate: d(85.50)}},
	})
	require.NoError(t, err)

	resp, err := svc.Cancel(ctx, created.ID, CancelOrderRequest{Reason: "supplier unable to deliver"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, "CANCELLED", resp.DisplayStatus)

	// terminal orders reject further actions
	_, err = svc.Approve(ctx, created.ID)
	assert.Error(t, err)
}

func TestPurchaseOrderService_ListByStatus(t *testing.T) {
	svc, _, product := newServiceUnderTest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, CreatePurchaseOrderRequest{
			SupplierID:   uuid.New(),
			SupplierName: "Shree Textiles",
			Items:        []OrderItemInput{{ProductID: product.ID, Quantity: d(10), UnitRate: d(85.50)}},
		})
		require.NoError(t, err)
		if i == 0 {
			_, err = svc.Approve(ctx, created.ID)
			require.NoError(t, err)
		}
	}

	pending, total, err := svc.List(ctx, OrderListFilter{Status: "APPROVAL_PENDING"})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	assert.Equal(t, int64(2), total, "total must count only the filtered status")

	inProgress, total, err := svc.List(ctx, OrderListFilter{Status: "IN_PROGRESS"})
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)
	assert.Equal(t, int64(1), total)
}
