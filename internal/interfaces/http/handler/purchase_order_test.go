package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tradeapp "github.com/fabricerp/backend/internal/application/trade"
	"github.com/fabricerp/backend/internal/domain/catalog"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/fabricerp/backend/internal/interfaces/http/dto"
	"github.com/fabricerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.PurchaseOrder, error) {
	out := make([]*trade.PurchaseOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakePurchaseOrderRepo) FindByStatus(_ context.Context, status ordercalc.Status, _ shared.Filter) ([]*trade.PurchaseOrder, error) {
	var out []*trade.PurchaseOrder
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
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
	return fmt.Sprintf("PO-%d-%04d", time.Now().Year(), r.seq), nil
}

func (r *fakePurchaseOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func setupPurchaseOrderRouter(t *testing.T) (*gin.Engine, *fakeProductRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	productRepo := newFakeProductRepo()
	orderRepo := newFakePurchaseOrderRepo()
	svc := tradeapp.NewPurchaseOrderService(orderRepo, productRepo, shared.SystemClock{})
	h := NewPurchaseOrderHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	return r, productRepo
}

func seedProduct(t *testing.T, repo *fakeProductRepo, code string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Cotton Poplin", code, ordercalc.StockRoll, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	r, productRepo := setupPurchaseOrderRouter(t)
	product := seedProduct(t, productRepo, "FAB-CP-001")

	body, _ := json.Marshal(map[string]any{
		"supplier_id":   uuid.NewString(),
		"supplier_name": "Shree Textiles",
		"items": []map[string]any{
			{"product_id": product.ID.String(), "quantity": "100", "unit_rate": "55.50"},
		},
		"discount_type":  "PERCENTAGE",
		"discount_value": "10",
		"tax_type":       "GST",
		"tax_rate":       "12",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/purchase-orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool                            `json:"success"`
		Data    tradeapp.PurchaseOrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "APPROVAL_PENDING", resp.Data.Status)
	assert.Contains(t, resp.Data.OrderNumber, "PO-")
	assert.Len(t, resp.Data.Items, 1)
}

func TestPurchaseOrderHandler_Create_RejectsZeroQuantity(t *testing.T) {
	r, productRepo := setupPurchaseOrderRouter(t)
	product := seedProduct(t, productRepo, "FAB-CP-002")

	body, _ := json.Marshal(map[string]any{
		"supplier_id":   uuid.NewString(),
		"supplier_name": "Shree Textiles",
		"items": []map[string]any{
			{"product_id": product.ID.String(), "quantity": "0", "unit_rate": "55.50"},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/purchase-orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseOrderHandler_Cancel_RequiresReason(t *testing.T) {
	r, productRepo := setupPurchaseOrderRouter(t)
	product := seedProduct(t, productRepo, "FAB-CP-003")

	// Create first
	body, _ := json.Marshal(map[string]any{
		"supplier_id":   uuid.NewString(),
		"supplier_name": "Shree Textiles",
		"items": []map[string]any{
			{"product_id": product.ID.String(), "quantity": "40", "unit_rate": "80"},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/purchase-orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data tradeapp.PurchaseOrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Cancel without a reason fails binding
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost,
		"/api/v1/trade/purchase-orders/"+created.Data.ID.String()+"/cancel",
		bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// With a reason it succeeds
	cancelBody, _ := json.Marshal(map[string]any{"reason": "Supplier cannot deliver"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost,
		"/api/v1/trade/purchase-orders/"+created.Data.ID.String()+"/cancel",
		bytes.NewReader(cancelBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled struct {
		Data tradeapp.PurchaseOrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, "CANCELLED", cancelled.Data.Status)
}

func TestPurchaseOrderHandler_GetByID_NotFound(t *testing.T) {
	r, _ := setupPurchaseOrderRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trade/purchase-orders/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}
