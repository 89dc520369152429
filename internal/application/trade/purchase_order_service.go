package trade

import (
	"context"

	"github.com/fabricerp/backend/internal/domain/catalog"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo   trade.PurchaseOrderRepository
	productRepo catalog.ProductRepository
	clock       shared.Clock
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository, productRepo catalog.ProductRepository, clock shared.Clock) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clock:       clock,
	}
}

// Create creates a new purchase order pending approval
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(orderNumber, req.SupplierID, req.SupplierName)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		item, err := order.AddItem(product.ID, product.Name, product.Code, product.CanonicalUnit(), input.Quantity, input.UnitRate)
		if err != nil {
			return nil, err
		}
		if input.Remark != "" {
			item.Remark = input.Remark
		}
	}

	if err := applyPolicies(order.SetDiscount, order.SetTax, req.DiscountType, req.DiscountValue, req.TaxType, req.TaxRate); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := order.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// List retrieves purchase orders with pagination. Status filtering matches
// the persisted status, never the derived one.
func (s *PurchaseOrderService) List(ctx context.Context, filter OrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	var (
		orders []*trade.PurchaseOrder
		err    error
	)
	if filter.Status != "" {
		orders, err = s.orderRepo.FindByStatus(ctx, ordercalc.Status(filter.Status), domainFilter)
	} else {
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	today := s.clock.Now()
	responses := make([]PurchaseOrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToPurchaseOrderResponse(order, today)
	}
	return responses, total, nil
}

// Update modifies header fields of an order still pending approval
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if req.DueDate != nil {
		if err := order.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.DiscountType != nil {
		value := order.DiscountValue
		if req.DiscountValue != nil {
			value = *req.DiscountValue
		}
		if err := order.SetDiscount(ordercalc.DiscountPolicy{Type: ordercalc.DiscountType(*req.DiscountType), Value: value}); err != nil {
			return nil, err
		}
	}
	if req.TaxType != nil {
		rate := order.TaxRate
		if req.TaxRate != nil {
			rate = *req.TaxRate
		}
		if err := order.SetTax(ordercalc.TaxPolicy{Type: ordercalc.TaxType(*req.TaxType), Rate: rate}); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		order.SetRemark(*req.Remark)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// Approve moves a pending order into progress
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.Approve(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// RecordInward records a goods inward entry against the order
func (s *PurchaseOrderService) RecordInward(ctx context.Context, orderID uuid.UUID, req RecordFulfilmentRequest) (*PurchaseOrderResponse, []FulfilmentEntryResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	expectedVersion := order.Version

	inwardItems := make([]trade.InwardItem, len(req.Items))
	for i, input := range req.Items {
		inwardItems[i] = trade.InwardItem{
			ProductID:   input.ProductID,
			Quantity:    input.Quantity,
			BatchNumber: input.BatchNumber,
		}
	}

	infos, err := order.RecordInward(inwardItems)
	if err != nil {
		return nil, nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, nil, err
	}

	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, toFulfilmentEntries(infos), nil
}

// Cancel cancels the order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// toDomainFilter maps list query parameters to the repository filter
func toDomainFilter(filter OrderListFilter) shared.Filter {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PartyID != nil {
		f.Filters["party_id"] = *filter.PartyID
	}
	return f
}

// applyPolicies resolves optional discount and tax inputs into domain policies
func applyPolicies(setDiscount func(ordercalc.DiscountPolicy) error, setTax func(ordercalc.TaxPolicy) error, discountType string, discountValue *decimal.Decimal, taxType string, taxRate *decimal.Decimal) error {
	if discountType != "" && discountType != string(ordercalc.DiscountNone) {
		value := decimal.Zero
		if discountValue != nil {
			value = *discountValue
		}
		if err := setDiscount(ordercalc.DiscountPolicy{Type: ordercalc.DiscountType(discountType), Value: value}); err != nil {
			return err
		}
	}
	if taxType != "" && taxType != string(ordercalc.TaxNone) {
		rate := decimal.Zero
		if taxRate != nil {
			rate = *taxRate
		}
		if err := setTax(ordercalc.TaxPolicy{Type: ordercalc.TaxType(taxType), Rate: rate}); err != nil {
			return err
		}
	}
	return nil
}
