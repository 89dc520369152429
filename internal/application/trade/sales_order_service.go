package trade

import (
	"context"

	"github.com/fabricerp/backend/internal/domain/catalog"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo   trade.SalesOrderRepository
	productRepo catalog.ProductRepository
	clock       shared.Clock
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(orderRepo trade.SalesOrderRepository, productRepo catalog.ProductRepository, clock shared.Clock) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clock:       clock,
	}
}

// Create creates a new sales order pending approval
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewSalesOrder(orderNumber, req.CustomerID, req.CustomerName)
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

	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// List retrieves sales orders with pagination
func (s *SalesOrderService) List(ctx context.Context, filter OrderListFilter) ([]SalesOrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	var (
		orders []*trade.SalesOrder
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
	responses := make([]SalesOrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToSalesOrderResponse(order, today)
	}
	return responses, total, nil
}

// Update modifies header fields of an order still pending approval
func (s *SalesOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*SalesOrderResponse, error) {
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

	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// Approve moves a pending order into progress
func (s *SalesOrderService) Approve(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
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

	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, nil
}

// RecordDispatch records a goods dispatch entry against the order
func (s *SalesOrderService) RecordDispatch(ctx context.Context, orderID uuid.UUID, req RecordFulfilmentRequest) (*SalesOrderResponse, []FulfilmentEntryResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	expectedVersion := order.Version

	dispatchItems := make([]trade.DispatchItem, len(req.Items))
	for i, input := range req.Items {
		dispatchItems[i] = trade.DispatchItem{
			ProductID:   input.ProductID,
			Quantity:    input.Quantity,
			BatchNumber: input.BatchNumber,
		}
	}

	infos, err := order.RecordDispatch(dispatchItems)
	if err != nil {
		return nil, nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, nil, err
	}

	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, toDispatchEntries(infos), nil
}

// Cancel cancels the order
func (s *SalesOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*SalesOrderResponse, error) {
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

	resp := ToSalesOrderResponse(order, s.clock.Now())
	return &resp, nil
}
