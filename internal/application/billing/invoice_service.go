package billing

import (
	"context"

	"github.com/fabricerp/backend/internal/domain/billing"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoicing and payment collection
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	orderRepo   trade.SalesOrderRepository
	clock       shared.Clock
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, orderRepo trade.SalesOrderRepository, clock shared.Clock) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		clock:       clock,
	}
}

// Create raises a manual invoice not backed by a sales order
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	discount := ordercalc.NoDiscount()
	if req.DiscountType != "" {
		value := decimal.Zero
		if req.DiscountValue != nil {
			value = *req.DiscountValue
		}
		discount = ordercalc.DiscountPolicy{Type: ordercalc.DiscountType(req.DiscountType), Value: value}
	}
	tax := ordercalc.NoTax()
	if req.TaxType != "" {
		rate := decimal.Zero
		if req.TaxRate != nil {
			rate = *req.TaxRate
		}
		tax = ordercalc.TaxPolicy{Type: ordercalc.TaxType(req.TaxType), Rate: rate}
	}

	invoice, err := billing.NewInvoice(invoiceNumber, req.CustomerID, req.CustomerName, req.ItemTotal, discount, tax, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if req.PaymentDueDate != nil {
		if err := invoice.SetPaymentDueDate(req.PaymentDueDate); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		invoice.SetRemark(req.Remark)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice, s.clock.Now())
	return &resp, nil
}

// RaiseFromSalesOrder raises an invoice carrying the sales order's totals and
// policies. The order must be approved; its breakdown is frozen onto the
// invoice at this point.
func (s *InvoiceService) RaiseFromSalesOrder(ctx context.Context, req RaiseFromSalesOrderRequest) (*InvoiceResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.SalesOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == ordercalc.StatusApprovalPending || order.Status == ordercalc.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot invoice an unapproved or cancelled order")
	}

	invoiceNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(invoiceNumber, order.CustomerID, order.CustomerName,
		order.ItemTotal, order.DiscountPolicy(), order.TaxPolicy(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	invoice.LinkSalesOrder(order.ID)
	if req.PaymentDueDate != nil {
		if err := invoice.SetPaymentDueDate(req.PaymentDueDate); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		invoice.SetRemark(req.Remark)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice, s.clock.Now())
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice, s.clock.Now())
	return &resp, nil
}

// List retrieves invoices with pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Customer != nil {
		domainFilter.Filters["customer_id"] = *filter.Customer
	}

	var (
		invoices []*billing.Invoice
		err      error
	)
	if filter.Status != "" {
		invoices, err = s.invoiceRepo.FindByStatus(ctx, billing.InvoiceStatus(filter.Status), domainFilter)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	today := s.clock.Now()
	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = ToInvoiceResponse(invoice, today)
	}
	return responses, total, nil
}

// RecordPayment applies a payment to an invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	expectedVersion := invoice.Version

	_, err = invoice.RecordPayment(req.Amount, billing.PaymentMethod(req.Method), req.Reference, req.Remark, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice, expectedVersion); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice, s.clock.Now())
	return &resp, nil
}

// Cancel cancels an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	expectedVersion := invoice.Version

	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice, expectedVersion); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice, s.clock.Now())
	return &resp, nil
}
