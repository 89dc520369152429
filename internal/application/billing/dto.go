package billing

import (
	"time"

	appTrade "github.com/fabricerp/backend/internal/application/trade"
	"github.com/fabricerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to raise a manual invoice
type CreateInvoiceRequest struct {
	CustomerID     uuid.UUID        `json:"customer_id" binding:"required"`
	CustomerName   string           `json:"customer_name" binding:"required,min=1,max=200"`
	ItemTotal      decimal.Decimal  `json:"item_total" binding:"required,dgt0"`
	DiscountType   string           `json:"discount_type" binding:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue  *decimal.Decimal `json:"discount_value"`
	TaxType        string           `json:"tax_type" binding:"omitempty,oneof=NO_TAX GST IGST"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	PaymentDueDate *time.Time       `json:"payment_due_date"`
	Remark         string           `json:"remark"`
}

// RaiseFromSalesOrderRequest raises an invoice against an existing sales order
type RaiseFromSalesOrderRequest struct {
	SalesOrderID   uuid.UUID  `json:"sales_order_id" binding:"required"`
	PaymentDueDate *time.Time `json:"payment_due_date"`
	Remark         string     `json:"remark"`
}

// RecordPaymentRequest represents a payment against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Method    string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	Reference string          `json:"reference" binding:"max=100"`
	Remark    string          `json:"remark" binding:"max=500"`
}

// CancelInvoiceRequest represents a request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID CANCELLED"`
	Customer *uuid.UUID `form:"customer_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentResponse represents a payment record in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	Remark     string          `json:"remark,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID                  `json:"id"`
	InvoiceNumber   string                     `json:"invoice_number"`
	SalesOrderID    *uuid.UUID                 `json:"sales_order_id,omitempty"`
	CustomerID      uuid.UUID                  `json:"customer_id"`
	CustomerName    string                     `json:"customer_name"`
	InvoiceDate     time.Time                  `json:"invoice_date"`
	PaymentDueDate  *time.Time                 `json:"payment_due_date,omitempty"`
	Breakdown       appTrade.BreakdownResponse `json:"breakdown"`
	AmountReceived  decimal.Decimal            `json:"amount_received"`
	Outstanding     decimal.Decimal            `json:"outstanding"`
	TotalDisplay    string                     `json:"total_display"`
	OutstandingDue  string                     `json:"outstanding_display"`
	Status          string                     `json:"status"`
	Overdue         bool                       `json:"overdue"` // derived per read
	PaymentProgress int                        `json:"payment_progress"`
	Payments        []PaymentResponse          `json:"payments"`
	Remark          string                     `json:"remark,omitempty"`
	CancelledAt     *time.Time                 `json:"cancelled_at,omitempty"`
	CancelReason    string                     `json:"cancel_reason,omitempty"`
	Version         int                        `json:"version"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ToInvoiceResponse converts an invoice to its API representation. The
// overdue flag is derived as of today.
func ToInvoiceResponse(inv *billing.Invoice, today time.Time) InvoiceResponse {
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     string(p.Method),
			Reference:  p.Reference,
			ReceivedAt: p.ReceivedAt,
			Remark:     p.Remark,
		}
	}

	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		SalesOrderID:    inv.SalesOrderID,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     inv.InvoiceDate,
		PaymentDueDate:  inv.PaymentDueDate,
		Breakdown:       appTrade.ToBreakdownResponse(inv.Breakdown()),
		AmountReceived:  inv.AmountReceived,
		Outstanding:     inv.Outstanding(),
		TotalDisplay:    inv.TotalMoney().String(),
		OutstandingDue:  inv.OutstandingMoney().String(),
		Status:          inv.Status.String(),
		Overdue:         inv.IsOverdue(today),
		PaymentProgress: inv.PaymentProgress(),
		Payments:        payments,
		Remark:          inv.Remark,
		CancelledAt:     inv.CancelledAt,
		CancelReason:    inv.CancelReason,
		Version:         inv.Version,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}
