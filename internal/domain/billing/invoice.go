package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"   // no payments yet
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"   // 0 < received < total
	InvoiceStatusPaid      InvoiceStatus = "PAID"      // received = total
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // cancelled before any payment
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodUPI, PaymentMethodCheque:
		return true
	}
	return false
}

// PaymentRecord represents a payment applied to an invoice. It is a value
// object within the Invoice aggregate, stored as JSONB.
type PaymentRecord struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"` // cheque no, UTR, etc.
	ReceivedAt time.Time       `json:"received_at"`
	Remark     string          `json:"remark,omitempty"`
}

// PaymentRecords implements GORM Scanner/Valuer for JSONB storage
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for GORM to store as JSONB
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice represents a customer invoice raised from a sales order. The
// financial breakdown is computed once at creation and persisted, so the
// printed figures never drift when tax rates change later.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	SalesOrderID   *uuid.UUID             `gorm:"type:uuid;index"` // nil for manually raised invoices
	CustomerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName   string                 `gorm:"type:varchar(200);not null"`
	InvoiceDate    time.Time              `gorm:"not null"`
	PaymentDueDate *time.Time             `gorm:"index"`
	ItemTotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	DiscountType   ordercalc.DiscountType `gorm:"type:varchar(20);not null;default:'NONE'"`
	DiscountValue  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxType        ordercalc.TaxType      `gorm:"type:varchar(20);not null;default:'NO_TAX'"`
	TaxRate        decimal.Decimal        `gorm:"type:decimal(9,4);not null;default:0"`
	TaxableAmount  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CGST           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	SGST           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	IGST           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	RoundOff       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status         InvoiceStatus          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Payments       PaymentRecords         `gorm:"type:jsonb;not null;default:'[]'"`
	Remark         string                 `gorm:"type:text"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice, computing and freezing its financial
// breakdown from the given totals and policies.
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerName string, itemTotal decimal.Decimal, discount ordercalc.DiscountPolicy, tax ordercalc.TaxPolicy, invoiceDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if itemTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Item total cannot be negative")
	}
	if !discount.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type")
	}
	if !tax.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX", "Unknown tax type")
	}

	b := ordercalc.ComputeBreakdown(itemTotal, discount, tax)
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		InvoiceDate:       invoiceDate,
		ItemTotal:         b.ItemTotal,
		DiscountType:      discount.Type,
		DiscountValue:     discount.Value,
		DiscountAmount:    b.DiscountAmount,
		TaxType:           tax.Type,
		TaxRate:           tax.Rate,
		TaxableAmount:     b.TaxableAmount,
		CGST:              b.CGST,
		SGST:              b.SGST,
		IGST:              b.IGST,
		TotalTax:          b.TotalTax,
		RoundOff:          b.RoundOff,
		TotalAmount:       b.TotalAmount,
		AmountReceived:    decimal.Zero,
		Status:            InvoiceStatusPending,
		Payments:          PaymentRecords{},
	}, nil
}

// LinkSalesOrder attaches the source sales order reference
func (inv *Invoice) LinkSalesOrder(orderID uuid.UUID) {
	inv.SalesOrderID = &orderID
	inv.touch()
}

// SetPaymentDueDate sets the date by which payment is expected
func (inv *Invoice) SetPaymentDueDate(dueDate *time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change due date of a closed invoice")
	}
	inv.PaymentDueDate = dueDate
	inv.touch()
	return nil
}

// SetRemark sets the invoice remark
func (inv *Invoice) SetRemark(remark string) {
	inv.Remark = remark
	inv.touch()
}

// Outstanding returns the amount still to be received
func (inv *Invoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.AmountReceived)
}

// RecordPayment applies a payment to the invoice. Payments beyond the
// outstanding balance are rejected.
func (inv *Invoice) RecordPayment(amount decimal.Decimal, method PaymentMethod, reference, remark string, receivedAt time.Time) (*PaymentRecord, error) {
	if !inv.Status.CanApplyPayment() {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Cannot record payment on %s invoice", inv.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if amount.GreaterThan(inv.Outstanding()) {
		return nil, shared.ErrOverpayment
	}

	record := PaymentRecord{
		ID:         uuid.New(),
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		ReceivedAt: receivedAt,
		Remark:     remark,
	}
	inv.Payments = append(inv.Payments, record)
	inv.AmountReceived = inv.AmountReceived.Add(amount)

	if inv.Outstanding().IsZero() {
		inv.Status = InvoiceStatusPaid
	} else {
		inv.Status = InvoiceStatusPartial
	}
	inv.touch()
	return &record, nil
}

// Cancel cancels the invoice. Not allowed once a payment has been received.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel %s invoice", inv.Status)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.touch()
	return nil
}

// Breakdown returns the persisted financial breakdown
func (inv *Invoice) Breakdown() ordercalc.Breakdown {
	return ordercalc.Breakdown{
		ItemTotal:      inv.ItemTotal,
		DiscountAmount: inv.DiscountAmount,
		TaxableAmount:  inv.TaxableAmount,
		CGST:           inv.CGST,
		SGST:           inv.SGST,
		IGST:           inv.IGST,
		TotalTax:       inv.TotalTax,
		RoundOff:       inv.RoundOff,
		TotalAmount:    inv.TotalAmount,
	}
}

// TotalMoney returns the invoice grand total as INR money.
func (inv *Invoice) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(inv.TotalAmount)
}

// OutstandingMoney returns the unpaid balance as INR money.
func (inv *Invoice) OutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyINR(inv.Outstanding())
}

// PaymentProgress returns how much of the invoice total has been received,
// as a whole percentage. Money collected is fulfilment the same way metres
// received are, so it runs through the same calculator.
func (inv *Invoice) PaymentProgress() int {
	return ordercalc.CompletionPercentage([]ordercalc.LineItem{
		{Required: inv.TotalAmount, Fulfilled: inv.AmountReceived},
	})
}

// IsOverdue reports whether an open invoice is past its payment due date as
// of today. Paid and cancelled invoices are never overdue.
func (inv *Invoice) IsOverdue(today time.Time) bool {
	if !inv.Status.CanApplyPayment() {
		return false
	}
	return ordercalc.DisplayStatus(ordercalc.StatusInProgress, inv.PaymentDueDate, today) == ordercalc.StatusOverdue
}

func (inv *Invoice) touch() {
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}
