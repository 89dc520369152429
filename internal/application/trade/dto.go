package trade

import (
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// OrderItemInput represents an item in a create order request
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitRate  decimal.Decimal `json:"unit_rate" binding:"dgte0"`
	Remark    string          `json:"remark"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID    uuid.UUID        `json:"supplier_id" binding:"required"`
	SupplierName  string           `json:"supplier_name" binding:"required,min=1,max=200"`
	DueDate       *time.Time       `json:"due_date"`
	Items         []OrderItemInput `json:"items"`
	DiscountType  string           `json:"discount_type" binding:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	TaxType       string           `json:"tax_type" binding:"omitempty,oneof=NO_TAX GST IGST"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Remark        string           `json:"remark"`
}

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	CustomerID    uuid.UUID        `json:"customer_id" binding:"required"`
	CustomerName  string           `json:"customer_name" binding:"required,min=1,max=200"`
	DueDate       *time.Time       `json:"due_date"`
	Items         []OrderItemInput `json:"items"`
	DiscountType  string           `json:"discount_type" binding:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	TaxType       string           `json:"tax_type" binding:"omitempty,oneof=NO_TAX GST IGST"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Remark        string           `json:"remark"`
}

// UpdateOrderRequest represents mutable header fields before approval
type UpdateOrderRequest struct {
	DueDate       *time.Time       `json:"due_date"`
	DiscountType  *string          `json:"discount_type" binding:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	TaxType       *string          `json:"tax_type" binding:"omitempty,oneof=NO_TAX GST IGST"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Remark        *string          `json:"remark"`
}

// FulfilmentItemInput represents one line of an inward or dispatch entry
type FulfilmentItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	BatchNumber string          `json:"batch_number"`
}

// RecordFulfilmentRequest represents a goods inward or dispatch entry
type RecordFulfilmentRequest struct {
	Items []FulfilmentItemInput `json:"items" binding:"required,min=1"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=APPROVAL_PENDING IN_PROGRESS COMPLETED CANCELLED"`
	PartyID  *uuid.UUID `form:"party_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Response DTOs ====================

// BreakdownResponse represents the financial breakdown in API responses
type BreakdownResponse struct {
	ItemTotal      decimal.Decimal `json:"item_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	CGST           decimal.Decimal `json:"cgst"`
	SGST           decimal.Decimal `json:"sgst"`
	IGST           decimal.Decimal `json:"igst"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	RoundOff       decimal.Decimal `json:"round_off"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// ToBreakdownResponse maps a computed breakdown into the API shape
func ToBreakdownResponse(b ordercalc.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		ItemTotal:      b.ItemTotal,
		DiscountAmount: b.DiscountAmount,
		TaxableAmount:  b.TaxableAmount,
		CGST:           b.CGST,
		SGST:           b.SGST,
		IGST:           b.IGST,
		TotalTax:       b.TotalTax,
		RoundOff:       b.RoundOff,
		TotalAmount:    b.TotalAmount,
	}
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	Unit              string          `json:"unit"`
	UnitLabel         string          `json:"unit_label"` // abbreviation pluralised for the quantity
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	UnitRate          decimal.Decimal `json:"unit_rate"`
	LineTotal         decimal.Decimal `json:"line_total"`
	Remark            string          `json:"remark,omitempty"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                    uuid.UUID           `json:"id"`
	OrderNumber           string              `json:"order_number"`
	SupplierID            uuid.UUID           `json:"supplier_id"`
	SupplierName          string              `json:"supplier_name"`
	DueDate               *time.Time          `json:"due_date,omitempty"`
	Items                 []OrderItemResponse `json:"items"`
	ItemCount             int                 `json:"item_count"`
	Status                string              `json:"status"`         // persisted status
	DisplayStatus         string              `json:"display_status"` // derived, may be OVERDUE
	CompletionPercentage  int                 `json:"completion_percentage"`
	CompletionDisplay     int                 `json:"completion_display"` // clamped to [0,100]
	Breakdown             BreakdownResponse   `json:"breakdown"`
	DiscountType          string              `json:"discount_type"`
	DiscountValue         decimal.Decimal     `json:"discount_value"`
	TaxType               string              `json:"tax_type"`
	TaxRate               decimal.Decimal     `json:"tax_rate"`
	Remark                string              `json:"remark,omitempty"`
	ApprovedAt            *time.Time          `json:"approved_at,omitempty"`
	CompletedAt           *time.Time          `json:"completed_at,omitempty"`
	CancelledAt           *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason          string              `json:"cancel_reason,omitempty"`
	Version               int                 `json:"version"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID                   uuid.UUID           `json:"id"`
	OrderNumber          string              `json:"order_number"`
	CustomerID           uuid.UUID           `json:"customer_id"`
	CustomerName         string              `json:"customer_name"`
	DueDate              *time.Time          `json:"due_date,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	ItemCount            int                 `json:"item_count"`
	Status               string              `json:"status"`
	DisplayStatus        string              `json:"display_status"`
	CompletionPercentage int                 `json:"completion_percentage"`
	CompletionDisplay    int                 `json:"completion_display"`
	Breakdown            BreakdownResponse   `json:"breakdown"`
	DiscountType         string              `json:"discount_type"`
	DiscountValue        decimal.Decimal     `json:"discount_value"`
	TaxType              string              `json:"tax_type"`
	TaxRate              decimal.Decimal     `json:"tax_rate"`
	Remark               string              `json:"remark,omitempty"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	CompletedAt          *time.Time          `json:"completed_at,omitempty"`
	CancelledAt          *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason         string              `json:"cancel_reason,omitempty"`
	Version              int                 `json:"version"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// FulfilmentEntryResponse describes one processed inward or dispatch line
type FulfilmentEntryResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// ToPurchaseOrderResponse converts a purchase order to its API representation.
// Display status and completion are derived as of today.
func ToPurchaseOrderResponse(order *trade.PurchaseOrder, today time.Time) PurchaseOrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = toOrderItemResponse(item.ID, item.ProductID, item.ProductName, item.ProductCode,
			item.Unit, item.RequiredQuantity, item.FulfilledQuantity, item.PendingQuantity(),
			item.UnitRate, item.LineTotal, item.Remark)
	}

	percent := order.CompletionPercentage()
	return PurchaseOrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		DueDate:              order.DueDate,
		Items:                items,
		ItemCount:            order.ItemCount(),
		Status:               order.Status.String(),
		DisplayStatus:        order.DisplayStatus(today).String(),
		CompletionPercentage: percent,
		CompletionDisplay:    ordercalc.ClampPercentage(percent),
		Breakdown:            ToBreakdownResponse(order.Breakdown()),
		DiscountType:         string(order.DiscountType),
		DiscountValue:        order.DiscountValue,
		TaxType:              string(order.TaxType),
		TaxRate:              order.TaxRate,
		Remark:               order.Remark,
		ApprovedAt:           order.ApprovedAt,
		CompletedAt:          order.CompletedAt,
		CancelledAt:          order.CancelledAt,
		CancelReason:         order.CancelReason,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToSalesOrderResponse converts a sales order to its API representation
func ToSalesOrderResponse(order *trade.SalesOrder, today time.Time) SalesOrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = toOrderItemResponse(item.ID, item.ProductID, item.ProductName, item.ProductCode,
			item.Unit, item.RequiredQuantity, item.FulfilledQuantity, item.PendingQuantity(),
			item.UnitRate, item.LineTotal, item.Remark)
	}

	percent := order.CompletionPercentage()
	return SalesOrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		CustomerID:           order.CustomerID,
		CustomerName:         order.CustomerName,
		DueDate:              order.DueDate,
		Items:                items,
		ItemCount:            order.ItemCount(),
		Status:               order.Status.String(),
		DisplayStatus:        order.DisplayStatus(today).String(),
		CompletionPercentage: percent,
		CompletionDisplay:    ordercalc.ClampPercentage(percent),
		Breakdown:            ToBreakdownResponse(order.Breakdown()),
		DiscountType:         string(order.DiscountType),
		DiscountValue:        order.DiscountValue,
		TaxType:              string(order.TaxType),
		TaxRate:              order.TaxRate,
		Remark:               order.Remark,
		ApprovedAt:           order.ApprovedAt,
		CompletedAt:          order.CompletedAt,
		CancelledAt:          order.CancelledAt,
		CancelReason:         order.CancelReason,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

func toOrderItemResponse(id, productID uuid.UUID, name, code string, unit ordercalc.Unit, required, fulfilled, pending, rate, lineTotal decimal.Decimal, remark string) OrderItemResponse {
	return OrderItemResponse{
		ID:                id,
		ProductID:         productID,
		ProductName:       name,
		ProductCode:       code,
		Unit:              unit.String(),
		UnitLabel:         unit.AbbreviationFor(required),
		RequiredQuantity:  required,
		FulfilledQuantity: fulfilled,
		PendingQuantity:   pending,
		UnitRate:          rate,
		LineTotal:         lineTotal,
		Remark:            remark,
	}
}

func toFulfilmentEntries(infos []trade.InwardInfo) []FulfilmentEntryResponse {
	entries := make([]FulfilmentEntryResponse, len(infos))
	for i, info := range infos {
		entries[i] = FulfilmentEntryResponse{
			ItemID:      info.ItemID,
			ProductID:   info.ProductID,
			ProductName: info.ProductName,
			Quantity:    info.Quantity,
			Unit:        info.Unit.String(),
			BatchNumber: info.BatchNumber,
		}
	}
	return entries
}

func toDispatchEntries(infos []trade.DispatchInfo) []FulfilmentEntryResponse {
	entries := make([]FulfilmentEntryResponse, len(infos))
	for i, info := range infos {
		entries[i] = FulfilmentEntryResponse{
			ItemID:      info.ItemID,
			ProductID:   info.ProductID,
			ProductName: info.ProductName,
			Quantity:    info.Quantity,
			Unit:        info.Unit.String(),
			BatchNumber: info.BatchNumber,
		}
	}
	return entries
}
