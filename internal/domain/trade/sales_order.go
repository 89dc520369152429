package trade

import (
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	ProductCode       string          `gorm:"type:varchar(50);not null"`
	Unit              ordercalc.Unit  `gorm:"type:varchar(20);not null"`
	RequiredQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // quantity sold
	FulfilledQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // quantity dispatched so far
	UnitRate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // sale price per unit
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark            string          `gorm:"type:varchar(500)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a new sales order line item
func NewSalesOrderItem(orderID, productID uuid.UUID, productName, productCode string, unit ordercalc.Unit, quantity, unitRate decimal.Decimal) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown measuring unit")
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:                uuid.New(),
		OrderID:           orderID,
		ProductID:         productID,
		ProductName:       productName,
		ProductCode:       productCode,
		Unit:              unit,
		RequiredQuantity:  quantity,
		FulfilledQuantity: decimal.Zero,
		UnitRate:          unitRate,
		LineTotal:         quantity.Mul(unitRate),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateQuantity updates the sold quantity and recalculates the line total
func (i *SalesOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.RequiredQuantity = quantity
	i.LineTotal = quantity.Mul(i.UnitRate)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateRate updates the sale rate and recalculates the line total
func (i *SalesOrderItem) UpdateRate(unitRate decimal.Decimal) error {
	if unitRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
	}
	i.UnitRate = unitRate
	i.LineTotal = i.RequiredQuantity.Mul(unitRate)
	i.UpdatedAt = time.Now()
	return nil
}

// AddFulfilled adds dispatched quantity. Dispatching a little over the sold
// meterage is normal when cutting from a roll, so fulfilled may exceed required.
func (i *SalesOrderItem) AddFulfilled(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Dispatch quantity must be positive")
	}
	i.FulfilledQuantity = i.FulfilledQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// IsFullyFulfilled returns true once the full sold quantity has been dispatched
func (i *SalesOrderItem) IsFullyFulfilled() bool {
	return i.FulfilledQuantity.GreaterThanOrEqual(i.RequiredQuantity)
}

// PendingQuantity returns the quantity still to be dispatched (zero when over-dispatched)
func (i *SalesOrderItem) PendingQuantity() decimal.Decimal {
	pending := i.RequiredQuantity.Sub(i.FulfilledQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// DispatchItem represents a single line of a goods dispatch entry
type DispatchItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// DispatchInfo describes what was dispatched for one order item
type DispatchInfo struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Unit        ordercalc.Unit
	BatchNumber string
}

// SalesOrder represents a customer order from approval through goods dispatch
// to completion. Like the purchase side, OVERDUE is derived per read and never
// persisted.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName  string                 `gorm:"type:varchar(200);not null"`
	DueDate       *time.Time             `gorm:"index"` // promised delivery date
	Items         []SalesOrderItem       `gorm:"foreignKey:OrderID;references:ID"`
	ItemTotal     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountType  ordercalc.DiscountType `gorm:"type:varchar(20);not null;default:'NONE'"`
	DiscountValue decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxType       ordercalc.TaxType      `gorm:"type:varchar(20);not null;default:'NO_TAX'"`
	TaxRate       decimal.Decimal        `gorm:"type:decimal(9,4);not null;default:0"`
	Status        ordercalc.Status       `gorm:"type:varchar(20);not null;default:'APPROVAL_PENDING'"`
	Remark        string                 `gorm:"type:text"`
	ApprovedAt    *time.Time             `gorm:"index"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order pending approval
func NewSalesOrder(orderNumber string, customerID uuid.UUID, customerName string) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]SalesOrderItem, 0),
		ItemTotal:         decimal.Zero,
		DiscountType:      ordercalc.DiscountNone,
		DiscountValue:     decimal.Zero,
		TaxType:           ordercalc.TaxNone,
		TaxRate:           decimal.Zero,
		Status:            ordercalc.StatusApprovalPending,
	}, nil
}

// CanModify returns true while line items and policies may still change
func (o *SalesOrder) CanModify() bool {
	return o.Status == ordercalc.StatusApprovalPending
}

// AddItem adds a new line item. Only allowed before approval.
func (o *SalesOrder) AddItem(productID uuid.UUID, productName, productCode string, unit ordercalc.Unit, quantity, unitRate decimal.Decimal) (*SalesOrderItem, error) {
	if !o.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items after approval")
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, productCode, unit, quantity, unitRate)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateItemTotal()
	o.touch()
	return item, nil
}

// UpdateItemQuantity updates the sold quantity of an existing item
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items after approval")
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateItemTotal()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item. Only allowed before approval.
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items after approval")
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateItemTotal()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetDueDate sets the promised delivery date
func (o *SalesOrder) SetDueDate(dueDate *time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change due date of a closed order")
	}
	o.DueDate = dueDate
	o.touch()
	return nil
}

// SetDiscount sets the order-level discount policy. Only allowed before approval.
func (o *SalesOrder) SetDiscount(policy ordercalc.DiscountPolicy) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount after approval")
	}
	if !policy.Type.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type")
	}
	if policy.Value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount value cannot be negative")
	}
	o.DiscountType = policy.Type
	o.DiscountValue = policy.Value
	o.touch()
	return nil
}

// SetTax sets the order-level tax policy. Only allowed before approval.
func (o *SalesOrder) SetTax(policy ordercalc.TaxPolicy) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax after approval")
	}
	if !policy.Type.IsValid() {
		return shared.NewDomainError("INVALID_TAX", "Unknown tax type")
	}
	if policy.Rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax rate cannot be negative")
	}
	o.TaxType = policy.Type
	o.TaxRate = policy.Rate
	o.touch()
	return nil
}

// SetRemark sets the order remark
func (o *SalesOrder) SetRemark(remark string) {
	o.Remark = remark
	o.touch()
}

// Approve transitions the order from APPROVAL_PENDING to IN_PROGRESS.
// Requires at least one line item.
func (o *SalesOrder) Approve() error {
	if !o.Status.CanTransitionTo(ordercalc.StatusInProgress) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot approve order in %s status", o.Status)
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve order without items")
	}

	now := time.Now()
	o.Status = ordercalc.StatusInProgress
	o.ApprovedAt = &now
	o.touch()
	return nil
}

// RecordDispatch processes a goods dispatch entry against one or more items.
// Allowed only while IN_PROGRESS. Completes the order once every item has
// its full sold quantity dispatched.
func (o *SalesOrder) RecordDispatch(dispatchItems []DispatchItem) ([]DispatchInfo, error) {
	if o.Status != ordercalc.StatusInProgress {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Cannot record dispatch for order in %s status", o.Status)
	}
	if len(dispatchItems) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Dispatch items cannot be empty")
	}

	infos := make([]DispatchInfo, 0, len(dispatchItems))
	for _, out := range dispatchItems {
		item := o.GetItemByProduct(out.ProductID)
		if item == nil {
			return nil, shared.NewDomainErrorf("ITEM_NOT_FOUND", "Product %s not found in order", out.ProductID)
		}
		if err := item.AddFulfilled(out.Quantity); err != nil {
			return nil, err
		}
		infos = append(infos, DispatchInfo{
			ItemID:      item.ID,
			ProductID:   out.ProductID,
			ProductName: item.ProductName,
			Quantity:    out.Quantity,
			Unit:        item.Unit,
			BatchNumber: out.BatchNumber,
		})
	}

	if o.allItemsFulfilled() {
		now := time.Now()
		o.Status = ordercalc.StatusCompleted
		o.CompletedAt = &now
	}
	o.touch()
	return infos, nil
}

// Cancel cancels the order. Not allowed once goods have been dispatched.
func (o *SalesOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(ordercalc.StatusCancelled) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel order in %s status", o.Status)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasAnyFulfilment() {
		return shared.NewDomainError("ALREADY_DISPATCHED", "Cannot cancel order after goods have been dispatched")
	}

	now := time.Now()
	o.Status = ordercalc.StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.touch()
	return nil
}

// DiscountPolicy returns the order's discount policy
func (o *SalesOrder) DiscountPolicy() ordercalc.DiscountPolicy {
	return ordercalc.DiscountPolicy{Type: o.DiscountType, Value: o.DiscountValue}
}

// TaxPolicy returns the order's tax policy
func (o *SalesOrder) TaxPolicy() ordercalc.TaxPolicy {
	return ordercalc.TaxPolicy{Type: o.TaxType, Rate: o.TaxRate}
}

// CalcItems maps line items into the abstract shape the calculators consume
func (o *SalesOrder) CalcItems() []ordercalc.LineItem {
	items := make([]ordercalc.LineItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = ordercalc.LineItem{
			Required:  item.RequiredQuantity,
			Fulfilled: item.FulfilledQuantity,
		}
	}
	return items
}

// CompletionPercentage returns the aggregate dispatch progress, uncapped
func (o *SalesOrder) CompletionPercentage() int {
	return ordercalc.CompletionPercentage(o.CalcItems())
}

// DisplayStatus derives the status shown to users as of today
func (o *SalesOrder) DisplayStatus(today time.Time) ordercalc.Status {
	return ordercalc.DisplayStatus(o.Status, o.DueDate, today)
}

// Breakdown computes the financial breakdown from the current items and policies
func (o *SalesOrder) Breakdown() ordercalc.Breakdown {
	return ordercalc.ComputeBreakdown(o.ItemTotal, o.DiscountPolicy(), o.TaxPolicy())
}

// GetItem returns an item by its ID
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (o *SalesOrder) GetItemByProduct(productID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (o *SalesOrder) ItemCount() int {
	return len(o.Items)
}

func (o *SalesOrder) recalculateItemTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal)
	}
	o.ItemTotal = total
}

func (o *SalesOrder) allItemsFulfilled() bool {
	for _, item := range o.Items {
		if !item.IsFullyFulfilled() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *SalesOrder) hasAnyFulfilment() bool {
	for _, item := range o.Items {
		if item.FulfilledQuantity.IsPositive() {
			return true
		}
	}
	return false
}

func (o *SalesOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
