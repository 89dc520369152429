package catalog

import (
	"time"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a fabric product (roll stock, cut pieces, or
// batch-labelled lots)
type Product struct {
	shared.BaseAggregateRoot
	Name                string                        `gorm:"type:varchar(200);not null"`
	Code                string                        `gorm:"type:varchar(50);not null;uniqueIndex"`
	HSNCode             string                        `gorm:"type:varchar(20)"`
	StockClassification ordercalc.StockClassification `gorm:"type:varchar(20);not null"`
	// MeasuringUnit is the unit stored on the product row. It only governs
	// aggregation for roll stock; piece and batch stock are always counted.
	MeasuringUnit ordercalc.Unit  `gorm:"type:varchar(20)"`
	SaleRate      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostRate      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, code string, classification ordercalc.StockClassification, unit ordercalc.Unit) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if !classification.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLASSIFICATION", "Unknown stock classification")
	}

	return &Product{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		Code:                code,
		StockClassification: classification,
		MeasuringUnit:       unit,
		SaleRate:            decimal.Zero,
		CostRate:            decimal.Zero,
		Active:              true,
	}, nil
}

// CanonicalUnit resolves the unit this product's quantities are aggregated
// in. A stale stored unit never leaks into aggregation for counted stock.
func (p *Product) CanonicalUnit() ordercalc.Unit {
	return ordercalc.CanonicalUnit(p.StockClassification, p.MeasuringUnit)
}

// FormatQuantity renders a quantity with this product's canonical unit
func (p *Product) FormatQuantity(quantity decimal.Decimal) string {
	return p.CanonicalUnit().FormatQuantity(quantity)
}

// UpdateRates updates the sale and cost rates
func (p *Product) UpdateRates(saleRate, costRate decimal.Decimal) error {
	if saleRate.IsNegative() || costRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	p.SaleRate = saleRate
	p.CostRate = costRate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Rename changes the display name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetHSNCode sets the HSN code used on tax invoices
func (p *Product) SetHSNCode(code string) {
	p.HSNCode = code
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate marks the product inactive so it no longer appears in order forms
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate marks the product active again
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
