package catalog

import (
	"time"

	"github.com/fabricerp/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name                string           `json:"name" binding:"required,min=1,max=200"`
	Code                string           `json:"code" binding:"required,min=1,max=50"`
	HSNCode             string           `json:"hsn_code" binding:"max=20"`
	StockClassification string           `json:"stock_classification" binding:"required,oneof=ROLL PIECE BATCH"`
	MeasuringUnit       string           `json:"measuring_unit" binding:"omitempty,oneof=METER KILOGRAM PIECE UNIT"`
	SaleRate            *decimal.Decimal `json:"sale_rate"`
	CostRate            *decimal.Decimal `json:"cost_rate"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name     *string          `json:"name" binding:"omitempty,min=1,max=200"`
	HSNCode  *string          `json:"hsn_code" binding:"omitempty,max=20"`
	SaleRate *decimal.Decimal `json:"sale_rate"`
	CostRate *decimal.Decimal `json:"cost_rate"`
	Active   *bool            `json:"active"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Code                string          `json:"code"`
	HSNCode             string          `json:"hsn_code,omitempty"`
	StockClassification string          `json:"stock_classification"`
	MeasuringUnit       string          `json:"measuring_unit"` // stored unit
	CanonicalUnit       string          `json:"canonical_unit"` // resolved from classification
	UnitAbbreviation    string          `json:"unit_abbreviation"`
	SaleRate            decimal.Decimal `json:"sale_rate"`
	CostRate            decimal.Decimal `json:"cost_rate"`
	Active              bool            `json:"active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	canonical := product.CanonicalUnit()
	return ProductResponse{
		ID:                  product.ID,
		Name:                product.Name,
		Code:                product.Code,
		HSNCode:             product.HSNCode,
		StockClassification: string(product.StockClassification),
		MeasuringUnit:       product.MeasuringUnit.String(),
		CanonicalUnit:       canonical.String(),
		UnitAbbreviation:    canonical.Abbreviation(),
		SaleRate:            product.SaleRate,
		CostRate:            product.CostRate,
		Active:              product.Active,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
}
