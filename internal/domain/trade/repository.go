package trade

import (
	"context"

	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock persists the order only if the stored version matches
	// expectedVersion, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *PurchaseOrder, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, error)
	FindByStatus(ctx context.Context, status ordercalc.Status, filter shared.Filter) ([]*PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	NextOrderNumber(ctx context.Context) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesOrderRepository defines persistence operations for sales orders
type SalesOrderRepository interface {
	Save(ctx context.Context, order *SalesOrder) error
	SaveWithLock(ctx context.Context, order *SalesOrder, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SalesOrder, error)
	FindByStatus(ctx context.Context, status ordercalc.Status, filter shared.Filter) ([]*SalesOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	NextOrderNumber(ctx context.Context) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
