package billing

import (
	"context"

	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice only if the stored version matches
	// expectedVersion, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, invoice *Invoice, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, error)
	FindByStatus(ctx context.Context, status InvoiceStatus, filter shared.Filter) ([]*Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
