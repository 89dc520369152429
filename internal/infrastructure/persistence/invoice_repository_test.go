package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fabricerp/backend/internal/domain/billing"
	"github.com/fabricerp/backend/internal/domain/ordercalc"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "invoice_number", "customer_id", "customer_name",
			"invoice_date", "item_total", "total_amount", "amount_received",
			"status", "payments", "version",
		}).AddRow(
			invoiceID, "INV-2026-0001", customerID, "Mehta Garments",
			time.Now(), decimal.NewFromInt(5000), decimal.NewFromInt(5040), decimal.Zero,
			"PENDING", "[]", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE invoice_number = \$1`).
			WithArgs("INV-2026-0001", 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByInvoiceNumber(context.Background(), "INV-2026-0001")
		require.NoError(t, err)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, billing.InvoiceStatusPending, invoice.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing invoice to domain not found", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), invoiceID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_CountHonorsStatusFilter(t *testing.T) {
	repo, mock, mockDB := newMockInvoiceRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE status = \$1`).
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	total, err := repo.Count(context.Background(), shared.Filter{
		Filters: map[string]interface{}{"status": "PENDING"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_SaveWithLockConflict(t *testing.T) {
	repo, mock, mockDB := newMockInvoiceRepository(t)
	defer mockDB.Close()

	invoice, err := billing.NewInvoice("INV-2026-0001", uuid.New(), "Mehta Garments",
		decimal.NewFromInt(1000), ordercalc.NoDiscount(), ordercalc.NoTax(), time.Now())
	require.NoError(t, err)

	// stale version: UPDATE matches no rows
	mock.ExpectExec(`UPDATE "invoices" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveWithLock(context.Background(), invoice, 1)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
