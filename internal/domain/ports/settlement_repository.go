package ports

import (
	"context"
	"time"

	"github.com/giftbridge/settlement-service/internal/domain/models"
)

// SettlementRepository defines persistence for settlement records
type SettlementRepository interface {
	Create(ctx context.Context, tx DBTX, settlement *models.Settlement) error
	GetByID(ctx context.Context, db DBTX, id string) (*models.Settlement, error)

	// GetByIDForUpdate locks the settlement row for the duration of the
	// enclosing transaction. Payment processing must read through this so
	// concurrent payments against the same settlement serialize.
	GetByIDForUpdate(ctx context.Context, tx DBTX, id string) (*models.Settlement, error)

	GetByBrandAndPeriod(ctx context.Context, db DBTX, brandID string, periodStart, periodEnd time.Time) (*models.Settlement, error)
	ListByBrand(ctx context.Context, db DBTX, brandID string, limit, offset int32) ([]*models.Settlement, error)
	ListByStatus(ctx context.Context, db DBTX, status models.SettlementStatus, limit, offset int32) ([]*models.Settlement, error)
	List(ctx context.Context, db DBTX, limit, offset int32) ([]*models.Settlement, error)

	// Update persists recalculated figures for a settlement without payments
	Update(ctx context.Context, tx DBTX, settlement *models.Settlement) error

	// ApplyPayment persists the payment-tracking fields after a payment
	ApplyPayment(ctx context.Context, tx DBTX, settlement *models.Settlement) error

	UpdateStatus(ctx context.Context, tx DBTX, id string, status models.SettlementStatus) error
}
