package ports

import (
	"context"
	"time"

	"github.com/giftbridge/settlement-service/internal/domain/models"
)

// VoucherRepository aggregates voucher activity for settlement generation.
// Vouchers are read-only inputs here; issuance and redemption are recorded
// upstream by the storefront integration.
type VoucherRepository interface {
	// SummarizeActivity aggregates issued, redeemed, outstanding and breakage
	// totals for a brand over [periodStart, periodEnd).
	SummarizeActivity(ctx context.Context, db DBTX, brandID string, periodStart, periodEnd time.Time) (*models.VoucherActivity, error)

	GetByCode(ctx context.Context, db DBTX, code string) (*models.VoucherCode, error)
	ListByBrand(ctx context.Context, db DBTX, brandID string, limit, offset int32) ([]*models.VoucherCode, error)
}
