package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

// VoucherRepository implements ports.VoucherRepository on PostgreSQL
type VoucherRepository struct {
	db ports.DBPort
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db ports.DBPort) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) q(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// SummarizeActivity aggregates a brand's voucher activity over the half-open
// period [periodStart, periodEnd).
//
// Issued totals count vouchers issued in the period. Redeemed totals recognize
// redemption value at redemption time. Outstanding covers unredeemed,
// unexpired vouchers issued before the period end. Breakage is the remaining
// value on vouchers that expired unredeemed during the period.
func (r *VoucherRepository) SummarizeActivity(ctx context.Context, db ports.DBTX, brandID string, periodStart, periodEnd time.Time) (*models.VoucherActivity, error) {
	activity := &models.VoucherActivity{
		BrandID:     brandID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	err := r.q(db).QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE issued_at >= $2 AND issued_at < $3),
			COALESCE(SUM(original_value) FILTER (WHERE issued_at >= $2 AND issued_at < $3), 0),
			COUNT(*) FILTER (WHERE redeemed_at >= $2 AND redeemed_at < $3),
			COALESCE(SUM(original_value - remaining_value) FILTER (WHERE redeemed_at >= $2 AND redeemed_at < $3), 0),
			COUNT(*) FILTER (WHERE NOT is_redeemed AND expires_at >= $3 AND issued_at < $3),
			COALESCE(SUM(remaining_value) FILTER (WHERE NOT is_redeemed AND expires_at >= $3 AND issued_at < $3), 0),
			COALESCE(SUM(remaining_value) FILTER (WHERE NOT is_redeemed AND expires_at >= $2 AND expires_at < $3), 0)
		FROM voucher_codes
		WHERE brand_id = $1`,
		brandID, periodStart, periodEnd,
	).Scan(
		&activity.TotalIssued, &activity.TotalIssuedValue,
		&activity.TotalRedeemed, &activity.TotalRedeemedValue,
		&activity.OutstandingCount, &activity.OutstandingAmount,
		&activity.TotalBreakageValue,
	)
	if err != nil {
		return nil, apperrors.Persistence(err, "summarize voucher activity")
	}

	return activity, nil
}

// GetByCode retrieves a voucher by its code
func (r *VoucherRepository) GetByCode(ctx context.Context, db ports.DBTX, code string) (*models.VoucherCode, error) {
	row := r.q(db).QueryRow(ctx, `
		SELECT id, brand_id, code, original_value, remaining_value, is_redeemed,
			redemption_count, issued_at, redeemed_at, expires_at
		FROM voucher_codes WHERE code = $1`, code)

	voucher, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("voucher", code)
		}
		return nil, apperrors.Persistence(err, "get voucher")
	}
	return voucher, nil
}

// ListByBrand lists a brand's vouchers, most recently issued first
func (r *VoucherRepository) ListByBrand(ctx context.Context, db ports.DBTX, brandID string, limit, offset int32) ([]*models.VoucherCode, error) {
	rows, err := r.q(db).Query(ctx, `
		SELECT id, brand_id, code, original_value, remaining_value, is_redeemed,
			redemption_count, issued_at, redeemed_at, expires_at
		FROM voucher_codes
		WHERE brand_id = $1 ORDER BY issued_at DESC LIMIT $2 OFFSET $3`,
		brandID, limit, offset)
	if err != nil {
		return nil, apperrors.Persistence(err, "list vouchers")
	}
	defer rows.Close()

	var vouchers []*models.VoucherCode
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			return nil, apperrors.Persistence(err, "scan voucher")
		}
		vouchers = append(vouchers, voucher)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "scan vouchers")
	}
	return vouchers, nil
}

func scanVoucher(row pgx.Row) (*models.VoucherCode, error) {
	var (
		voucher    models.VoucherCode
		redeemedAt pgtype.Timestamptz
	)
	err := row.Scan(&voucher.ID, &voucher.BrandID, &voucher.Code,
		&voucher.OriginalValue, &voucher.RemainingValue, &voucher.IsRedeemed,
		&voucher.RedemptionCount, &voucher.IssuedAt, &redeemedAt, &voucher.ExpiresAt)
	if err != nil {
		return nil, err
	}
	voucher.RedeemedAt = timePtr(redeemedAt)
	return &voucher, nil
}
