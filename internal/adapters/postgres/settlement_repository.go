package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

const settlementColumns = `id, brand_id, period_start, period_end, currency,
	total_sold, total_sold_amount, total_redeemed, redeemed_amount,
	outstanding, outstanding_amount, commission_amount, breakage_amount,
	vat_amount, net_payable, total_paid, remaining_amount, status,
	payment_count, payment_history, last_payment_date, created_at, updated_at`

// SettlementRepository implements ports.SettlementRepository on PostgreSQL
type SettlementRepository struct {
	db ports.DBPort
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db ports.DBPort) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// q returns the executor to run against: the supplied transaction, or the
// pool when called outside one
func (r *SettlementRepository) q(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Create inserts a new settlement record
func (r *SettlementRepository) Create(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	history, err := json.Marshal(st.PaymentHistory)
	if err != nil {
		return fmt.Errorf("marshal payment history: %w", err)
	}
	if st.PaymentHistory == nil {
		history = []byte("[]")
	}

	_, err = r.q(tx).Exec(ctx, `
		INSERT INTO settlements (`+settlementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		st.ID, st.BrandID, st.PeriodStart, st.PeriodEnd, st.Currency,
		st.TotalSold, st.TotalSoldAmount, st.TotalRedeemed, st.RedeemedAmount,
		st.Outstanding, st.OutstandingAmount, st.CommissionAmount, st.BreakageAmount,
		st.VATAmount, st.NetPayable, st.TotalPaid, st.RemainingAmount, string(st.Status),
		st.PaymentCount, history, nullTime(st.LastPaymentDate), st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return apperrors.Persistence(err, "create settlement")
	}
	return nil
}

// GetByID retrieves a settlement by ID
func (r *SettlementRepository) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Settlement, error) {
	row := r.q(db).QueryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id)
	return r.scan(row, id)
}

// GetByIDForUpdate retrieves a settlement and locks its row until the
// enclosing transaction ends. Must be called with a transaction executor.
func (r *SettlementRepository) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id string) (*models.Settlement, error) {
	row := r.q(tx).QueryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = $1 FOR UPDATE`, id)
	return r.scan(row, id)
}

// GetByBrandAndPeriod retrieves the settlement for an exact brand and period
func (r *SettlementRepository) GetByBrandAndPeriod(ctx context.Context, db ports.DBTX, brandID string, periodStart, periodEnd time.Time) (*models.Settlement, error) {
	row := r.q(db).QueryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE brand_id = $1 AND period_start = $2 AND period_end = $3`,
		brandID, periodStart, periodEnd)
	return r.scan(row, brandID)
}

// ListByBrand lists a brand's settlements, newest period first
func (r *SettlementRepository) ListByBrand(ctx context.Context, db ports.DBTX, brandID string, limit, offset int32) ([]*models.Settlement, error) {
	rows, err := r.q(db).Query(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE brand_id = $1 ORDER BY period_start DESC LIMIT $2 OFFSET $3`,
		brandID, limit, offset)
	if err != nil {
		return nil, apperrors.Persistence(err, "list settlements by brand")
	}
	return r.collect(rows)
}

// ListByStatus lists settlements in a given status, newest period first
func (r *SettlementRepository) ListByStatus(ctx context.Context, db ports.DBTX, status models.SettlementStatus, limit, offset int32) ([]*models.Settlement, error) {
	rows, err := r.q(db).Query(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE status = $1 ORDER BY period_start DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, apperrors.Persistence(err, "list settlements by status")
	}
	return r.collect(rows)
}

// List lists all settlements, newest period first
func (r *SettlementRepository) List(ctx context.Context, db ports.DBTX, limit, offset int32) ([]*models.Settlement, error) {
	rows, err := r.q(db).Query(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 ORDER BY period_start DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, apperrors.Persistence(err, "list settlements")
	}
	return r.collect(rows)
}

// Update persists recalculated figures for a settlement
func (r *SettlementRepository) Update(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	tag, err := r.q(tx).Exec(ctx, `
		UPDATE settlements SET
			total_sold = $2, total_sold_amount = $3, total_redeemed = $4,
			redeemed_amount = $5, outstanding = $6, outstanding_amount = $7,
			commission_amount = $8, breakage_amount = $9, vat_amount = $10,
			net_payable = $11, remaining_amount = $12, updated_at = $13
		WHERE id = $1`,
		st.ID, st.TotalSold, st.TotalSoldAmount, st.TotalRedeemed,
		st.RedeemedAmount, st.Outstanding, st.OutstandingAmount,
		st.CommissionAmount, st.BreakageAmount, st.VATAmount,
		st.NetPayable, st.RemainingAmount, st.UpdatedAt,
	)
	if err != nil {
		return apperrors.Persistence(err, "update settlement")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", st.ID)
	}
	return nil
}

// ApplyPayment persists the payment-tracking fields after a payment
func (r *SettlementRepository) ApplyPayment(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	history, err := json.Marshal(st.PaymentHistory)
	if err != nil {
		return fmt.Errorf("marshal payment history: %w", err)
	}

	tag, err := r.q(tx).Exec(ctx, `
		UPDATE settlements SET
			total_paid = $2, remaining_amount = $3, status = $4,
			payment_count = $5, payment_history = $6, last_payment_date = $7,
			updated_at = now()
		WHERE id = $1`,
		st.ID, st.TotalPaid, st.RemainingAmount, string(st.Status),
		st.PaymentCount, history, nullTime(st.LastPaymentDate),
	)
	if err != nil {
		return apperrors.Persistence(err, "apply payment")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", st.ID)
	}
	return nil
}

// UpdateStatus updates only the status column
func (r *SettlementRepository) UpdateStatus(ctx context.Context, tx ports.DBTX, id string, status models.SettlementStatus) error {
	tag, err := r.q(tx).Exec(ctx,
		`UPDATE settlements SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return apperrors.Persistence(err, "update settlement status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", id)
	}
	return nil
}

func (r *SettlementRepository) collect(rows pgx.Rows) ([]*models.Settlement, error) {
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "scan settlements")
	}
	return settlements, nil
}

func (r *SettlementRepository) scan(row pgx.Row, id string) (*models.Settlement, error) {
	st, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("settlement", id)
		}
		return nil, err
	}
	return st, nil
}

func (r *SettlementRepository) scanRow(row pgx.Row) (*models.Settlement, error) {
	var (
		st          models.Settlement
		status      string
		history     []byte
		lastPayment pgtype.Timestamptz
	)

	err := row.Scan(
		&st.ID, &st.BrandID, &st.PeriodStart, &st.PeriodEnd, &st.Currency,
		&st.TotalSold, &st.TotalSoldAmount, &st.TotalRedeemed, &st.RedeemedAmount,
		&st.Outstanding, &st.OutstandingAmount, &st.CommissionAmount, &st.BreakageAmount,
		&st.VATAmount, &st.NetPayable, &st.TotalPaid, &st.RemainingAmount, &status,
		&st.PaymentCount, &history, &lastPayment, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Persistence(err, "scan settlement")
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &st.PaymentHistory); err != nil {
			return nil, fmt.Errorf("unmarshal payment history: %w", err)
		}
	}
	st.Status = models.SettlementStatus(status)
	st.LastPaymentDate = timePtr(lastPayment)
	st.PeriodStart = st.PeriodStart.UTC()
	st.PeriodEnd = st.PeriodEnd.UTC()

	return &st, nil
}
