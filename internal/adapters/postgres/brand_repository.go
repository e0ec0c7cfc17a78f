package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

// BrandRepository implements ports.BrandRepository on PostgreSQL
type BrandRepository struct {
	db ports.DBPort
}

// NewBrandRepository creates a new brand repository
func NewBrandRepository(db ports.DBPort) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) q(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Create inserts a new brand
func (r *BrandRepository) Create(ctx context.Context, tx ports.DBTX, brand *models.Brand) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO brands (id, name, contact_email, status, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		brand.ID, brand.Name, nullText(brand.ContactEmail), string(brand.Status),
		brand.Currency, brand.CreatedAt, brand.UpdatedAt,
	)
	if err != nil {
		return apperrors.Persistence(err, "create brand")
	}
	return nil
}

// GetByID retrieves a brand by ID
func (r *BrandRepository) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Brand, error) {
	var (
		brand models.Brand
		email pgtype.Text
		state string
	)
	err := r.q(db).QueryRow(ctx, `
		SELECT id, name, contact_email, status, currency, created_at, updated_at
		FROM brands WHERE id = $1`, id,
	).Scan(&brand.ID, &brand.Name, &email, &state, &brand.Currency, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, apperrors.Persistence(err, "get brand")
	}
	brand.ContactEmail = email.String
	brand.Status = models.BrandStatus(state)
	return &brand, nil
}

// List lists brands, optionally filtered by status
func (r *BrandRepository) List(ctx context.Context, db ports.DBTX, status models.BrandStatus, limit, offset int32) ([]*models.Brand, error) {
	query := `
		SELECT id, name, contact_email, status, currency, created_at, updated_at
		FROM brands`
	args := []interface{}{limit, offset}
	if status != "" {
		query += ` WHERE status = $3`
		args = append(args, string(status))
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.q(db).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence(err, "list brands")
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		var (
			brand models.Brand
			email pgtype.Text
			state string
		)
		if err := rows.Scan(&brand.ID, &brand.Name, &email, &state, &brand.Currency, &brand.CreatedAt, &brand.UpdatedAt); err != nil {
			return nil, apperrors.Persistence(err, "scan brand")
		}
		brand.ContactEmail = email.String
		brand.Status = models.BrandStatus(state)
		brands = append(brands, &brand)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "scan brands")
	}
	return brands, nil
}

// Update persists brand attribute changes
func (r *BrandRepository) Update(ctx context.Context, tx ports.DBTX, brand *models.Brand) error {
	tag, err := r.q(tx).Exec(ctx, `
		UPDATE brands SET name = $2, contact_email = $3, currency = $4, updated_at = now()
		WHERE id = $1`,
		brand.ID, brand.Name, nullText(brand.ContactEmail), brand.Currency,
	)
	if err != nil {
		return apperrors.Persistence(err, "update brand")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("brand", brand.ID)
	}
	return nil
}

// UpdateStatus changes only the brand lifecycle status
func (r *BrandRepository) UpdateStatus(ctx context.Context, tx ports.DBTX, id string, status models.BrandStatus) error {
	tag, err := r.q(tx).Exec(ctx,
		`UPDATE brands SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return apperrors.Persistence(err, "update brand status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("brand", id)
	}
	return nil
}

// UpsertTerms creates or replaces a brand's commercial terms
func (r *BrandRepository) UpsertTerms(ctx context.Context, tx ports.DBTX, terms *models.BrandTerms) error {
	vat, err := nullNumeric(terms.VATRate)
	if err != nil {
		return err
	}
	breakage, err := nullNumeric(terms.BreakageShare)
	if err != nil {
		return err
	}

	_, err = r.q(tx).Exec(ctx, `
		INSERT INTO brand_terms (
			brand_id, settlement_trigger, commission_type, commission_value,
			vat_rate, breakage_share, contract_start, contract_end, currency,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (brand_id) DO UPDATE SET
			settlement_trigger = EXCLUDED.settlement_trigger,
			commission_type = EXCLUDED.commission_type,
			commission_value = EXCLUDED.commission_value,
			vat_rate = EXCLUDED.vat_rate,
			breakage_share = EXCLUDED.breakage_share,
			contract_start = EXCLUDED.contract_start,
			contract_end = EXCLUDED.contract_end,
			currency = EXCLUDED.currency,
			updated_at = now()`,
		terms.BrandID, string(terms.SettlementTrigger), string(terms.CommissionType),
		terms.CommissionValue, vat, breakage, terms.ContractStart,
		nullTime(terms.ContractEnd), terms.Currency,
	)
	if err != nil {
		return apperrors.Persistence(err, "upsert brand terms")
	}
	return nil
}

// GetTerms retrieves a brand's commercial terms
func (r *BrandRepository) GetTerms(ctx context.Context, db ports.DBTX, brandID string) (*models.BrandTerms, error) {
	var (
		terms       models.BrandTerms
		trigger     string
		commType    string
		vat         pgtype.Numeric
		breakage    pgtype.Numeric
		contractEnd pgtype.Timestamptz
	)
	err := r.q(db).QueryRow(ctx, `
		SELECT brand_id, settlement_trigger, commission_type, commission_value,
			vat_rate, breakage_share, contract_start, contract_end, currency,
			created_at, updated_at
		FROM brand_terms WHERE brand_id = $1`, brandID,
	).Scan(&terms.BrandID, &trigger, &commType, &terms.CommissionValue,
		&vat, &breakage, &terms.ContractStart, &contractEnd, &terms.Currency,
		&terms.CreatedAt, &terms.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("brand terms", brandID)
		}
		return nil, apperrors.Persistence(err, "get brand terms")
	}

	terms.SettlementTrigger = models.SettlementTrigger(trigger)
	terms.CommissionType = models.CommissionType(commType)
	terms.ContractEnd = timePtr(contractEnd)
	if terms.VATRate, err = numericToDecimalPtr(vat); err != nil {
		return nil, err
	}
	if terms.BreakageShare, err = numericToDecimalPtr(breakage); err != nil {
		return nil, err
	}
	return &terms, nil
}
