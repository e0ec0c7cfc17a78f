package brand

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

var hundred = decimal.NewFromInt(100)

// Service manages brand partners and their commercial terms
type Service struct {
	db     ports.DBPort
	brands ports.BrandRepository
	logger ports.Logger
}

// NewService creates a new brand service
func NewService(db ports.DBPort, brands ports.BrandRepository, logger ports.Logger) *Service {
	return &Service{db: db, brands: brands, logger: logger}
}

// CreateInput carries the fields needed to register a brand
type CreateInput struct {
	Name         string
	ContactEmail string
	Currency     string
}

// Create registers a new brand partner in active state
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Brand, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if len(currency) != 3 {
		return nil, apperrors.Validation("currency", "must be a 3-letter code")
	}

	now := timeutil.Now()
	brand := &models.Brand{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		Status:       models.BrandActive,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.brands.Create(ctx, nil, brand); err != nil {
		return nil, err
	}

	s.logger.Info("brand created",
		ports.String("brand_id", brand.ID),
		ports.String("name", brand.Name))
	return brand, nil
}

// GetByID retrieves a brand
func (s *Service) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	if id == "" {
		return nil, apperrors.Validation("id", "is required")
	}
	return s.brands.GetByID(ctx, nil, id)
}

// List lists brands, optionally filtered by status
func (s *Service) List(ctx context.Context, status models.BrandStatus, limit, offset int32) ([]*models.Brand, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.brands.List(ctx, nil, status, limit, offset)
}

// UpdateInput carries mutable brand attributes; empty fields are unchanged
type UpdateInput struct {
	Name         string
	ContactEmail string
	Currency     string
}

// Update modifies brand attributes
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Brand, error) {
	if id == "" {
		return nil, apperrors.Validation("id", "is required")
	}

	brand, err := s.brands.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		brand.Name = name
	}
	if in.ContactEmail != "" {
		brand.ContactEmail = strings.TrimSpace(in.ContactEmail)
	}
	if in.Currency != "" {
		currency := strings.ToUpper(strings.TrimSpace(in.Currency))
		if len(currency) != 3 {
			return nil, apperrors.Validation("currency", "must be a 3-letter code")
		}
		brand.Currency = currency
	}

	if err := s.brands.Update(ctx, nil, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// Archive retires a brand. Archived brands keep their settlements and terms
// but no longer generate new ones.
func (s *Service) Archive(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id", "is required")
	}
	if err := s.brands.UpdateStatus(ctx, nil, id, models.BrandArchived); err != nil {
		return err
	}
	s.logger.Info("brand archived", ports.String("brand_id", id))
	return nil
}

// SetTerms validates and upserts a brand's commercial terms.
// Terms are one-to-one with the brand and never deleted independently.
func (s *Service) SetTerms(ctx context.Context, terms *models.BrandTerms) (*models.BrandTerms, error) {
	if terms.BrandID == "" {
		return nil, apperrors.Validation("brand_id", "is required")
	}
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		brand, err := s.brands.GetByID(ctx, tx, terms.BrandID)
		if err != nil {
			return err
		}
		if terms.Currency == "" {
			terms.Currency = brand.Currency
		}
		return s.brands.UpsertTerms(ctx, tx, terms)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("brand terms updated",
		ports.String("brand_id", terms.BrandID),
		ports.String("commission_type", string(terms.CommissionType)),
		ports.String("trigger", string(terms.SettlementTrigger)))
	return terms, nil
}

// GetTerms retrieves a brand's commercial terms
func (s *Service) GetTerms(ctx context.Context, brandID string) (*models.BrandTerms, error) {
	if brandID == "" {
		return nil, apperrors.Validation("brand_id", "is required")
	}
	return s.brands.GetTerms(ctx, nil, brandID)
}

func validateTerms(terms *models.BrandTerms) error {
	switch terms.SettlementTrigger {
	case models.TriggerOnRedemption, models.TriggerOnPurchase:
	default:
		return apperrors.Validation("settlement_trigger", "unknown trigger "+string(terms.SettlementTrigger))
	}
	switch terms.CommissionType {
	case models.CommissionPercentage, models.CommissionFixed:
	default:
		return apperrors.Validation("commission_type", "unknown commission type "+string(terms.CommissionType))
	}
	if terms.CommissionValue.IsNegative() {
		return apperrors.Validation("commission_value", "must not be negative")
	}
	if terms.CommissionType == models.CommissionPercentage && terms.CommissionValue.GreaterThan(hundred) {
		return apperrors.Validation("commission_value", "percentage commission must be between 0 and 100")
	}
	if terms.VATRate != nil && (terms.VATRate.IsNegative() || terms.VATRate.GreaterThan(hundred)) {
		return apperrors.Validation("vat_rate", "must be between 0 and 100")
	}
	if terms.BreakageShare != nil && (terms.BreakageShare.IsNegative() || terms.BreakageShare.GreaterThan(hundred)) {
		return apperrors.Validation("breakage_share", "must be between 0 and 100")
	}
	if terms.ContractStart.IsZero() {
		return apperrors.Validation("contract_start", "is required")
	}
	if terms.ContractEnd != nil && !terms.ContractEnd.After(terms.ContractStart) {
		return apperrors.Validation("contract_end", "must be after contract_start")
	}
	return nil
}
