package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
	"github.com/giftbridge/settlement-service/pkg/observability"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

// Service generates settlements from voucher activity and manages their
// payment lifecycle
type Service struct {
	db          ports.DBPort
	settlements ports.SettlementRepository
	brands      ports.BrandRepository
	vouchers    ports.VoucherRepository
	logger      ports.Logger
}

// NewService creates a new settlement service
func NewService(
	db ports.DBPort,
	settlements ports.SettlementRepository,
	brands ports.BrandRepository,
	vouchers ports.VoucherRepository,
	logger ports.Logger,
) *Service {
	return &Service{
		db:          db,
		settlements: settlements,
		brands:      brands,
		vouchers:    vouchers,
		logger:      logger,
	}
}

// Generate aggregates a brand's voucher activity for the period, runs the
// settlement calculation and persists the result.
//
// A settlement is unique per brand and period. Regenerating an existing
// Pending settlement recalculates it in place; once a settlement has received
// a payment its figures are immutable and regeneration is rejected.
func (s *Service) Generate(ctx context.Context, brandID string, periodStart, periodEnd time.Time) (*models.Settlement, error) {
	if brandID == "" {
		return nil, apperrors.Validation("brand_id", "is required")
	}
	if err := timeutil.ValidatePeriod(periodStart, periodEnd); err != nil {
		return nil, err
	}

	var settlement *models.Settlement
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		brand, err := s.brands.GetByID(ctx, tx, brandID)
		if err != nil {
			return err
		}
		terms, err := s.brands.GetTerms(ctx, tx, brandID)
		if err != nil {
			return err
		}

		activity, err := s.vouchers.SummarizeActivity(ctx, tx, brandID, periodStart, periodEnd)
		if err != nil {
			return err
		}

		result, err := Calculate(CalculationInput{
			Trigger:            terms.SettlementTrigger,
			CommissionType:     terms.CommissionType,
			CommissionValue:    terms.CommissionValue,
			VATRate:            terms.VATRate,
			BreakageShare:      terms.BreakageShare,
			TotalIssued:        activity.TotalIssued,
			TotalIssuedValue:   activity.TotalIssuedValue,
			TotalRedeemed:      activity.TotalRedeemed,
			TotalRedeemedValue: activity.TotalRedeemedValue,
			TotalBreakageValue: activity.TotalBreakageValue,
		})
		if err != nil {
			return err
		}

		existing, err := s.settlements.GetByBrandAndPeriod(ctx, tx, brandID, periodStart, periodEnd)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}

		if existing != nil {
			if existing.PaymentCount > 0 || existing.Status != models.SettlementPending {
				return apperrors.Conflict("settlement for this period already exists and has payment activity")
			}
			applyFigures(existing, activity, result)
			if err := s.settlements.Update(ctx, tx, existing); err != nil {
				return err
			}
			settlement = existing
			return nil
		}

		settlement = &models.Settlement{
			ID:          uuid.New().String(),
			BrandID:     brandID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Currency:    brand.Currency,
			Status:      models.SettlementPending,
			TotalPaid:   decimal.Zero,
			CreatedAt:   timeutil.Now(),
			UpdatedAt:   timeutil.Now(),
		}
		applyFigures(settlement, activity, result)
		return s.settlements.Create(ctx, tx, settlement)
	})
	if err != nil {
		return nil, err
	}

	observability.RecordSettlementGenerated(brandID, settlement.Currency, settlement.NetPayable)
	s.logger.Info("settlement generated",
		ports.String("settlement_id", settlement.ID),
		ports.String("brand_id", brandID),
		ports.String("net_payable", settlement.NetPayable.String()))

	return settlement, nil
}

func applyFigures(st *models.Settlement, activity *models.VoucherActivity, result *CalculationResult) {
	st.TotalSold = activity.TotalIssued
	st.TotalSoldAmount = activity.TotalIssuedValue
	st.TotalRedeemed = activity.TotalRedeemed
	st.RedeemedAmount = activity.TotalRedeemedValue
	st.Outstanding = activity.OutstandingCount
	st.OutstandingAmount = activity.OutstandingAmount
	st.CommissionAmount = result.CommissionAmount
	st.BreakageAmount = result.BreakageAmount
	st.VATAmount = result.VATAmount
	st.NetPayable = result.NetPayable
	st.RemainingAmount = result.NetPayable.Sub(st.TotalPaid)
	if st.RemainingAmount.IsNegative() {
		st.RemainingAmount = decimal.Zero
	}
	st.UpdatedAt = timeutil.Now()
}

// GetByID retrieves a settlement
func (s *Service) GetByID(ctx context.Context, id string) (*models.Settlement, error) {
	if id == "" {
		return nil, apperrors.Validation("id", "is required")
	}
	return s.settlements.GetByID(ctx, nil, id)
}

// ListFilter narrows settlement listings
type ListFilter struct {
	BrandID string
	Status  models.SettlementStatus
	Limit   int32
	Offset  int32
}

// List returns settlements matching the filter, newest period first
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*models.Settlement, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	switch {
	case filter.BrandID != "":
		return s.settlements.ListByBrand(ctx, nil, filter.BrandID, limit, filter.Offset)
	case filter.Status != "":
		return s.settlements.ListByStatus(ctx, nil, filter.Status, limit, filter.Offset)
	default:
		return s.settlements.List(ctx, nil, limit, filter.Offset)
	}
}

// MarkStatus applies a manual review transition. Only the review states can be
// set by hand: Pending|Partial -> InReview|Disputed, and back out again to the
// state implied by the payment totals. Paid is terminal.
func (s *Service) MarkStatus(ctx context.Context, id string, target models.SettlementStatus) (*models.Settlement, error) {
	if id == "" {
		return nil, apperrors.Validation("id", "is required")
	}

	var updated *models.Settlement
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		record, err := s.settlements.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if record.Status == models.SettlementPaid {
			return apperrors.Conflict("paid settlements cannot change status")
		}

		switch target {
		case models.SettlementInReview, models.SettlementDisputed:
			// always reachable from a non-terminal state
		case models.SettlementPending, models.SettlementPartial:
			// returning from review must match the payment totals
			implied := models.SettlementPending
			if record.TotalPaid.GreaterThan(decimal.Zero) {
				implied = models.SettlementPartial
			}
			if target != implied {
				return apperrors.Conflict("status does not match payment totals")
			}
		default:
			return apperrors.Validation("status", "cannot be set manually")
		}

		if err := s.settlements.UpdateStatus(ctx, tx, id, target); err != nil {
			return err
		}
		record.Status = target
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("settlement status updated",
		ports.String("settlement_id", id),
		ports.String("status", string(target)))
	return updated, nil
}

// SummarizeActivity exposes the period aggregation for the analytics endpoint
func (s *Service) SummarizeActivity(ctx context.Context, brandID string, periodStart, periodEnd time.Time) (*models.VoucherActivity, error) {
	if brandID == "" {
		return nil, apperrors.Validation("brand_id", "is required")
	}
	if err := timeutil.ValidatePeriod(periodStart, periodEnd); err != nil {
		return nil, err
	}
	if _, err := s.brands.GetByID(ctx, nil, brandID); err != nil {
		return nil, err
	}
	return s.vouchers.SummarizeActivity(ctx, nil, brandID, periodStart, periodEnd)
}
