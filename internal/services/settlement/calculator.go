package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

var (
	hundred = decimal.NewFromInt(100)
)

// CalculationInput carries a brand's commercial terms and one period's
// aggregated voucher activity.
type CalculationInput struct {
	Trigger         models.SettlementTrigger
	CommissionType  models.CommissionType
	CommissionValue decimal.Decimal

	// Percentages in [0,100]; nil means not charged
	VATRate       *decimal.Decimal
	BreakageShare *decimal.Decimal

	TotalIssued        int32
	TotalIssuedValue   decimal.Decimal
	TotalRedeemed      int32
	TotalRedeemedValue decimal.Decimal
	TotalBreakageValue decimal.Decimal
}

// CalculationResult is the financial breakdown for a settlement period
type CalculationResult struct {
	BaseAmount       decimal.Decimal
	CommissionAmount decimal.Decimal
	VATAmount        decimal.Decimal
	BreakageAmount   decimal.Decimal
	NetPayable       decimal.Decimal
}

// Calculate derives the settlement breakdown from terms and activity.
//
// Base amount follows the settlement trigger: redeemed value for
// on_redemption, issued value for on_purchase. VAT is charged on the
// commission alone, never on the base amount. All amounts are rounded to
// 2 decimal places, half away from zero.
//
// Deterministic and side-effect free; safe to recompute from the same inputs.
func Calculate(in CalculationInput) (*CalculationResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var baseAmount decimal.Decimal
	var itemCount int32
	switch in.Trigger {
	case models.TriggerOnRedemption:
		baseAmount = in.TotalRedeemedValue
		itemCount = in.TotalRedeemed
	case models.TriggerOnPurchase:
		baseAmount = in.TotalIssuedValue
		itemCount = in.TotalIssued
	}

	commission := decimal.Zero
	if baseAmount.GreaterThan(decimal.Zero) {
		switch in.CommissionType {
		case models.CommissionPercentage:
			commission = baseAmount.Mul(in.CommissionValue).Div(hundred).Round(2)
		case models.CommissionFixed:
			commission = in.CommissionValue.Mul(decimal.NewFromInt32(itemCount)).Round(2)
		}
	}

	vat := decimal.Zero
	if in.VATRate != nil && commission.GreaterThan(decimal.Zero) {
		vat = commission.Mul(*in.VATRate).Div(hundred).Round(2)
	}

	breakage := decimal.Zero
	if in.BreakageShare != nil && in.TotalBreakageValue.GreaterThan(decimal.Zero) {
		breakage = in.TotalBreakageValue.Mul(*in.BreakageShare).Div(hundred).Round(2)
	}

	return &CalculationResult{
		BaseAmount:       baseAmount,
		CommissionAmount: commission,
		VATAmount:        vat,
		BreakageAmount:   breakage,
		NetPayable:       baseAmount.Sub(commission).Add(vat).Sub(breakage),
	}, nil
}

func (in CalculationInput) validate() error {
	switch in.Trigger {
	case models.TriggerOnRedemption, models.TriggerOnPurchase:
	default:
		return apperrors.Validation("settlement_trigger", "unknown trigger "+string(in.Trigger))
	}

	// Unknown commission types fail loudly rather than silently charging zero
	switch in.CommissionType {
	case models.CommissionPercentage, models.CommissionFixed:
	default:
		return apperrors.Validation("commission_type", "unknown commission type "+string(in.CommissionType))
	}

	if in.CommissionValue.IsNegative() {
		return apperrors.Validation("commission_value", "must not be negative")
	}
	if err := validateRate("vat_rate", in.VATRate); err != nil {
		return err
	}
	if err := validateRate("breakage_share", in.BreakageShare); err != nil {
		return err
	}
	return nil
}

func validateRate(field string, rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return apperrors.Validation(field, "must be between 0 and 100")
	}
	return nil
}
