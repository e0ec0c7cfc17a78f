package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherCode is an individual issued gift-card code.
// Read-only input to settlement generation; never mutated by it.
type VoucherCode struct {
	ID              string
	BrandID         string
	Code            string
	OriginalValue   decimal.Decimal
	RemainingValue  decimal.Decimal
	IsRedeemed      bool
	RedemptionCount int32
	IssuedAt        time.Time
	RedeemedAt      *time.Time
	ExpiresAt       time.Time
}

// VoucherActivity is the aggregated voucher activity for a brand over a period.
// Produced by database aggregation; all totals are non-negative.
type VoucherActivity struct {
	BrandID     string
	PeriodStart time.Time
	PeriodEnd   time.Time

	TotalIssued      int32
	TotalIssuedValue decimal.Decimal

	TotalRedeemed      int32
	TotalRedeemedValue decimal.Decimal

	OutstandingCount  int32
	OutstandingAmount decimal.Decimal

	// Remaining value on expired, unredeemed vouchers
	TotalBreakageValue decimal.Decimal
}
