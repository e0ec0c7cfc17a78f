package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus represents the payment state of a settlement
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementPartial  SettlementStatus = "partial"
	SettlementPaid     SettlementStatus = "paid"
	SettlementInReview SettlementStatus = "in_review"
	SettlementDisputed SettlementStatus = "disputed"
)

// PaymentTolerance is the rounding tolerance when comparing paid totals
// against net payable. A settlement within this margin counts as fully paid.
var PaymentTolerance = decimal.NewFromFloat(0.01)

// PaymentRecord is a single entry in a settlement's append-only payment history
type PaymentRecord struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes,omitempty"`
}

// Settlement is the computed financial record for one brand for one period
type Settlement struct {
	ID          string
	BrandID     string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Currency    string

	// Aggregated voucher activity
	TotalSold         int32
	TotalSoldAmount   decimal.Decimal
	TotalRedeemed     int32
	RedeemedAmount    decimal.Decimal
	Outstanding       int32
	OutstandingAmount decimal.Decimal

	// Calculated breakdown
	CommissionAmount decimal.Decimal
	BreakageAmount   decimal.Decimal
	VATAmount        decimal.Decimal
	NetPayable       decimal.Decimal

	// Payment tracking
	TotalPaid       decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          SettlementStatus
	PaymentCount    int32
	PaymentHistory  []PaymentRecord
	LastPaymentDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFullyPaid reports whether the settlement has no collectible remainder
func (s *Settlement) IsFullyPaid() bool {
	return s.Status == SettlementPaid ||
		s.RemainingAmount.LessThanOrEqual(PaymentTolerance) && s.TotalPaid.GreaterThan(decimal.Zero)
}

// CanAcceptPayment reports whether a payment may be applied in the current state
func (s *Settlement) CanAcceptPayment() bool {
	switch s.Status {
	case SettlementPending, SettlementPartial:
		return true
	default:
		return false
	}
}
