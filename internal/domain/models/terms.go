package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementTrigger determines which voucher activity a settlement is based on
type SettlementTrigger string

const (
	TriggerOnRedemption SettlementTrigger = "on_redemption"
	TriggerOnPurchase   SettlementTrigger = "on_purchase"
)

// CommissionType represents how commission is charged against the base amount
type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// BrandTerms is the commercial contract for a brand (one per brand).
// VATRate and BreakageShare are percentages in [0,100]; nil means not charged.
type BrandTerms struct {
	BrandID           string
	SettlementTrigger SettlementTrigger
	CommissionType    CommissionType
	CommissionValue   decimal.Decimal
	VATRate           *decimal.Decimal
	BreakageShare     *decimal.Decimal
	ContractStart     time.Time
	ContractEnd       *time.Time
	Currency          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
