package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanAcceptPayment(t *testing.T) {
	cases := []struct {
		status SettlementStatus
		want   bool
	}{
		{SettlementPending, true},
		{SettlementPartial, true},
		{SettlementPaid, false},
		{SettlementInReview, false},
		{SettlementDisputed, false},
	}

	for _, tc := range cases {
		s := &Settlement{Status: tc.status}
		assert.Equal(t, tc.want, s.CanAcceptPayment(), "status %s", tc.status)
	}
}

func TestIsFullyPaid(t *testing.T) {
	paid := &Settlement{Status: SettlementPaid}
	assert.True(t, paid.IsFullyPaid())

	withinTolerance := &Settlement{
		Status:          SettlementPartial,
		TotalPaid:       decimal.NewFromFloat(99.99),
		RemainingAmount: decimal.NewFromFloat(0.01),
	}
	assert.True(t, withinTolerance.IsFullyPaid())

	outstanding := &Settlement{
		Status:          SettlementPartial,
		TotalPaid:       decimal.NewFromInt(50),
		RemainingAmount: decimal.NewFromInt(50),
	}
	assert.False(t, outstanding.IsFullyPaid())

	unpaid := &Settlement{
		Status:          SettlementPending,
		TotalPaid:       decimal.Zero,
		RemainingAmount: decimal.Zero,
	}
	assert.False(t, unpaid.IsFullyPaid(), "a settlement with no payments is not paid even at zero remainder")
}
