package settlement

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

func pendingSettlement(netPayable string) *models.Settlement {
	return &models.Settlement{
		ID:              "st-1",
		BrandID:         "brand-1",
		Currency:        "GBP",
		NetPayable:      dec(netPayable),
		TotalPaid:       decimal.Zero,
		RemainingAmount: dec(netPayable),
		Status:          models.SettlementPending,
	}
}

func TestProcessPayment_PartialPayment(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("9150")
	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)
	settlements.On("ApplyPayment", ctx, mock.Anything, record).Return(nil)

	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("5000"), "first installment")
	require.NoError(t, err)
	require.True(t, outcome.Success)

	st := outcome.Settlement
	assert.Equal(t, models.SettlementPartial, st.Status)
	assert.True(t, st.TotalPaid.Equal(dec("5000")))
	assert.True(t, st.RemainingAmount.Equal(dec("4150")))
	assert.Equal(t, int32(1), st.PaymentCount)
	require.Len(t, st.PaymentHistory, 1)
	assert.Equal(t, "first installment", st.PaymentHistory[0].Notes)
	assert.NotNil(t, st.LastPaymentDate)
	settlements.AssertExpectations(t)
}

func TestProcessPayment_FinalPaymentMarksPaid(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("9150")
	record.TotalPaid = dec("5000")
	record.RemainingAmount = dec("4150")
	record.Status = models.SettlementPartial
	record.PaymentCount = 1

	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)
	settlements.On("ApplyPayment", ctx, mock.Anything, record).Return(nil)

	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("4150"), "")
	require.NoError(t, err)
	require.True(t, outcome.Success)

	st := outcome.Settlement
	assert.Equal(t, models.SettlementPaid, st.Status)
	assert.True(t, st.TotalPaid.Equal(dec("9150")))
	assert.True(t, st.RemainingAmount.IsZero())
	assert.Equal(t, int32(2), st.PaymentCount)
}

func TestProcessPayment_PaidIsTerminal(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("9150")
	record.Status = models.SettlementPaid
	record.TotalPaid = dec("9150")
	record.RemainingAmount = decimal.Zero

	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)

	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("100"), "")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "settlement already fully paid", outcome.Message)
	settlements.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayment_OverpaymentClampedToRemainder(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("9150")
	record.TotalPaid = dec("5000")
	record.RemainingAmount = dec("4150")
	record.Status = models.SettlementPartial

	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)
	settlements.On("ApplyPayment", ctx, mock.Anything, record).Return(nil)

	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("10000"), "")
	require.NoError(t, err)
	require.True(t, outcome.Success)

	st := outcome.Settlement
	assert.Equal(t, models.SettlementPaid, st.Status)
	assert.True(t, st.TotalPaid.Equal(dec("9150")), "never exceeds net payable")
	require.Len(t, st.PaymentHistory, 1)
	assert.True(t, st.PaymentHistory[0].Amount.Equal(dec("4150")), "recorded amount is the clamped amount")
}

func TestProcessPayment_WithinToleranceCountsAsPaid(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("100.00")
	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)
	settlements.On("ApplyPayment", ctx, mock.Anything, record).Return(nil)

	// Leaves 0.01 outstanding, inside the tolerance
	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("99.99"), "")
	require.NoError(t, err)
	require.True(t, outcome.Success)

	st := outcome.Settlement
	assert.Equal(t, models.SettlementPaid, st.Status)
	assert.True(t, st.TotalPaid.Equal(dec("100.00")))
	assert.True(t, st.RemainingAmount.IsZero())
}

func TestProcessPayment_RejectsNonPositiveAmount(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, dec("-5")} {
		outcome, err := svc.ProcessPayment(ctx, "st-1", amount, "")
		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, "payment amount must be a positive number", outcome.Message)
	}
	settlements.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayment_RejectsEmptyID(t *testing.T) {
	svc, _, _, _ := setupService()

	outcome, err := svc.ProcessPayment(context.Background(), "", dec("100"), "")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "settlement ID is required", outcome.Message)
}

func TestProcessPayment_UnknownSettlement(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "missing").
		Return(nil, apperrors.NotFound("settlement", "missing"))

	outcome, err := svc.ProcessPayment(ctx, "missing", dec("100"), "")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "settlement not found", outcome.Message)
}

func TestProcessPayment_ReviewStatesRejectPayments(t *testing.T) {
	for _, status := range []models.SettlementStatus{models.SettlementInReview, models.SettlementDisputed} {
		svc, settlements, _, _ := setupService()
		ctx := context.Background()

		record := pendingSettlement("500")
		record.Status = status
		settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)

		outcome, err := svc.ProcessPayment(ctx, "st-1", dec("100"), "")
		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Contains(t, outcome.Message, "not accepting payments")
	}
}

func TestProcessPayment_PersistenceFailureSurfacesAsError(t *testing.T) {
	svc, settlements, _, _ := setupService()
	ctx := context.Background()

	record := pendingSettlement("500")
	settlements.On("GetByIDForUpdate", ctx, mock.Anything, "st-1").Return(record, nil)
	settlements.On("ApplyPayment", ctx, mock.Anything, record).Return(errors.New("connection reset"))

	outcome, err := svc.ProcessPayment(ctx, "st-1", dec("100"), "")
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, apperrors.CategoryPersistence, apperrors.CategoryOf(err))
}

func TestNewPaymentReference_Format(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	ref := newPaymentReference(now)
	parts := strings.SplitN(ref, "-", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "PAY", parts[0])
	assert.Equal(t, "1773576000000", parts[1])
	assert.Len(t, parts[2], 9)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])

	// Random suffix makes references unique even at the same timestamp
	assert.NotEqual(t, ref, newPaymentReference(now))
}
