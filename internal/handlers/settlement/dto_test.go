package settlement

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

func TestGenerateRequest_MonthPeriod(t *testing.T) {
	req := GenerateRequest{BrandID: "brand-1", Month: "2026-02"}

	start, end, err := req.Period()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestGenerateRequest_ExplicitPeriod(t *testing.T) {
	req := GenerateRequest{
		BrandID:     "brand-1",
		PeriodStart: "2026-02-10",
		PeriodEnd:   "2026-02-20",
	}

	start, end, err := req.Period()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), end)
}

func TestGenerateRequest_InvalidDates(t *testing.T) {
	cases := []GenerateRequest{
		{Month: "February 2026"},
		{PeriodStart: "2026/02/10", PeriodEnd: "2026-02-20"},
		{PeriodStart: "2026-02-10", PeriodEnd: "soon"},
		{}, // neither month nor explicit period
	}

	for _, req := range cases {
		_, _, err := req.Period()
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func TestRejectionStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, rejectionStatus("settlement not found"))
	assert.Equal(t, http.StatusConflict, rejectionStatus("settlement already fully paid"))
	assert.Equal(t, http.StatusConflict, rejectionStatus("settlement in disputed state is not accepting payments"))
	assert.Equal(t, http.StatusBadRequest, rejectionStatus("payment amount must be a positive number"))
}
