package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

const dateLayout = "2006-01-02"

// GenerateRequest asks for a settlement covering either a calendar month or
// an explicit custom period
type GenerateRequest struct {
	BrandID string `json:"brand_id"`
	// Month in YYYY-MM form; mutually exclusive with the explicit period
	Month       string `json:"month,omitempty"`
	PeriodStart string `json:"period_start,omitempty"`
	PeriodEnd   string `json:"period_end,omitempty"`
}

// Period resolves the requested settlement period
func (r *GenerateRequest) Period() (time.Time, time.Time, error) {
	if r.Month != "" {
		t, err := timeutil.ParseDate("2006-01", r.Month)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("month", "must be YYYY-MM")
		}
		start, end := timeutil.MonthBounds(t)
		return start, end, nil
	}

	start, err := timeutil.ParseDate(dateLayout, r.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("period_start", "must be YYYY-MM-DD")
	}
	end, err := timeutil.ParseDate(dateLayout, r.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("period_end", "must be YYYY-MM-DD")
	}
	return start, end, nil
}

// PaymentRequest applies a payment to a settlement
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

// StatusRequest applies a manual status transition
type StatusRequest struct {
	Status string `json:"status"`
}

// PaymentRecordResponse is one payment history entry
type PaymentRecordResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paid_at"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes,omitempty"`
}

// SettlementResponse is the API representation of a settlement
type SettlementResponse struct {
	ID          string `json:"id"`
	BrandID     string `json:"brand_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Currency    string `json:"currency"`

	TotalSold         int32           `json:"total_sold"`
	TotalSoldAmount   decimal.Decimal `json:"total_sold_amount"`
	TotalRedeemed     int32           `json:"total_redeemed"`
	RedeemedAmount    decimal.Decimal `json:"redeemed_amount"`
	Outstanding       int32           `json:"outstanding"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`

	CommissionAmount decimal.Decimal `json:"commission_amount"`
	BreakageAmount   decimal.Decimal `json:"breakage_amount"`
	VATAmount        decimal.Decimal `json:"vat_amount"`
	NetPayable       decimal.Decimal `json:"net_payable"`

	TotalPaid       decimal.Decimal         `json:"total_paid"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	Status          string                  `json:"status"`
	PaymentCount    int32                   `json:"payment_count"`
	PaymentHistory  []PaymentRecordResponse `json:"payment_history"`
	LastPaymentDate string                  `json:"last_payment_date,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ActivityResponse is the API representation of aggregated voucher activity
type ActivityResponse struct {
	BrandID     string `json:"brand_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	TotalIssued        int32           `json:"total_issued"`
	TotalIssuedValue   decimal.Decimal `json:"total_issued_value"`
	TotalRedeemed      int32           `json:"total_redeemed"`
	TotalRedeemedValue decimal.Decimal `json:"total_redeemed_value"`
	OutstandingCount   int32           `json:"outstanding_count"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	TotalBreakageValue decimal.Decimal `json:"total_breakage_value"`
}

func toSettlementResponse(s *models.Settlement) *SettlementResponse {
	resp := &SettlementResponse{
		ID:                s.ID,
		BrandID:           s.BrandID,
		PeriodStart:       s.PeriodStart.Format(dateLayout),
		PeriodEnd:         s.PeriodEnd.Format(dateLayout),
		Currency:          s.Currency,
		TotalSold:         s.TotalSold,
		TotalSoldAmount:   s.TotalSoldAmount,
		TotalRedeemed:     s.TotalRedeemed,
		RedeemedAmount:    s.RedeemedAmount,
		Outstanding:       s.Outstanding,
		OutstandingAmount: s.OutstandingAmount,
		CommissionAmount:  s.CommissionAmount,
		BreakageAmount:    s.BreakageAmount,
		VATAmount:         s.VATAmount,
		NetPayable:        s.NetPayable,
		TotalPaid:         s.TotalPaid,
		RemainingAmount:   s.RemainingAmount,
		Status:            string(s.Status),
		PaymentCount:      s.PaymentCount,
		PaymentHistory:    make([]PaymentRecordResponse, len(s.PaymentHistory)),
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.Format(time.RFC3339),
	}
	for i, p := range s.PaymentHistory {
		resp.PaymentHistory[i] = PaymentRecordResponse{
			Amount:    p.Amount,
			PaidAt:    p.PaidAt.Format(time.RFC3339),
			Reference: p.Reference,
			Notes:     p.Notes,
		}
	}
	if s.LastPaymentDate != nil {
		resp.LastPaymentDate = s.LastPaymentDate.Format(time.RFC3339)
	}
	return resp
}

func toSettlementResponses(settlements []*models.Settlement) []*SettlementResponse {
	out := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = toSettlementResponse(s)
	}
	return out
}

func toActivityResponse(a *models.VoucherActivity) *ActivityResponse {
	return &ActivityResponse{
		BrandID:            a.BrandID,
		PeriodStart:        a.PeriodStart.Format(dateLayout),
		PeriodEnd:          a.PeriodEnd.Format(dateLayout),
		TotalIssued:        a.TotalIssued,
		TotalIssuedValue:   a.TotalIssuedValue,
		TotalRedeemed:      a.TotalRedeemed,
		TotalRedeemedValue: a.TotalRedeemedValue,
		OutstandingCount:   a.OutstandingCount,
		OutstandingAmount:  a.OutstandingAmount,
		TotalBreakageValue: a.TotalBreakageValue,
	}
}
