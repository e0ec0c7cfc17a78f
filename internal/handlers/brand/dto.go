package brand

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	brandsvc "github.com/giftbridge/settlement-service/internal/services/brand"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

const dateLayout = "2006-01-02"

// CreateBrandRequest registers a new brand partner
type CreateBrandRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Currency     string `json:"currency"`
}

// UpdateBrandRequest modifies brand attributes; omitted fields are unchanged
type UpdateBrandRequest struct {
	Name         string `json:"name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

// TermsRequest sets a brand's commercial terms
type TermsRequest struct {
	SettlementTrigger string           `json:"settlement_trigger"`
	CommissionType    string           `json:"commission_type"`
	CommissionValue   decimal.Decimal  `json:"commission_value"`
	VATRate           *decimal.Decimal `json:"vat_rate,omitempty"`
	BreakageShare     *decimal.Decimal `json:"breakage_share,omitempty"`
	ContractStart     string           `json:"contract_start"`
	ContractEnd       string           `json:"contract_end,omitempty"`
	Currency          string           `json:"currency,omitempty"`
}

// ToModel validates date formats and builds the domain terms
func (r *TermsRequest) ToModel(brandID string) (*models.BrandTerms, error) {
	start, err := timeutil.ParseDate(dateLayout, r.ContractStart)
	if err != nil {
		return nil, apperrors.Validation("contract_start", "must be YYYY-MM-DD")
	}

	var end *time.Time
	if r.ContractEnd != "" {
		parsed, err := timeutil.ParseDate(dateLayout, r.ContractEnd)
		if err != nil {
			return nil, apperrors.Validation("contract_end", "must be YYYY-MM-DD")
		}
		end = &parsed
	}

	return &models.BrandTerms{
		BrandID:           brandID,
		SettlementTrigger: models.SettlementTrigger(r.SettlementTrigger),
		CommissionType:    models.CommissionType(r.CommissionType),
		CommissionValue:   r.CommissionValue,
		VATRate:           r.VATRate,
		BreakageShare:     r.BreakageShare,
		ContractStart:     start,
		ContractEnd:       end,
		Currency:          r.Currency,
	}, nil
}

// BrandResponse is the API representation of a brand
type BrandResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Status       string `json:"status"`
	Currency     string `json:"currency"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// TermsResponse is the API representation of brand terms
type TermsResponse struct {
	BrandID           string           `json:"brand_id"`
	SettlementTrigger string           `json:"settlement_trigger"`
	CommissionType    string           `json:"commission_type"`
	CommissionValue   decimal.Decimal  `json:"commission_value"`
	VATRate           *decimal.Decimal `json:"vat_rate,omitempty"`
	BreakageShare     *decimal.Decimal `json:"breakage_share,omitempty"`
	ContractStart     string           `json:"contract_start"`
	ContractEnd       string           `json:"contract_end,omitempty"`
	Currency          string           `json:"currency"`
}

func toBrandResponse(b *models.Brand) *BrandResponse {
	return &BrandResponse{
		ID:           b.ID,
		Name:         b.Name,
		ContactEmail: b.ContactEmail,
		Status:       string(b.Status),
		Currency:     b.Currency,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBrandResponses(brands []*models.Brand) []*BrandResponse {
	out := make([]*BrandResponse, len(brands))
	for i, b := range brands {
		out[i] = toBrandResponse(b)
	}
	return out
}

func toTermsResponse(t *models.BrandTerms) *TermsResponse {
	resp := &TermsResponse{
		BrandID:           t.BrandID,
		SettlementTrigger: string(t.SettlementTrigger),
		CommissionType:    string(t.CommissionType),
		CommissionValue:   t.CommissionValue,
		VATRate:           t.VATRate,
		BreakageShare:     t.BreakageShare,
		ContractStart:     t.ContractStart.Format(dateLayout),
		Currency:          t.Currency,
	}
	if t.ContractEnd != nil {
		resp.ContractEnd = t.ContractEnd.Format(dateLayout)
	}
	return resp
}

// toCreateInput converts the request to the service input
func (r *CreateBrandRequest) toCreateInput() brandsvc.CreateInput {
	return brandsvc.CreateInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		Currency:     r.Currency,
	}
}

// toUpdateInput converts the request to the service input
func (r *UpdateBrandRequest) toUpdateInput() brandsvc.UpdateInput {
	return brandsvc.UpdateInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		Currency:     r.Currency,
	}
}
