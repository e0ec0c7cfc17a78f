package brand

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

type mockDB struct{}

var _ ports.DBPort = (*mockDB)(nil)

func (m *mockDB) GetDB() *pgxpool.Pool { return nil }

func (m *mockDB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (m *mockDB) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type mockBrandRepo struct {
	mock.Mock
}

var _ ports.BrandRepository = (*mockBrandRepo)(nil)

func (m *mockBrandRepo) Create(ctx context.Context, tx ports.DBTX, brand *models.Brand) error {
	return m.Called(ctx, tx, brand).Error(0)
}

func (m *mockBrandRepo) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Brand, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *mockBrandRepo) List(ctx context.Context, db ports.DBTX, status models.BrandStatus, limit, offset int32) ([]*models.Brand, error) {
	args := m.Called(ctx, db, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Brand), args.Error(1)
}

func (m *mockBrandRepo) Update(ctx context.Context, tx ports.DBTX, brand *models.Brand) error {
	return m.Called(ctx, tx, brand).Error(0)
}

func (m *mockBrandRepo) UpdateStatus(ctx context.Context, tx ports.DBTX, id string, status models.BrandStatus) error {
	return m.Called(ctx, tx, id, status).Error(0)
}

func (m *mockBrandRepo) UpsertTerms(ctx context.Context, tx ports.DBTX, terms *models.BrandTerms) error {
	return m.Called(ctx, tx, terms).Error(0)
}

func (m *mockBrandRepo) GetTerms(ctx context.Context, db ports.DBTX, brandID string) (*models.BrandTerms, error) {
	args := m.Called(ctx, db, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrandTerms), args.Error(1)
}

type nopLogger struct{}

var _ ports.Logger = nopLogger{}

func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Debug(string, ...ports.Field) {}

func setupBrandService() (*Service, *mockBrandRepo) {
	brands := new(mockBrandRepo)
	return NewService(&mockDB{}, brands, nopLogger{}), brands
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func validTerms() *models.BrandTerms {
	return &models.BrandTerms{
		BrandID:           "brand-1",
		SettlementTrigger: models.TriggerOnRedemption,
		CommissionType:    models.CommissionPercentage,
		CommissionValue:   dec("10"),
		VATRate:           decPtr("20"),
		ContractStart:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate_NormalizesInput(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	brands.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.Brand")).Return(nil)

	brand, err := svc.Create(ctx, CreateInput{
		Name:     "  Acme Cards  ",
		Currency: "gbp",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, brand.ID)
	assert.Equal(t, "Acme Cards", brand.Name)
	assert.Equal(t, "GBP", brand.Currency)
	assert.Equal(t, models.BrandActive, brand.Status)
}

func TestCreate_Validation(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "", Currency: "GBP"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{Name: "Acme", Currency: "POUNDS"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	brands.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OmittedFieldsUnchanged(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	existing := &models.Brand{
		ID:       "brand-1",
		Name:     "Acme Cards",
		Currency: "GBP",
		Status:   models.BrandActive,
	}
	brands.On("GetByID", ctx, mock.Anything, "brand-1").Return(existing, nil)
	brands.On("Update", ctx, mock.Anything, existing).Return(nil)

	brand, err := svc.Update(ctx, "brand-1", UpdateInput{ContactEmail: "finance@acme.example"})
	require.NoError(t, err)

	assert.Equal(t, "Acme Cards", brand.Name)
	assert.Equal(t, "GBP", brand.Currency)
	assert.Equal(t, "finance@acme.example", brand.ContactEmail)
}

func TestArchive(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	brands.On("UpdateStatus", ctx, mock.Anything, "brand-1", models.BrandArchived).Return(nil)

	require.NoError(t, svc.Archive(ctx, "brand-1"))
	brands.AssertExpectations(t)
}

func TestSetTerms_DefaultsCurrencyFromBrand(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	terms := validTerms()
	brands.On("GetByID", ctx, mock.Anything, "brand-1").
		Return(&models.Brand{ID: "brand-1", Currency: "EUR"}, nil)
	brands.On("UpsertTerms", ctx, mock.Anything, terms).Return(nil)

	saved, err := svc.SetTerms(ctx, terms)
	require.NoError(t, err)
	assert.Equal(t, "EUR", saved.Currency)
}

func TestSetTerms_UnknownBrand(t *testing.T) {
	svc, brands := setupBrandService()
	ctx := context.Background()

	brands.On("GetByID", ctx, mock.Anything, "missing").
		Return(nil, apperrors.NotFound("brand", "missing"))

	terms := validTerms()
	terms.BrandID = "missing"
	_, err := svc.SetTerms(ctx, terms)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestValidateTerms(t *testing.T) {
	end := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*models.BrandTerms)
	}{
		{"unknown trigger", func(tr *models.BrandTerms) { tr.SettlementTrigger = "on_expiry" }},
		{"unknown commission type", func(tr *models.BrandTerms) { tr.CommissionType = "revenue_share" }},
		{"negative commission", func(tr *models.BrandTerms) { tr.CommissionValue = dec("-1") }},
		{"percentage over 100", func(tr *models.BrandTerms) { tr.CommissionValue = dec("101") }},
		{"vat rate out of range", func(tr *models.BrandTerms) { tr.VATRate = decPtr("150") }},
		{"breakage share out of range", func(tr *models.BrandTerms) { tr.BreakageShare = decPtr("-1") }},
		{"missing contract start", func(tr *models.BrandTerms) { tr.ContractStart = time.Time{} }},
		{"contract end before start", func(tr *models.BrandTerms) { tr.ContractEnd = &end }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := validTerms()
			tc.mutate(terms)
			err := validateTerms(terms)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestValidateTerms_FixedCommissionMayExceedHundred(t *testing.T) {
	terms := validTerms()
	terms.CommissionType = models.CommissionFixed
	terms.CommissionValue = dec("250")
	require.NoError(t, validateTerms(terms))
}
