package settlement

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/mock"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
)

// mockDB implements ports.DBPort. Transactions run the callback directly with
// a nil tx; the repository mocks ignore the executor argument anyway.
type mockDB struct{}

var _ ports.DBPort = (*mockDB)(nil)

func (m *mockDB) GetDB() *pgxpool.Pool {
	return nil
}

func (m *mockDB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (m *mockDB) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type mockSettlementRepo struct {
	mock.Mock
}

var _ ports.SettlementRepository = (*mockSettlementRepo)(nil)

func (m *mockSettlementRepo) Create(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	return m.Called(ctx, tx, st).Error(0)
}

func (m *mockSettlementRepo) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Settlement, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id string) (*models.Settlement, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) GetByBrandAndPeriod(ctx context.Context, db ports.DBTX, brandID string, periodStart, periodEnd time.Time) (*models.Settlement, error) {
	args := m.Called(ctx, db, brandID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) ListByBrand(ctx context.Context, db ports.DBTX, brandID string, limit, offset int32) ([]*models.Settlement, error) {
	args := m.Called(ctx, db, brandID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) ListByStatus(ctx context.Context, db ports.DBTX, status models.SettlementStatus, limit, offset int32) ([]*models.Settlement, error) {
	args := m.Called(ctx, db, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) List(ctx context.Context, db ports.DBTX, limit, offset int32) ([]*models.Settlement, error) {
	args := m.Called(ctx, db, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Settlement), args.Error(1)
}

func (m *mockSettlementRepo) Update(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	return m.Called(ctx, tx, st).Error(0)
}

func (m *mockSettlementRepo) ApplyPayment(ctx context.Context, tx ports.DBTX, st *models.Settlement) error {
	return m.Called(ctx, tx, st).Error(0)
}

func (m *mockSettlementRepo) UpdateStatus(ctx context.Context, tx ports.DBTX, id string, status models.SettlementStatus) error {
	return m.Called(ctx, tx, id, status).Error(0)
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

type mockVoucherRepo struct {
	mock.Mock
}

var _ ports.VoucherRepository = (*mockVoucherRepo)(nil)

func (m *mockVoucherRepo) SummarizeActivity(ctx context.Context, db ports.DBTX, brandID string, periodStart, periodEnd time.Time) (*models.VoucherActivity, error) {
	args := m.Called(ctx, db, brandID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoucherActivity), args.Error(1)
}

func (m *mockVoucherRepo) GetByCode(ctx context.Context, db ports.DBTX, code string) (*models.VoucherCode, error) {
	args := m.Called(ctx, db, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoucherCode), args.Error(1)
}

func (m *mockVoucherRepo) ListByBrand(ctx context.Context, db ports.DBTX, brandID string, limit, offset int32) ([]*models.VoucherCode, error) {
	args := m.Called(ctx, db, brandID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VoucherCode), args.Error(1)
}

// nopLogger discards all log output
type nopLogger struct{}

var _ ports.Logger = nopLogger{}

func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Debug(string, ...ports.Field) {}

func setupService() (*Service, *mockSettlementRepo, *mockBrandRepo, *mockVoucherRepo) {
	settlements := new(mockSettlementRepo)
	brands := new(mockBrandRepo)
	vouchers := new(mockVoucherRepo)
	svc := NewService(new(mockDB), settlements, brands, vouchers, nopLogger{})
	return svc, settlements, brands, vouchers
}
