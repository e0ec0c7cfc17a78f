package ports

import (
	"context"

	"github.com/giftbridge/settlement-service/internal/domain/models"
)

// BrandRepository defines persistence for brand partners and their terms
type BrandRepository interface {
	Create(ctx context.Context, tx DBTX, brand *models.Brand) error
	GetByID(ctx context.Context, db DBTX, id string) (*models.Brand, error)
	List(ctx context.Context, db DBTX, status models.BrandStatus, limit, offset int32) ([]*models.Brand, error)
	Update(ctx context.Context, tx DBTX, brand *models.Brand) error
	UpdateStatus(ctx context.Context, tx DBTX, id string, status models.BrandStatus) error

	// Terms are one-to-one with the brand and never deleted independently
	UpsertTerms(ctx context.Context, tx DBTX, terms *models.BrandTerms) error
	GetTerms(ctx context.Context, db DBTX, brandID string) (*models.BrandTerms, error)
}
