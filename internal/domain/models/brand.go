package models

import "time"

// BrandStatus represents the lifecycle state of a brand partner
type BrandStatus string

const (
	BrandActive   BrandStatus = "active"
	BrandPaused   BrandStatus = "paused"
	BrandArchived BrandStatus = "archived"
)

// Brand represents a gift-card brand partner
type Brand struct {
	ID           string
	Name         string
	ContactEmail string
	Status       BrandStatus
	Currency     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
