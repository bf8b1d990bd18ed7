package interfaces

import (
	"context"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

// RescoreFunc returns the new score for a stored entry.
type RescoreFunc func(entry models.AdEntry) float64

type AdRepo interface {
	ListAds(ctx context.Context, skip, limit int) ([]models.AdEntry, error)
	GetAllAds(ctx context.Context) ([]models.AdEntry, error)
	// GetAdByID returns nil, nil when no entry has the id.
	GetAdByID(ctx context.Context, id int64) (*models.AdEntry, error)
	CreateAd(ctx context.Context, entry *models.AdEntry) error
	CreateAdsBatch(ctx context.Context, entries []models.AdEntry) error
	// UpdateAd and DeleteAd report false when no entry has the id.
	UpdateAd(ctx context.Context, entry *models.AdEntry) (bool, error)
	DeleteAd(ctx context.Context, id int64) (bool, error)
	RescoreAll(ctx context.Context, fn RescoreFunc) (int64, error)
}
