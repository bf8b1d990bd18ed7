package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/metrics"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/repo/interfaces"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/utils"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type EventPublisher interface {
	PublishAdCreated(ctx context.Context, entry models.AdEntry) error
}

// Options holds the optional collaborators; any of them may be nil.
type Options struct {
	Publisher EventPublisher
	Metrics   *metrics.Metrics
}

type AdService struct {
	repo      interfaces.AdRepo
	publisher EventPublisher
	metrics   *metrics.Metrics
}

func NewAdService(repo interfaces.AdRepo, opts Options) *AdService {
	return &AdService{
		repo:      repo,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
	}
}

// ListAds returns at most limit entries after skipping skip, ordered by id.
// A zero limit returns no entries; limits above MaxLimit are capped.
func (s *AdService) ListAds(ctx context.Context, skip, limit int) ([]models.AdEntry, error) {
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", ErrValidation)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	ads, err := s.repo.ListAds(ctx, skip, limit)
	if err != nil {
		return nil, s.storageErr("list ads", err)
	}
	return ads, nil
}

func (s *AdService) GetAd(ctx context.Context, id int64) (*models.AdEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrValidation)
	}

	ad, err := s.repo.GetAdByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("get ad", err)
	}
	if ad == nil {
		return nil, fmt.Errorf("ad %d: %w", id, ErrNotFound)
	}
	return ad, nil
}

// CreateAd stores a new entry, computing its score when the request leaves it unset.
func (s *AdService) CreateAd(ctx context.Context, req *models.CreateAdRequest) (*models.AdEntry, error) {
	if err := utils.ValidateAdRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	score, computed := resolveScore(req)
	entry := req.ToEntry(score)

	if err := s.repo.CreateAd(ctx, entry); err != nil {
		return nil, s.storageErr("create ad", err)
	}

	s.metrics.AdCreated(entry.Source, entry.Score, computed)

	if s.publisher != nil {
		if err := s.publisher.PublishAdCreated(ctx, *entry); err != nil {
			logrus.WithError(err).WithField("ad_id", entry.ID).Warn("publish ad created event")
		}
	}

	logrus.WithFields(logrus.Fields{
		"ad_id":          entry.ID,
		"source":         entry.Source,
		"score":          entry.Score,
		"score_computed": computed,
	}).Info("ad created")

	return entry, nil
}

func (s *AdService) UpdateAd(ctx context.Context, id int64, req *models.UpdateAdRequest) (*models.AdEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrValidation)
	}
	if err := utils.ValidateAdRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	score, _ := resolveScore(req)
	entry := req.ToEntry(score)
	entry.ID = id

	found, err := s.repo.UpdateAd(ctx, entry)
	if err != nil {
		return nil, s.storageErr("update ad", err)
	}
	if !found {
		return nil, fmt.Errorf("ad %d: %w", id, ErrNotFound)
	}

	return entry, nil
}

func (s *AdService) DeleteAd(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrValidation)
	}

	found, err := s.repo.DeleteAd(ctx, id)
	if err != nil {
		return s.storageErr("delete ad", err)
	}
	if !found {
		return fmt.Errorf("ad %d: %w", id, ErrNotFound)
	}

	return nil
}

// GetDashboardStats aggregates every stored entry. Stats are computed on each
// call and never stored, so they always reflect the latest writes.
func (s *AdService) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	ads, err := s.repo.GetAllAds(ctx)
	if err != nil {
		return models.DashboardStats{}, s.storageErr("get all ads", err)
	}

	return scoring.Aggregate(ads), nil
}

// RescoreAll recomputes the score of every stored entry and returns how many changed.
func (s *AdService) RescoreAll(ctx context.Context) (int64, error) {
	updated, err := s.repo.RescoreAll(ctx, func(ad models.AdEntry) float64 {
		return scoring.Compute(ad.ClickCount, ad.Cost, ad.Source)
	})
	if err != nil {
		return 0, s.storageErr("rescore ads", err)
	}

	logrus.WithField("updated", updated).Info("ads rescored")
	return updated, nil
}

func resolveScore(req *models.CreateAdRequest) (float64, bool) {
	if req.ScoreUnset() {
		return scoring.Compute(req.ClickCount, req.Cost, req.Source), true
	}
	return *req.Score, false
}

func (s *AdService) storageErr(op string, err error) error {
	s.metrics.StorageError()
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
