package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/metrics"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

type Deduplicator interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type Archiver interface {
	Archive(ctx context.Context, msg *models.AdCreatedMessage) error
}

// ArchiveService writes every ad created event to object storage once.
type ArchiveService struct {
	dedupe   Deduplicator
	archiver Archiver
	metrics  *metrics.Metrics
}

func NewArchiveService(dedupe Deduplicator, archiver Archiver, m *metrics.Metrics) *ArchiveService {
	return &ArchiveService{dedupe: dedupe, archiver: archiver, metrics: m}
}

func (s *ArchiveService) HandleAdCreated(ctx context.Context, msg *models.AdCreatedMessage) error {
	if s.dedupe != nil {
		first, err := s.dedupe.Claim(ctx, msg.EventID)
		if err != nil {
			s.metrics.Archived("failed")
			return fmt.Errorf("claim event: %w", err)
		}
		if !first {
			s.metrics.Archived("duplicate")
			logrus.WithField("event_id", msg.EventID).Debug("duplicate event skipped")
			return nil
		}
	}

	if err := s.archiver.Archive(ctx, msg); err != nil {
		s.metrics.Archived("failed")
		if s.dedupe != nil {
			if relErr := s.dedupe.Release(ctx, msg.EventID); relErr != nil {
				logrus.WithError(relErr).WithField("event_id", msg.EventID).Warn("release dedupe claim")
			}
		}
		return fmt.Errorf("archive event: %w", err)
	}

	s.metrics.Archived("stored")
	logrus.WithFields(logrus.Fields{
		"event_id": msg.EventID,
		"ad_id":    msg.Entry.ID,
	}).Info("event archived")
	return nil
}
