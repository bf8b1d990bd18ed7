package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

type memDedupe struct {
	seen     map[string]bool
	err      error
	released []string
}

func (d *memDedupe) Claim(_ context.Context, eventID string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *memDedupe) Release(_ context.Context, eventID string) error {
	delete(d.seen, eventID)
	d.released = append(d.released, eventID)
	return nil
}

type memArchiver struct {
	stored []string
	err    error
}

func (a *memArchiver) Archive(_ context.Context, msg *models.AdCreatedMessage) error {
	if a.err != nil {
		return a.err
	}
	a.stored = append(a.stored, msg.EventID)
	return nil
}

func TestArchiveServiceStoresOnce(t *testing.T) {
	dedupe := &memDedupe{seen: map[string]bool{}}
	archiver := &memArchiver{}
	svc := NewArchiveService(dedupe, archiver, nil)
	ctx := context.Background()

	msg := &models.AdCreatedMessage{EventID: "evt-1", Entry: models.AdEntry{ID: 9}}
	require.NoError(t, svc.HandleAdCreated(ctx, msg))
	require.NoError(t, svc.HandleAdCreated(ctx, msg))

	assert.Equal(t, []string{"evt-1"}, archiver.stored)
}

func TestArchiveServiceReleasesOnFailure(t *testing.T) {
	dedupe := &memDedupe{seen: map[string]bool{}}
	archiver := &memArchiver{err: errors.New("bucket missing")}
	svc := NewArchiveService(dedupe, archiver, nil)
	ctx := context.Background()

	msg := &models.AdCreatedMessage{EventID: "evt-2"}
	err := svc.HandleAdCreated(ctx, msg)
	require.Error(t, err)
	assert.Equal(t, []string{"evt-2"}, dedupe.released)

	archiver.err = nil
	require.NoError(t, svc.HandleAdCreated(ctx, msg))
	assert.Equal(t, []string{"evt-2"}, archiver.stored)
}

func TestArchiveServiceDedupeError(t *testing.T) {
	dedupe := &memDedupe{seen: map[string]bool{}, err: errors.New("redis down")}
	archiver := &memArchiver{}
	svc := NewArchiveService(dedupe, archiver, nil)

	err := svc.HandleAdCreated(context.Background(), &models.AdCreatedMessage{EventID: "evt-3"})
	require.Error(t, err)
	assert.Empty(t, archiver.stored)
}

func TestArchiveServiceWithoutDedupe(t *testing.T) {
	archiver := &memArchiver{}
	svc := NewArchiveService(nil, archiver, nil)

	msg := &models.AdCreatedMessage{EventID: "evt-4"}
	require.NoError(t, svc.HandleAdCreated(context.Background(), msg))
	require.NoError(t, svc.HandleAdCreated(context.Background(), msg))
	assert.Len(t, archiver.stored, 2)
}
