package service

import (
	"context"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/testutils"
)

func newMemRepo(entries ...models.AdEntry) *testutils.MemRepo {
	return testutils.NewMemRepo(entries...)
}

type recordingPublisher struct {
	published []models.AdEntry
	err       error
}

func (p *recordingPublisher) PublishAdCreated(_ context.Context, entry models.AdEntry) error {
	p.published = append(p.published, entry)
	return p.err
}
