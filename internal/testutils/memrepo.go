package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/repo/interfaces"
)

// MemRepo is an in-memory interfaces.AdRepo. Setting Err makes every call fail with it.
type MemRepo struct {
	mu     sync.Mutex
	nextID int64
	Ads    map[int64]models.AdEntry
	Err    error

	LastSkip, LastLimit int
}

var _ interfaces.AdRepo = (*MemRepo)(nil)

// NewMemRepo stores entries with ids assigned from 1 in order.
func NewMemRepo(entries ...models.AdEntry) *MemRepo {
	r := &MemRepo{Ads: map[int64]models.AdEntry{}}
	for _, e := range entries {
		r.nextID++
		e.ID = r.nextID
		r.Ads[e.ID] = e
	}
	return r
}

func (r *MemRepo) sorted() []models.AdEntry {
	out := make([]models.AdEntry, 0, len(r.Ads))
	for _, a := range r.Ads {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemRepo) ListAds(_ context.Context, skip, limit int) ([]models.AdEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.LastSkip, r.LastLimit = skip, limit

	all := r.sorted()
	if skip >= len(all) {
		return []models.AdEntry{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *MemRepo) GetAllAds(context.Context) ([]models.AdEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(), nil
}

func (r *MemRepo) GetAdByID(_ context.Context, id int64) (*models.AdEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.Ads[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *MemRepo) CreateAd(_ context.Context, entry *models.AdEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	r.Ads[entry.ID] = *entry
	return nil
}

func (r *MemRepo) CreateAdsBatch(ctx context.Context, entries []models.AdEntry) error {
	for i := range entries {
		e := entries[i]
		if err := r.CreateAd(ctx, &e); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemRepo) UpdateAd(_ context.Context, entry *models.AdEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	old, ok := r.Ads[entry.ID]
	if !ok {
		return false, nil
	}
	entry.CreatedAt = old.CreatedAt
	entry.UpdatedAt = time.Now()
	r.Ads[entry.ID] = *entry
	return true, nil
}

func (r *MemRepo) DeleteAd(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.Ads[id]; !ok {
		return false, nil
	}
	delete(r.Ads, id)
	return true, nil
}

func (r *MemRepo) RescoreAll(_ context.Context, fn interfaces.RescoreFunc) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, a := range r.Ads {
		score := fn(a)
		if score == a.Score {
			continue
		}
		a.Score = score
		r.Ads[id] = a
		n++
	}
	return n, nil
}
