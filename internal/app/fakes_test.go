package app_test

import (
	"context"
	"fmt"

	"hotel_curator/internal/domain"
)

// ---- fakes shared across the app tests ----

type fakeStore struct {
	hotels   map[int64]domain.HotelRecord
	reviewed map[int64]domain.ReviewedRecord

	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hotels:   map[int64]domain.HotelRecord{},
		reviewed: map[int64]domain.ReviewedRecord{},
	}
}

func (f *fakeStore) GetHotelRecord(ctx context.Context, id int64) (domain.HotelRecord, error) {
	rec, ok := f.hotels[id]
	if !ok {
		return domain.HotelRecord{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeStore) ListHotels(ctx context.Context, limit int) ([]domain.HotelListItem, error) {
	out := make([]domain.HotelListItem, 0, len(f.hotels))
	for id := range f.hotels {
		out = append(out, domain.HotelListItem{HotelID: id})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertReviewed(ctx context.Context, rec domain.ReviewedRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.reviewed[rec.HotelID] = rec
	return nil
}

func (f *fakeStore) GetReviewed(ctx context.Context, id int64) (domain.ReviewedRecord, error) {
	rec, ok := f.reviewed[id]
	if !ok {
		return domain.ReviewedRecord{}, fmt.Errorf("reviewed %d: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeStore) ListReviewed(ctx context.Context) ([]domain.ReviewedRecord, error) {
	out := make([]domain.ReviewedRecord, 0, len(f.reviewed))
	for _, r := range f.reviewed {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) DeleteReviewed(ctx context.Context, id int64) error {
	if _, ok := f.reviewed[id]; !ok {
		return fmt.Errorf("reviewed %d: %w", id, domain.ErrNotFound)
	}
	delete(f.reviewed, id)
	return nil
}

func (f *fakeStore) ResetReviewed(ctx context.Context) error {
	f.reviewed = map[int64]domain.ReviewedRecord{}
	return nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.NormalizedHotel:
		*d = v.(domain.NormalizedHotel)
	case *domain.ReviewedRecord:
		*d = v.(domain.ReviewedRecord)
	case *domain.Progress:
		*d = v.(domain.Progress)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// fakeGen replays canned outputs and records every prompt it sees.
type fakeGen struct {
	out     string
	err     error
	calls   int
	systems []string
	users   []string
}

func (g *fakeGen) Generate(ctx context.Context, system, user string) (string, error) {
	g.calls++
	g.systems = append(g.systems, system)
	g.users = append(g.users, user)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}
