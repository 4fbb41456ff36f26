package app

import (
	"context"
	"fmt"
	"time"

	"hotel_curator/internal/domain"
)

const progressCacheKey = "progress"

type QueryService struct {
	store    domain.ReviewStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.ReviewStore, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) ListHotels(ctx context.Context, limit int) ([]domain.HotelListItem, error) {
	return s.store.ListHotels(ctx, limit)
}

// GetHotel returns the normalized view of one source record, cache-aside.
func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.NormalizedHotel, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var nh domain.NormalizedHotel
	if ok, _ := s.cache.Get(ctx, key, &nh); ok {
		return nh, nil
	}
	rec, err := s.store.GetHotelRecord(ctx, id)
	if err != nil {
		return domain.NormalizedHotel{}, err
	}
	nh = Normalize(rec)
	_ = s.cache.Set(ctx, key, nh, int(s.cacheTTL.Seconds()))
	return nh, nil
}

// GetReviewed returns the persisted reviewed row for a hotel, cache-aside.
func (s *QueryService) GetReviewed(ctx context.Context, id int64) (domain.ReviewedRecord, error) {
	key := fmt.Sprintf("reviewed:%d", id)
	var rec domain.ReviewedRecord
	if ok, _ := s.cache.Get(ctx, key, &rec); ok {
		return rec, nil
	}
	rec, err := s.store.GetReviewed(ctx, id)
	if err != nil {
		return domain.ReviewedRecord{}, err
	}
	_ = s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds()))
	return rec, nil
}

// Progress tallies reviewed rows by action against the source total.
func (s *QueryService) Progress(ctx context.Context) (domain.Progress, error) {
	var p domain.Progress
	if ok, _ := s.cache.Get(ctx, progressCacheKey, &p); ok {
		return p, nil
	}

	hotels, err := s.store.ListHotels(ctx, 0)
	if err != nil {
		return domain.Progress{}, err
	}
	rows, err := s.store.ListReviewed(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	p.TotalHotels = len(hotels)
	p.Reviewed = len(rows)
	for _, r := range rows {
		switch r.Status {
		case domain.ActionAccept:
			p.Accepted++
		case domain.ActionEdit:
			p.Edited++
		}
	}
	_ = s.cache.Set(ctx, progressCacheKey, p, int(s.cacheTTL.Seconds()))
	return p, nil
}
