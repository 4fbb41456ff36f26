package domain

import "context"

// Generator is the opaque text-completion capability. Implementations issue
// exactly one external call per Generate and propagate failures as-is.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ReviewStore persists the hotel source and the reviewed rows.
type ReviewStore interface {
	// Source reads
	GetHotelRecord(ctx context.Context, id int64) (HotelRecord, error)
	ListHotels(ctx context.Context, limit int) ([]HotelListItem, error)

	// Reviewed rows (accepted/edited only; one row per hotel id)
	UpsertReviewed(ctx context.Context, rec ReviewedRecord) error
	GetReviewed(ctx context.Context, id int64) (ReviewedRecord, error)
	ListReviewed(ctx context.Context) ([]ReviewedRecord, error)
	DeleteReviewed(ctx context.Context, id int64) error
	ResetReviewed(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Progress is the reviewed/source tally shown on the control surface.
type Progress struct {
	TotalHotels int `json:"total_hotels"`
	Reviewed    int `json:"reviewed"`
	Accepted    int `json:"accepted"`
	Edited      int `json:"edited"`
}
