package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"hotel_curator/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertHotel writes one source record. The raw payload is kept verbatim so
// the Normalizer always sees the original row; the normalized view only
// feeds the queryable columns.
func (r *Repo) UpsertHotel(ctx context.Context, rec domain.HotelRecord, nh domain.NormalizedHotel) error {
	raw, err := json.Marshal(rec.Raw)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		rec.HotelID,
		nh.Name,
		nh.City,
		nh.Country,
		nh.StarRating,
		firstFloat(rec.Raw, "lat", "latitude"),
		firstFloat(rec.Raw, "lon", "lng", "longitude"),
		nh.Scores["cleanliness"],
		nh.Scores["comfort"],
		nh.Scores["facilities"],
		nh.Scores["location"],
		nh.Scores["staff"],
		nh.Scores["value"],
		string(raw),
	)
	return err
}

func (r *Repo) GetHotelRecord(ctx context.Context, id int64) (domain.HotelRecord, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id)

	var rec domain.HotelRecord
	var raw []byte
	if err := row.Scan(&rec.HotelID, &raw); err != nil {
		if err == sql.ErrNoRows {
			return domain.HotelRecord{}, domain.ErrNotFound
		}
		return domain.HotelRecord{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Raw); err != nil {
			return domain.HotelRecord{}, err
		}
	}
	return rec, nil
}

func (r *Repo) ListHotels(ctx context.Context, limit int) ([]domain.HotelListItem, error) {
	q := listHotelsSQL
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelListItem
	for rows.Next() {
		var it domain.HotelListItem
		var name, city, country sql.NullString
		var stars sql.NullInt64
		if err := rows.Scan(&it.HotelID, &name, &city, &country, &stars); err != nil {
			return nil, err
		}
		it.Name = name.String
		it.City = city.String
		it.Country = country.String
		it.StarRating = int(stars.Int64)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertReviewed(ctx context.Context, rec domain.ReviewedRecord) error {
	issues, _ := json.Marshal(rec.CritiqueIssues)
	_, err := r.db.ExecContext(ctx, upsertReviewedSQL,
		rec.HotelID,
		rec.HotelName,
		rec.DraftSummary,
		rec.FinalSummary,
		string(rec.Status),
		rec.ReviewTimestamp,
		string(issues),
	)
	return err
}

func (r *Repo) GetReviewed(ctx context.Context, id int64) (domain.ReviewedRecord, error) {
	return scanReviewed(r.db.QueryRowContext(ctx, getReviewedSQL, id))
}

func (r *Repo) ListReviewed(ctx context.Context) ([]domain.ReviewedRecord, error) {
	rows, err := r.db.QueryContext(ctx, listReviewedSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewedRecord
	for rows.Next() {
		rec, err := scanReviewed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteReviewed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReviewedSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResetReviewed wipes every reviewed row in one transaction so a partial
// reset is never observable.
func (r *Repo) ResetReviewed(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, resetReviewedSQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanReviewed(row rowScanner) (domain.ReviewedRecord, error) {
	var rec domain.ReviewedRecord
	var status string
	var issues []byte
	if err := row.Scan(
		&rec.HotelID,
		&rec.HotelName,
		&rec.DraftSummary,
		&rec.FinalSummary,
		&status,
		&rec.ReviewTimestamp,
		&issues,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.ReviewedRecord{}, domain.ErrNotFound
		}
		return domain.ReviewedRecord{}, err
	}
	rec.Status = domain.Action(status)
	if len(issues) > 0 {
		_ = json.Unmarshal(issues, &rec.CritiqueIssues)
	}
	return rec, nil
}

func firstFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}
