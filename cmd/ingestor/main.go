package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_curator/internal/adapters/observability"
	"hotel_curator/internal/app"
	"hotel_curator/internal/domain"
	"hotel_curator/internal/shared"
	mysqlrepo "hotel_curator/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("csv", cfg.HotelsCSV).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	records, err := loadCSV(cfg.HotelsCSV)
	if err != nil {
		log.Fatal().Err(err).Str("csv", cfg.HotelsCSV).Msg("load hotels CSV failed")
	}
	log.Info().Int("rows", len(records)).Msg("hotel rows loaded")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, rec := range records {
		rec := rec

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(r domain.HotelRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertHotel(ctx, r, app.Normalize(r)); err != nil {
				log.Warn().Int64("id", r.HotelID).Err(err).Msg("upsert failed")
				return
			}
			log.Info().Int64("id", r.HotelID).Msg("upsert ok")
		}(rec)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}

// loadCSV reads a header-keyed hotels CSV into raw records. Numeric-looking
// cells become float64 so downstream lookups see them the same way a JSON
// decode would.
func loadCSV(path string) ([]domain.HotelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	out := make([]domain.HotelRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			cell := row[i]
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				raw[col] = f
			} else {
				raw[col] = cell
			}
		}
		rec := domain.HotelRecord{Raw: raw}
		if id, ok := raw["hotel_id"].(float64); ok {
			rec.HotelID = int64(id)
		}
		if rec.HotelID == 0 {
			log.Warn().Strs("row", row).Msg("skipping row without hotel_id")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
