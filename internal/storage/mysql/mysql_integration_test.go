//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_curator/internal/app"
	"hotel_curator/internal/domain"
	mysqlrepo "hotel_curator/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=curator",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "curator")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_RoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed one source record and read it back verbatim.
	rec := domain.HotelRecord{
		HotelID: 10001,
		Raw: map[string]any{
			"hotel_name":       "Bay Inn",
			"city":             "Austin",
			"country":          "USA",
			"star_rating":      4.0,
			"lat":              30.27,
			"lon":              -97.74,
			"cleanliness_base": 8.0,
			"comfort_base":     7.5,
		},
	}
	if err := repo.UpsertHotel(ctx, rec, app.Normalize(rec)); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	got, err := repo.GetHotelRecord(ctx, 10001)
	if err != nil {
		t.Fatalf("GetHotelRecord: %v", err)
	}
	if got.HotelID != 10001 || got.Raw["hotel_name"] != "Bay Inn" {
		t.Fatalf("unexpected record: %+v", got)
	}

	items, err := repo.ListHotels(ctx, 0)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Bay Inn" || items[0].StarRating != 4 {
		t.Fatalf("unexpected listing: %+v", items)
	}

	// Reviewed row lifecycle: upsert, get, list, delete, reset.
	rv := domain.ReviewedRecord{
		HotelID:         10001,
		HotelName:       "Bay Inn",
		DraftSummary:    "Draft text",
		FinalSummary:    "Final text",
		Status:          domain.ActionEdit,
		ReviewTimestamp: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		CritiqueIssues:  []string{"Word count 2 (expected 60-100)"},
	}
	if err := repo.UpsertReviewed(ctx, rv); err != nil {
		t.Fatalf("UpsertReviewed: %v", err)
	}

	gotRv, err := repo.GetReviewed(ctx, 10001)
	if err != nil {
		t.Fatalf("GetReviewed: %v", err)
	}
	if gotRv.Status != domain.ActionEdit || gotRv.FinalSummary != "Final text" {
		t.Fatalf("unexpected reviewed row: %+v", gotRv)
	}
	if !gotRv.ReviewTimestamp.Equal(rv.ReviewTimestamp) {
		t.Fatalf("timestamp drift: got %v want %v", gotRv.ReviewTimestamp, rv.ReviewTimestamp)
	}
	if len(gotRv.CritiqueIssues) != 1 {
		t.Fatalf("critique issues lost: %+v", gotRv.CritiqueIssues)
	}

	// Upsert on the same id replaces, never duplicates.
	rv.FinalSummary = "Final text v2"
	rv.Status = domain.ActionAccept
	if err := repo.UpsertReviewed(ctx, rv); err != nil {
		t.Fatalf("UpsertReviewed (again): %v", err)
	}
	rows, err := repo.ListReviewed(ctx)
	if err != nil {
		t.Fatalf("ListReviewed: %v", err)
	}
	if len(rows) != 1 || rows[0].FinalSummary != "Final text v2" {
		t.Fatalf("unexpected rows after re-upsert: %+v", rows)
	}

	if err := repo.DeleteReviewed(ctx, 10001); err != nil {
		t.Fatalf("DeleteReviewed: %v", err)
	}
	if err := repo.DeleteReviewed(ctx, 10001); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetReviewed(ctx, 10001); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}

	if err := repo.UpsertReviewed(ctx, rv); err != nil {
		t.Fatalf("UpsertReviewed (reseed): %v", err)
	}
	if err := repo.ResetReviewed(ctx); err != nil {
		t.Fatalf("ResetReviewed: %v", err)
	}
	rows, err = repo.ListReviewed(ctx)
	if err != nil {
		t.Fatalf("ListReviewed after reset: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("reset left rows behind: %+v", rows)
	}
}
