//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "hotel_curator/internal/adapters/http_server"
	redisad "hotel_curator/internal/adapters/redis"
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

// scriptedGen returns a fixed draft so the whole review flow is deterministic.
type scriptedGen struct{ draft string }

func (g *scriptedGen) Generate(ctx context.Context, system, user string) (string, error) {
	return g.draft, nil
}

func TestHTTP_EndToEnd_ReviewFlow(t *testing.T) {
	// Start isolated MySQL container
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

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed one source hotel.
	rec := domain.HotelRecord{
		HotelID: 22002,
		Raw: map[string]any{
			"hotel_name":       "Bay Inn",
			"city":             "Austin",
			"country":          "USA",
			"star_rating":      4.0,
			"cleanliness_base": 8.0,
			"comfort_base":     7.5,
		},
	}
	if err := repo.UpsertHotel(ctx, rec, app.Normalize(rec)); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	// Full stack: real router and middleware, redis-backed cache, scripted
	// generator so no external service is touched.
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	gen := &scriptedGen{draft: "A 4-star hotel in Austin with solid comfort and cleanliness scores."}
	learner := app.NewFeedbackLearner(5, nil)
	review := app.NewReviewService(repo, cache, gen, learner)
	q := app.NewQueryService(repo, cache, time.Minute)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Q: q, R: review, L: learner, Sessions: app.NewSessions()})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	post := func(path string, body any) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		res, err := http.Post(ts.URL+path, "application/json", &buf)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return res
	}
	decode := func(res *http.Response, dst any) {
		t.Helper()
		defer res.Body.Close()
		if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}

	// Draft
	res := post("/v1/hotels/22002/draft", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("draft status %d", res.StatusCode)
	}
	var draft struct {
		HotelID      int64  `json:"hotel_id"`
		DraftSummary string `json:"draft_summary"`
		Stage        string `json:"stage"`
	}
	decode(res, &draft)
	if draft.Stage != "drafted" || draft.DraftSummary == "" {
		t.Fatalf("unexpected draft response: %+v", draft)
	}

	// Decide: edit with replacement text
	res = post("/v1/hotels/22002/decision", map[string]string{"action": "edit", "text": "Human rewrite of the summary."})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("decision status %d", res.StatusCode)
	}
	var decision struct {
		Stage        string `json:"stage"`
		FinalSummary string `json:"final_summary"`
		Stored       bool   `json:"stored"`
	}
	decode(res, &decision)
	if decision.Stage != "stored" || !decision.Stored || decision.FinalSummary != "Human rewrite of the summary." {
		t.Fatalf("unexpected decision response: %+v", decision)
	}

	// Review row is persisted with the edit status and both texts.
	res, err = http.Get(ts.URL + "/v1/hotels/22002/review")
	if err != nil {
		t.Fatalf("GET review: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("review status %d", res.StatusCode)
	}
	var reviewed domain.ReviewedRecord
	decode(res, &reviewed)
	if reviewed.Status != domain.ActionEdit || reviewed.DraftSummary != draft.DraftSummary {
		t.Fatalf("unexpected reviewed row: %+v", reviewed)
	}

	// Drafting again conflicts until the row is deleted.
	res = post("/v1/hotels/22002/draft", nil)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("re-draft status %d, want 409", res.StatusCode)
	}
	res.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/hotels/22002/review", nil)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE review: %v", err)
	}
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", res.StatusCode)
	}
	res.Body.Close()

	// Eligible again; reject this time, nothing persisted.
	res = post("/v1/hotels/22002/draft", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("draft after delete status %d", res.StatusCode)
	}
	res.Body.Close()

	res = post("/v1/hotels/22002/decision", map[string]string{"action": "reject"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reject status %d", res.StatusCode)
	}
	decode(res, &decision)
	if decision.Stored || decision.Stage != "discarded" {
		t.Fatalf("reject must not store: %+v", decision)
	}

	res, err = http.Get(ts.URL + "/v1/hotels/22002/review")
	if err != nil {
		t.Fatalf("GET review: %v", err)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("review after reject status %d, want 404", res.StatusCode)
	}
	res.Body.Close()

	// Learning surface counts both completed outcomes.
	res, err = http.Get(ts.URL + "/v1/learning")
	if err != nil {
		t.Fatalf("GET learning: %v", err)
	}
	var learning struct {
		Completed int             `json:"completed"`
		Progress  domain.Progress `json:"progress"`
	}
	decode(res, &learning)
	if learning.Completed != 2 {
		t.Fatalf("completed = %d, want 2", learning.Completed)
	}
	if learning.Progress.TotalHotels != 1 || learning.Progress.Reviewed != 0 {
		t.Fatalf("unexpected progress: %+v", learning.Progress)
	}

	// Reset clears the learner log.
	res = post("/v1/reset", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reset status %d", res.StatusCode)
	}
	res.Body.Close()
	if learner.Completed() != 0 {
		t.Fatalf("learner log survives reset: %d", learner.Completed())
	}
}
