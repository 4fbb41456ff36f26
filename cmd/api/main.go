package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_curator/internal/adapters/generation"
	server "hotel_curator/internal/adapters/http_server"
	"hotel_curator/internal/adapters/observability"
	openaiad "hotel_curator/internal/adapters/openai"
	redisad "hotel_curator/internal/adapters/redis"
	"hotel_curator/internal/app"
	"hotel_curator/internal/shared"
	mysqlrepo "hotel_curator/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// generation clients; a missing OPENAI_API_KEY is fatal at startup
	drafter, err := openaiad.New(cfg.OpenAIKey, cfg.OpenAIBase, cfg.OpenAIModel, float32(cfg.Temperature), cfg.GenerationRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("drafter generation client init failed")
	}
	learnerGen, err := generation.NewLearnerGenerator(context.Background(), cfg)
	if err != nil {
		// Narrative enrichment is optional; fall back to the base learner.
		log.Warn().Err(err).Msg("learner generation client unavailable; narrative enrichment disabled")
		learnerGen = nil
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	learner := app.NewFeedbackLearner(cfg.LearnThreshold, learnerGen)
	review := app.NewReviewService(repo, cache, drafter, learner)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, R: review, L: learner, Sessions: app.NewSessions()})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("review API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
