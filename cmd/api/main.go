package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/llm"
	"travel_planner/internal/adapters/observability"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/shared"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	model, err := llm.New(cfg.OpenAIKey, llm.Options{
		BaseURL:    cfg.OpenAIBase,
		Model:      cfg.OpenAIModel,
		RPS:        cfg.LLMRPS,
		MaxRetries: 3,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize LLM client")
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := redisad.NewSessions(cache.Client())

	catalog := app.NewCatalogService(repo, cache, cfg.CacheTTL)
	reviews := app.NewReviewService(repo, model, model, cache, cfg.CacheTTL)
	itineraries := app.NewItineraryService(repo, catalog)
	auth := app.NewAuthService(repo, sessions, cfg.SessionTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:      catalog,
		Reviews:      reviews,
		Itineraries:  itineraries,
		Auth:         auth,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
