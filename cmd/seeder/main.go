package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_planner/internal/adapters/observability"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	destinations := app.SeedDestinations()
	log.Info().
		Int("workers", cfg.SeedWorkers).
		Int("destinations", len(destinations)).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	seed := app.NewSeedService(repo, cache)

	if err := seed.SeedActivities(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed activities failed")
	}

	workers := cfg.SeedWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, d := range destinations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(d domain.Destination) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seed.SeedDestination(ctx, d); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", d.ID).Str("name", d.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", d.ID).Str("name", d.Name).Msg("seed ok")
		}(d)
	}

	wg.Wait()
	seed.InvalidateCatalog(ctx)
	if n := failed.Load(); n > 0 {
		log.Fatal().Int32("failed", n).Msg("seeding finished with errors")
	}
	log.Info().Msg("seeding completed")
}
