package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lodgify_sync/internal/adapters/lodgify"
	"lodgify_sync/internal/adapters/monday"
	"lodgify_sync/internal/adapters/observability"
	redisad "lodgify_sync/internal/adapters/redis"
	"lodgify_sync/internal/app"
	"lodgify_sync/internal/domain"
	"lodgify_sync/internal/shared"
)

// One-shot batch run: page through every booking on the source and upsert
// each onto the board. Record failures are logged and counted, never fatal.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.LodgifyBase).
		Str("board_id", cfg.MondayBoardID).
		Int("workers", cfg.Workers).
		Int("page_size", cfg.PageSize).
		Msg("syncer starting")

	source, err := lodgify.New(cfg.LodgifyBase, cfg.LodgifyKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Lodgify client")
	}
	board, err := monday.New(cfg.MondayAPI, cfg.MondayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize monday client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewSyncService(board, source, cache, cfg.MondayBoardID, cfg.MondayGroupID, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var created, updated, failed atomic.Int64

	for skip := 0; ; skip += cfg.PageSize {
		bookings, err := source.FetchBookings(ctx, cfg.PageSize, skip)
		if err != nil {
			log.Fatal().Int("skip", skip).Err(err).Msg("fetch bookings failed")
		}
		if len(bookings) == 0 {
			break
		}
		log.Info().Int("count", len(bookings)).Int("skip", skip).Msg("fetched page")

		for _, b := range bookings {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func(bk domain.Booking) {
				defer wg.Done()
				defer sem.Release(1)

				res := svc.UpsertBooking(ctx, bk)
				switch {
				case res.Error != "":
					failed.Add(1)
				case res.Action == domain.ActionUpdated:
					updated.Add(1)
				default:
					created.Add(1)
				}
			}(b)
		}

		if len(bookings) < cfg.PageSize {
			break
		}
	}

	wg.Wait()
	log.Info().
		Int64("created", created.Load()).
		Int64("updated", updated.Load()).
		Int64("failed", failed.Load()).
		Msg("sync completed")
}
