package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "lodgify_sync/internal/adapters/http_server"
	"lodgify_sync/internal/adapters/lodgify"
	"lodgify_sync/internal/adapters/monday"
	"lodgify_sync/internal/adapters/observability"
	redisad "lodgify_sync/internal/adapters/redis"
	"lodgify_sync/internal/app"
	"lodgify_sync/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	source, err := lodgify.New(cfg.LodgifyBase, cfg.LodgifyKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Lodgify client")
	}
	board, err := monday.New(cfg.MondayAPI, cfg.MondayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize monday client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sync := app.NewSyncService(board, source, cache, cfg.MondayBoardID, cfg.MondayGroupID, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Sync: sync, BoardID: cfg.MondayBoardID, PageSize: cfg.PageSize})

	log.Info().Str("addr", cfg.HTTPAddr).Str("board_id", cfg.MondayBoardID).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
