package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	LodgifyBase   string
	LodgifyKey    string
	MondayAPI     string
	MondayKey     string
	MondayBoardID string
	MondayGroupID string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	Workers       int
	PageSize      int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		LodgifyBase:   env("LODGIFY_BASE_URL", "https://api.lodgify.com/v2"),
		LodgifyKey:    env("LODGIFY_API_KEY", ""),
		MondayAPI:     env("MONDAY_ENDPOINT", "https://api.monday.com/v2"),
		MondayKey:     env("MONDAY_API_KEY", ""),
		MondayBoardID: env("MONDAY_BOARD_ID", ""),
		MondayGroupID: env("MONDAY_GROUP_ID", "topics"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		Workers:       atoi("SYNC_WORKERS", 4),
		PageSize:      atoi("SYNC_PAGE_SIZE", 50),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.LodgifyKey == "" {
		log.Warn().Msg("LODGIFY_API_KEY is empty")
	}
	if c.MondayKey == "" {
		log.Warn().Msg("MONDAY_API_KEY is empty")
	}
	if c.MondayBoardID == "" {
		log.Warn().Msg("MONDAY_BOARD_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
