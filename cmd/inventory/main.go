package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/api"
	"github.com/vmaslov/flightbooking/config"
	"github.com/vmaslov/flightbooking/internal/bootstrap"
	"github.com/vmaslov/flightbooking/internal/cache"
	"github.com/vmaslov/flightbooking/internal/repository"
	"github.com/vmaslov/flightbooking/internal/service/inventory"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "inventory").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/inventory.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	scheduleTTL := time.Duration(cfg.Booking.ScheduleCacheTTLSeconds) * time.Second
	pnrTTL := time.Duration(cfg.Booking.PNRHoldTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, scheduleTTL, pnrTTL)

	scheduleRepo := repository.NewScheduleRepository(pool)
	inventoryService := inventory.NewInventoryService(scheduleRepo, redisCache, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	api.NewScheduleHandler(inventoryService).Register(router.Group("/api/v1/schedules"))

	if err := bootstrap.Run(ctx, cfg.HTTP, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
