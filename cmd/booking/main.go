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
	"github.com/vmaslov/flightbooking/internal/client"
	"github.com/vmaslov/flightbooking/internal/kafka"
	"github.com/vmaslov/flightbooking/internal/repository"
	"github.com/vmaslov/flightbooking/internal/service/booking"
	"github.com/vmaslov/flightbooking/internal/service/tickets"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "booking").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/booking.yaml"
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	ticketService := tickets.NewTicketService(ticketRepo, bookingRepo, logger)
	inventoryClient := client.NewHTTPInventoryClient(cfg.Inventory.BaseURL, cfg.Inventory.RequestTimeout(), cfg.Inventory.ReleaseRetries, logger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		inventoryClient,
		ticketService,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		booking.WithPNRAttempts(cfg.Booking.PNRAttempts),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	api.NewBookingHandler(bookingService).Register(router.Group("/api/v1/bookings"))
	api.NewTicketHandler(ticketService).Register(router.Group("/api/v1/tickets"))

	if err := bootstrap.Run(ctx, cfg.HTTP, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
