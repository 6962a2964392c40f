package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/bootstrap"
	"github.com/Domenick1991/travelbook/internal/cache"
	"github.com/Domenick1991/travelbook/internal/export"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/logger"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/service/analytics"
	"github.com/Domenick1991/travelbook/internal/service/booking"
	"github.com/Domenick1991/travelbook/internal/service/companies"
	"github.com/Domenick1991/travelbook/internal/service/tickets"
	"github.com/Domenick1991/travelbook/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New("travelbook")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Tickets.CacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL())

	ticketRepo := repository.NewTicketRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)

	ticketService := tickets.NewTicketService(ticketRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		ticketRepo,
		tokens,
		producer,
		cfg.Kafka.BookingEventsTopic,
		zlog,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	userService := users.NewUserService(userRepo, tokens)
	companyService := companies.NewCompanyService(companyRepo)
	analyticsService := analytics.NewService(bookingRepo, ticketRepo, userRepo, companyRepo, export.NewCSVWriter(cfg.Export.Dir))

	svc := bootstrap.Services{
		Tickets:   ticketService,
		Bookings:  bookingService,
		Users:     userService,
		Companies: companyService,
		Analytics: analyticsService,
		Tokens:    tokens,
	}
	if err := bootstrap.Run(ctx, cfg, zlog, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
