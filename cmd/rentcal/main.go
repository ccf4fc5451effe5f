package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"rentcal/internal/app"
	"rentcal/internal/app/middleware"
	appoutbox "rentcal/internal/app/outbox"
	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/inventory"
	domainpricing "rentcal/internal/domain/pricing"
	"rentcal/internal/domain/shared/money"
	"rentcal/internal/infra/broker/kafka"
	"rentcal/internal/infra/config"
	mongodb "rentcal/internal/infra/db/mongo"
	"rentcal/internal/infra/db/postgres"
	ginserver "rentcal/internal/infra/http/gin"
	"rentcal/internal/infra/obs"
	infraoutbox "rentcal/internal/infra/outbox"
	"rentcal/internal/infra/pricing"
	"rentcal/internal/infra/rulesync"
	"rentcal/internal/infra/storage/memory"
	redisstore "rentcal/internal/infra/storage/redis"
	"rentcal/internal/infra/validation"
)

const serviceName = "rentcal"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(getenv("APP_ENV", "dev"), getenv("LOG_LEVEL", "info")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	if dotenvErr != nil && !errors.Is(dotenvErr, os.ErrNotExist) {
		logger.Warn(".env load failed", "error", dotenvErr)
	}

	application, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		application.close(logger)
		os.Exit(1)
	}
	defer application.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks:  application.checks,
		Timeout: 2 * time.Second,
	}, application.handlers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		return nil
	})
	for _, run := range application.background {
		g.Go(func() error {
			if err := run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
		application.close(logger)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type propertyStore interface {
	availability.Store
	Ping(ctx context.Context) error
}

type eventQueue interface {
	appoutbox.Outbox
	infraoutbox.Queue
}

type application struct {
	handlers   ginserver.Handlers
	checks     []obs.Check
	background []func(ctx context.Context) error
	closers    []func(ctx context.Context) error
}

func (a *application) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close runs the closers in reverse order. It is safe to call twice.
func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	a := &application{}

	var (
		store       propertyStore
		idempotency middleware.IdempotencyStore
		queue       eventQueue
		inbox       rulesync.Inbox
	)
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return a, err
		}
		a.onClose(client.Close)
		store = mongodb.NewPropertyStore(client.DB)
		idempotency = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		queue = infraoutbox.NewStore(client.DB)
		inbox = mongodb.NewInbox(client.DB, cfg.KafkaGroupID)
	case config.DriverRedis:
		rdb, err := redisstore.NewClient(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return a, err
		}
		a.onClose(func(context.Context) error { return rdb.Close() })
		store = redisstore.NewPropertyStore(rdb)
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN, cfg.DBVerbose)
		if err != nil {
			return a, err
		}
		a.onClose(func(context.Context) error { return postgres.Close(db) })
		store = postgres.NewPropertyStore(db)
	default:
		store = memory.NewPropertyStore()
	}
	if idempotency == nil {
		idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	}
	if queue == nil && cfg.KafkaEnabled() {
		queue = memory.NewOutbox()
	}
	if inbox == nil {
		inbox = memory.NewInbox()
	}
	a.checks = append(a.checks, obs.Check{Name: "store", Ping: store.Ping})

	defaultRate, err := money.New(cfg.DefaultNightlyRate, cfg.Currency)
	if err != nil {
		return a, fmt.Errorf("default nightly rate: %w", err)
	}
	rates := memory.NewRateCard(pricing.LoadBaseRates(cfg.BaseRates, cfg.Currency, logger))
	calc := domainpricing.NewDynamicCalculator(rates, defaultRate, nil)

	var tracker inventory.Tracker = inventory.SingleUnit{}
	// a larger unit count raises the per-request cap only; stays never share dates
	if cfg.PropertyUnits > 1 {
		tracker = inventory.Fixed{Default: cfg.PropertyUnits}
	}
	engine := availability.NewEngine(store, calc, availability.Options{
		Inventory:   tracker,
		Logger:      logger,
		LockTimeout: cfg.LockTimeout,
	})

	deps := app.Deps{
		Engine:      engine,
		Encoder:     appoutbox.JSONEventEncoder{HeadersFrom: obs.EventHeaders},
		Idempotency: idempotency,
		Validator:   validation.New(),
		Logger:      logger,
	}
	if queue != nil {
		deps.Outbox = queue
	} else {
		logger.Info("event relay disabled, domain events are not recorded")
	}
	buses := app.NewBuses(deps)

	a.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: buses.Queries},
		Booking:      ginserver.BookingHandler{Commands: buses.Commands},
		Rules:        ginserver.RulesHandler{Commands: buses.Commands},
		Stream:       ginserver.StreamHandler{Source: engine, AllowedOrigins: cfg.CORSOrigins, Logger: logger},
		RateLimit:    ginserver.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Middleware(),
	}

	if !cfg.KafkaEnabled() {
		return a, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return a, fmt.Errorf("kafka producer: %w", err)
	}
	a.onClose(func(context.Context) error { return producer.Close() })
	hostname, _ := os.Hostname()
	worker := &infraoutbox.Worker{
		Queue:       queue,
		Producer:    producer,
		Logger:      logger.With("component", "outbox"),
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      serviceName,
		ID:          hostname,
		Backoff:     cfg.RetryBackoff,
	}
	a.background = append(a.background, worker.Run)

	if cfg.RuleSyncEnabled {
		handler := &rulesync.Handler{Bus: buses.Commands, Inbox: inbox, Logger: logger.With("component", "rulesync")}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, handler, logger)
		if err != nil {
			return a, fmt.Errorf("kafka consumer: %w", err)
		}
		a.onClose(func(context.Context) error { return consumer.Close() })
		a.background = append(a.background, func(ctx context.Context) error {
			logger.Info("rule sync consuming", "topic", cfg.RulesTopic, "group", cfg.KafkaGroupID)
			return consumer.Run(ctx, []string{cfg.RulesTopic})
		})
	}
	return a, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
