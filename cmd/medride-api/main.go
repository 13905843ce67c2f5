// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"medride/internal/config"
	"medride/internal/dispatch"
	httptransport "medride/internal/http"
	"medride/internal/infra"
	"medride/internal/logging"
	"medride/internal/maps"
	"medride/internal/modules/booking"
	"medride/internal/modules/negotiation"
	"medride/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rates := pricing.DefaultRateCard()

	// Without a DSN everything runs on in-memory stores. That mode exists
	// for local development; state does not survive a restart.
	var (
		negotiationStore negotiation.Store = negotiation.NewMemoryStore()
		bookingStore     booking.Store     = booking.NewMemoryStore()
	)
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer dbPool.Close()
		negotiationStore = negotiation.NewPGStore(dbPool)
		bookingStore = booking.NewPGStore(dbPool)

		if loaded, err := pricing.NewStore(dbPool).LoadRateCard(ctx); err != nil {
			logger.Warn("rate card load failed, using compiled-in card", "error", err)
		} else {
			rates = loaded
		}
	} else {
		logger.Warn("MEDRIDE_DB_DSN not set, using in-memory stores")
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	producer := dispatch.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer producer.Close()
	dispatcher := dispatch.New(producer, dispatch.NewPriorityQueue(redisClient), logger)

	backup := pricing.NewBackupCalculator(rates)
	var primary pricing.Source
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		primary = pricing.NewPrimarySource(routes, rates)
	} else {
		logger.Warn("MEDRIDE_MAPS_API_KEY not set, quotes use the backup calculator only")
	}
	pricingSvc := pricing.NewService(primary, backup, logger)

	negotiationSvc := negotiation.NewService(negotiationStore, dispatcher, cfg.Negotiation.MaxRounds, logger)
	bookingSvc := booking.NewService(bookingStore, pricingSvc, negotiationSvc, dispatcher, logger)

	handler := httptransport.NewRouter(pricingSvc, bookingSvc, negotiationSvc, logger)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
