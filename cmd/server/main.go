package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/application"
	"github.com/casedesk/caseline/internal/config"
	"github.com/casedesk/caseline/internal/delivery"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/handlers"
	"github.com/casedesk/caseline/internal/nudge"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/presence"
	"github.com/casedesk/caseline/internal/router"
	"github.com/casedesk/caseline/internal/store"
	"github.com/casedesk/caseline/internal/stream"
)

func main() {
	cfg := config.Load()

	// Observability
	observability.InitLogger(cfg.ServiceName)
	log := observability.Log

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer tp.Shutdown(context.Background())
	}

	ctx, cancel := setupSignalHandler(log)
	defer cancel()

	// Presence backend
	var presenceStore presence.Store
	var tracker *presence.Tracker
	switch cfg.PresenceBackend {
	case "redis":
		rd := presence.NewRedis(cfg.RedisAddr, cfg.PresenceWindow)
		if err := rd.Ping(ctx); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rd.Close()
		presenceStore = rd
	default:
		tracker = presence.NewTracker(cfg.PresenceWindow)
		presenceStore = tracker
	}

	// Event sinks
	bus := events.NewBus()
	var publisher events.Publisher = bus
	if cfg.EventsEnabled {
		kp := events.NewKafkaPublisher(splitBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
		defer kp.Close()
		publisher = events.Multi{bus, kp}
	}

	// Engine core
	messages := store.NewMemory()
	deliveryTracker := delivery.NewTracker(messages)
	svc := application.New(messages, deliveryTracker, publisher)
	dispatcher := nudge.NewDispatcher(svc, presenceStore, publisher, cfg.NudgeCooldown)

	// Background sweeper for the in-memory tracker; redis expires on TTL.
	if tracker != nil {
		sweeper := presence.NewSweeper(tracker, cfg.SweepInterval, cfg.PresenceRetention)
		go sweeper.Run(ctx)
	}

	// HTTP surface
	registry := stream.NewRegistry()
	streamH := stream.NewHandler(registry, bus, presenceStore, cfg.HeartbeatCadence)

	handler := router.New(
		handlers.NewMessageHandler(svc),
		handlers.NewConversationHandler(svc),
		handlers.NewReceiptHandler(svc),
		handlers.NewPresenceHandler(presenceStore),
		handlers.NewNudgeHandler(dispatcher),
		streamH,
		cfg.ServiceName,
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
	)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}
	go func() {
		log.Info("starting caseline server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	performGracefulShutdown(srv, registry, log)
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func setupSignalHandler(log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, initiating shutdown", zap.String("signal", sig.String()))
		cancel()
	}()
	return ctx, cancel
}

func performGracefulShutdown(srv *http.Server, registry *stream.Registry, log *zap.Logger) {
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registry.CloseAll()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}
	log.Info("shutdown complete, exiting")
}
