// Command conversation-hub runs the webhook intake HTTP server and the
// outbound sending collaborator against a shared Kafka-backed event bus.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris-alexander-pop/system-design-library/internal/outbound"
	"github.com/chris-alexander-pop/system-design-library/internal/webhook"
	"github.com/chris-alexander-pop/system-design-library/pkg/config"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus/adapters/kafka"
	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
	"github.com/chris-alexander-pop/system-design-library/pkg/telemetry"
)

// appConfig aggregates every env-sourced config block this binary wires.
type appConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	Bus       eventbus.Config
	Kafka     kafka.Config
	Resilient eventbus.ResilientBrokerConfig
	Logger    logger.Config
	Telemetry telemetry.Config
	Webhook   webhook.Config
	Outbound  outbound.Config
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		panic(err)
	}

	logger.Init(cfg.Logger)
	log := logger.L()

	shutdownTelemetry, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		log.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker, err := kafka.New(cfg.Kafka)
	if err != nil {
		log.Error("failed to connect to event broker", "error", err)
		os.Exit(1)
	}
	resilientBroker := eventbus.NewResilientBroker(broker, cfg.Resilient)
	instrumentedBroker := eventbus.NewInstrumentedBroker(resilientBroker)
	bus := eventbus.New(instrumentedBroker, cfg.Bus)

	sender := outbound.NewClient(cfg.Outbound)
	subscriber := outbound.NewSubscriber(sender, bus)
	go func() {
		if err := subscriber.Run(ctx); err != nil {
			log.ErrorContext(ctx, "outbound subscriber stopped", "error", err)
		}
	}()

	handler := webhook.NewHandler(cfg.Webhook, bus)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		log.InfoContext(ctx, "webhook server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "webhook server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "webhook server shutdown error", "error", err)
	}
	if err := bus.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "event bus shutdown error", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "telemetry shutdown error", "error", err)
	}
}
