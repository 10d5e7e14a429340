// cmd/botstatus/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apex/log"

	"github.com/tamzrod/bot-status/internal/api"
	"github.com/tamzrod/bot-status/internal/bot"
	"github.com/tamzrod/bot-status/internal/cache"
	"github.com/tamzrod/bot-status/internal/config"
	"github.com/tamzrod/bot-status/internal/logging"
	"github.com/tamzrod/bot-status/internal/metrics"
	"github.com/tamzrod/bot-status/internal/poller"
	"github.com/tamzrod/bot-status/internal/publish"
	"github.com/tamzrod/bot-status/internal/store"
	"github.com/tamzrod/bot-status/internal/syncer"
)

const usage = "usage: botstatus <config.yaml> | botstatus report <config.yaml> | botstatus history <config.yaml>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	switch os.Args[1] {
	case "report", "history":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		cfg := loadConfig(os.Args[2])
		if os.Args[1] == "report" {
			runReport(cfg)
		} else {
			runHistory(cfg)
		}
	default:
		runDaemon(loadConfig(os.Args[1]))
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if err := logging.Setup(os.Stderr, cfg.Log.Level); err != nil {
		log.Fatalf("logging setup failed: %v", err)
	}
	return cfg
}

func runDaemon(cfg *config.Config) {
	logger := log.WithField("module", "main").WithField("bot", cfg.Bot.ID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Storage + cache
	// --------------------

	st, err := store.Open(cfg.Storage.Path, store.Options{})
	if err != nil {
		logger.Fatalf("store open failed: %v", err)
	}
	defer st.Close()

	b, err := bot.New(cfg.Bot.ID, cache.New(), st)
	if err != nil {
		logger.Fatalf("bot init failed: %v", err)
	}

	restored, err := b.Restore()
	if err != nil {
		// Start empty rather than refuse to serve.
		logger.WithError(err).Warn("cannot restore last known state")
	} else if restored {
		logger.Info("restored last known state")
	}

	// --------------------
	// Sinks
	// --------------------

	var sinks []syncer.Sink

	if cfg.MQTT.Broker != "" {
		pub, err := publish.NewMQTT(publish.Config{
			Broker:   cfg.MQTT.Broker,
			Topic:    cfg.MQTT.Topic,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			logger.Fatalf("mqtt connect failed: %v", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	sc := syncer.New(b, sinks...)

	// --------------------
	// Cache sync pipeline
	// --------------------

	p, closePoller, err := poller.Build(cfg.Bot)
	if err != nil {
		logger.Fatalf("poller build failed: %v", err)
	}
	defer closePoller()

	// Both loops must exit before the deferred closes of the poller and store run.
	var pipeline sync.WaitGroup
	out := make(chan poller.PollResult)
	pipeline.Add(2)
	go func() {
		defer pipeline.Done()
		p.Run(ctx, out)
	}()
	go func() {
		defer pipeline.Done()
		sc.Run(ctx, out)
	}()

	// --------------------
	// Delivery
	// --------------------

	var metricsServer *http.Server
	if cfg.Metrics.Listen != "" {
		registry := metrics.Registry(metrics.NewCollector(b, cfg.Bot.ID, sc.Failures))
		metricsServer = metrics.NewServer(cfg.Metrics.Listen, registry)

		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("metrics serve failed: %v", err)
			}
		}()
	}

	apiServer := api.NewServer(b)
	go func() {
		if err := apiServer.Start(cfg.API.Listen); err != nil {
			logger.Fatalf("api serve failed: %v", err)
		}
	}()

	logger.Info("started")
	<-ctx.Done()
	logger.Info("stopping")

	if err := apiServer.Shutdown(); err != nil {
		logger.WithError(err).Warn("api shutdown")
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("metrics shutdown")
		}
	}

	pipeline.Wait()
}
