package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-io-live/relay-service/internal/config"
	"github.com/weiawesome/wes-io-live/relay-service/internal/generator"
	"github.com/weiawesome/wes-io-live/relay-service/internal/handler"
	"github.com/weiawesome/wes-io-live/relay-service/internal/hub"
	"github.com/weiawesome/wes-io-live/relay-service/internal/room"
	"github.com/weiawesome/wes-io-live/relay-service/internal/service"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
	"github.com/weiawesome/wes-io-live/relay-service/pkg/pubsub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Log.ServiceName == "" {
		cfg.Log.ServiceName = "relay-service"
	}
	pkglog.Init(cfg.Log)
	logger := pkglog.L()

	ids, err := generator.NewNanoIDGenerator(cfg.ViewerID.Size, cfg.ViewerID.Alphabet)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid viewer id configuration")
	}

	// Initialize event publisher
	events, err := pubsub.NewPublisher(cfg.Events)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Events.Driver).Msg("failed to create event publisher, lifecycle events disabled")
		events = pubsub.NopPublisher{} // Relay works without events
	} else {
		logger.Info().Str("driver", cfg.Events.Driver).Msg("event publisher ready")
	}
	defer events.Close()

	rooms := room.NewRegistry()
	wsHub := hub.NewHub(cfg.WebSocket)
	signalSvc := service.NewSignalService(rooms, ids, events)

	router := handler.NewRouter(
		logger,
		handler.NewWSHandler(wsHub, signalSvc),
		handler.NewHandler(rooms, wsHub),
		handler.NewICEHandler(cfg.WebRTC.GetICEServers()),
		cfg.Server.StaticDir,
	)

	server := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Str("static_dir", cfg.Server.StaticDir).Msg("relay-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down relay-service")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if hubErr := wsHub.Shutdown(shutdownCtx); hubErr != nil && err == nil {
			err = hubErr
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("relay-service stopped with error")
		return
	}

	logger.Info().Int("rooms", rooms.Len()).Msg("relay-service stopped")
}
