package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravityplay/gravity-backend/internal/ai"
	"github.com/gravityplay/gravity-backend/internal/config"
	"github.com/gravityplay/gravity-backend/internal/repository"
	"github.com/gravityplay/gravity-backend/internal/repository/storage"
	"github.com/gravityplay/gravity-backend/internal/service"
	"github.com/gravityplay/gravity-backend/transport/rest"
	"github.com/gravityplay/gravity-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	userRepo := repository.NewUserRepository(redisStorage.Connection)

	var oracle ai.Oracle
	if conf.Gemini.APIKey != "" {
		oracle = ai.NewGeminiClient(conf.Gemini.APIKey, conf.Gemini.Model, conf.Bot.OracleTimeout)
		log.Info("oracle configured", "model", conf.Gemini.Model)
	} else {
		log.Info("no oracle api key, automated players use the local heuristic")
	}
	advisor := ai.NewAdvisor(logger, oracle)

	hub := websocket.NewHub(logger)
	manager := service.NewGameManager(logger, userRepo, advisor, hub, conf.Bot.MoveDelay, conf.Bot.OracleTimeout)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, manager, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
