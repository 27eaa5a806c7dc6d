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

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"chatroom/infrastructure/http/server"
	"chatroom/internal"
	"chatroom/moderation"
	"chatroom/repositories"
	"chatroom/runtime/workers"
	"chatroom/services"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper. Its only responsibility is
	// to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components and manages the server lifecycle. Keeping
// the logic out of main ensures all defers (like the database close) run
// before the process exits, and keeps initialization testable.
func run() (int, error) {
	// 1. Configuration & logger. A .env file is optional.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := internal.GetLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB). The store handle is fully constructed before
	// the listener starts, so no request can observe an unset handle.
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Info("Debug store inspector available",
			"url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
		internal.StartDebugServer(db, config.DebugPort, nil)
	}

	// 3. Collaborators and services.
	censor, err := moderation.NewCensor(config.Words(), '*')
	if err != nil {
		return exitConfig, fmt.Errorf("censored word list: %w", err)
	}

	participants := repositories.NewParticipantRepository(db)
	messages := repositories.NewMessageRepository(db)
	presence := services.NewPresenceService(participants, messages, logger)
	messageService := services.NewMessageService(participants, messages, censor, logger)

	// 4. Background sweep under supervision.
	supervisor := workers.NewSupervisor(logger).
		Add(workers.NewSweepWorker(presence, config.SweepInterval, config.InactivityThreshold, logger))
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 5. HTTP surface.
	api := server.New(logger, presence, messageService)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      api.Router(config.Origins()),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "port", config.Port)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		supervisor.Stop()
		<-supervisorDone
		return exitRuntime, fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	// 6. Graceful shutdown: stop accepting requests, then drain the sweep.
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	supervisor.Stop()
	<-supervisorDone

	return exitOK, nil
}
