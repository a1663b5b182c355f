package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/flight-booking-client/internal/config"
	"github.com/cx-tal-miterani/flight-booking-client/internal/logging"
	"github.com/cx-tal-miterani/flight-booking-client/internal/stubapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(config.DefaultLogLevel, config.DefaultLogFormat, os.Stderr).WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	shape, err := stubapi.ParseSearchShape(cfg.StubSearchShape)
	if err != nil {
		log.WithError(err).Fatal("Invalid STUB_SEARCH_SHAPE")
	}

	store := stubapi.NewStore(stubapi.SampleFlights())
	h := stubapi.NewHandler(store, stubapi.Options{
		SearchShape:      shape,
		DuplicateResults: cfg.StubDuplicateResults,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.StubAPIPort,
		Handler:      stubapi.NewRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":         cfg.StubAPIPort,
			"search_shape": shape,
		}).Info("Stub API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
