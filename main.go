package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrdjames-us/apa-coach/internal/advisor"
	"github.com/mrdjames-us/apa-coach/internal/auth"
	"github.com/mrdjames-us/apa-coach/internal/config"
	"github.com/mrdjames-us/apa-coach/internal/database"
	"github.com/mrdjames-us/apa-coach/internal/events"
	server "github.com/mrdjames-us/apa-coach/internal/http"
	"github.com/mrdjames-us/apa-coach/internal/metrics"
	"github.com/mrdjames-us/apa-coach/internal/notifier"
	"github.com/mrdjames-us/apa-coach/internal/notifier/slack"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	teamStore := team.New(db)
	authStore := auth.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	lineupAdvisor := advisor.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)

	var notif notifier.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewClient(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		notif = notifier.NewNoop()
	}
	eventsClient := events.New(cfg.ProjectID)

	s := server.NewServer(
		teamStore,
		authStore,
		lineupAdvisor,
		metricsSvc,
		metricsHandler,
		cfg,
		notif,
		eventsClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
