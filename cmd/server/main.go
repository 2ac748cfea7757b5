package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loopital/loopital-backend/internal/adapter/gateway"
	"github.com/loopital/loopital-backend/internal/adapter/gemini"
	"github.com/loopital/loopital-backend/internal/adapter/httpapi"
	"github.com/loopital/loopital-backend/internal/adapter/repository/sqlite"
	"github.com/loopital/loopital-backend/internal/config"
	"github.com/loopital/loopital-backend/internal/ledger"
	"github.com/loopital/loopital-backend/internal/logger"
	"github.com/loopital/loopital-backend/internal/usecase/analytics"
	"github.com/loopital/loopital-backend/internal/usecase/riskanalysis"
	"github.com/loopital/loopital-backend/internal/usecase/session"
)

func main() {
	// 1. Configuration and logging
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Loopital backend starting...")

	// 2. Persistence for the acting user's record
	db, err := sqlite.NewDB(config.Cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	sessionRepo, err := sqlite.NewSessionRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize session repository: %v", err)
	}

	// 3. Ledger and demo marketplace
	store := ledger.NewStore(sessionRepo)
	store.SeedProjects()
	logger.L.Info("Demo marketplace seeded")

	// 4. Use cases
	sessionService := session.NewService(
		store,
		sessionRepo,
		config.Cfg.JWTSecret,
		config.Cfg.AccessTokenExpiry,
		config.Cfg.StartingBalance,
	)
	analyticsService := analytics.NewService(store)

	var analyzer riskanalysis.Analyzer
	if config.Cfg.GeminiAPIKey != "" {
		analyzer = gemini.NewClient(config.Cfg.GeminiAPIKey, config.Cfg.GeminiModel, config.Cfg.GeminiTimeout)
		logger.L.Info("Gemini risk analysis enabled", "model", config.Cfg.GeminiModel)
	} else {
		logger.L.Warn("GEMINI_API_KEY not set; risk analysis will serve simulated reports")
	}
	riskService := riskanalysis.NewService(analyzer, 15*time.Minute)

	// Restore a persisted session so the wallet survives restarts
	if result, err := sessionService.Restore(context.Background()); err == nil {
		logger.L.Info("Restored persisted session", "userID", result.User.ID, "name", result.User.Name)
	}

	paymentGateway := gateway.NewSimulated(config.Cfg.GatewayLatency)

	// 5. HTTP server
	api := httpapi.NewServer(
		store,
		sessionService,
		analyticsService,
		riskService,
		paymentGateway,
		config.Cfg.FlowTTL,
	)

	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      api.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.L.Info("Received signal, shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
		return
	}
	logger.L.Info("Server stopped")
}
