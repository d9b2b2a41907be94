package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sahu-SuMiT/WeNews/docs"

	"github.com/sahu-SuMiT/WeNews/internal/config"
	"github.com/sahu-SuMiT/WeNews/internal/db"
	"github.com/sahu-SuMiT/WeNews/internal/investment"
	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/notification"
	"github.com/sahu-SuMiT/WeNews/internal/server"
)

// @title WeNews API
// @version 1.0
// @description API for the WeNews rewards backend: wallet, earnings, labels and investment plans.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting WeNews application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	dispatcher := notification.NewDispatcher(cfg.RedisAddr, notification.NewRepository(database))
	defer dispatcher.Close()
	logger.Info("Notification dispatcher initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	sweeper := investment.NewSweeper(investment.NewRepository(database), dispatcher, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		logger.Fatalf("Failed to start investment sweeper: %v", err)
	}
	defer sweeper.Stop()

	srv := server.New(database, cfg, dispatcher)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
