package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"credicaja-backend/internal/api"
	"credicaja-backend/internal/config"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository/postgres"
	"credicaja-backend/internal/security"
	"credicaja-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting CrediCaja Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := &store.Repositories

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.Users, tokenManager)
	clientSvc := service.NewClientService(store.Clients, store.Loans)
	loanSvc := service.NewLoanService(repos, store, emailSvc, &cfg.Business)
	paymentSvc := service.NewPaymentService(repos, store, &cfg.Business)
	rescheduleSvc := service.NewRescheduleService(repos, store, &cfg.Business)
	sessionSvc := service.NewCashSessionService(store.CashSessions)
	noteSvc := service.NewNotificationService(store.Notifications)

	// Initialize Router
	router := api.NewRouter(api.Handlers{
		Auth:         api.NewAuthHandler(authSvc),
		Client:       api.NewClientHandler(clientSvc, loanSvc),
		Loan:         api.NewLoanHandler(loanSvc),
		Payment:      api.NewPaymentHandler(paymentSvc),
		Reschedule:   api.NewRescheduleHandler(rescheduleSvc),
		CashSession:  api.NewCashSessionHandler(sessionSvc),
		Notification: api.NewNotificationHandler(noteSvc),
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal, then drain in-flight requests
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal, shutting down...", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
