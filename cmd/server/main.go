package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/catalog"
	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/handlers"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: cfg.LogLevel, Component: log.ComponentApp, Output: os.Stdout})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid time zone", log.FieldError, err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect database", log.FieldError, err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", log.FieldOperation, log.OpMigrate, log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	budgets := store.NewBudgetStore(database)
	categories := catalog.Default()
	calendar := services.NewCalendar(loc)
	txRunner := db.NewTxRunner(database, cfg.TxMaxAttempts)

	wsHub := websocket.NewHub(logger)
	hubs := services.Hubs{wsHub}
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Error("failed to connect AMQP broker", log.FieldError, err)
			os.Exit(1)
		}
		defer publisher.Close()
		go publisher.Run(ctx)
		hubs = append(hubs, publisher)
		logger.Info("publishing balance events", "exchange", cfg.AMQPExchange)
	}

	ledger := services.NewLedgerService(txRunner, accounts, transactions, categories, hubs,
		services.WithLedgerLogger(logger),
		services.WithLedgerTimeout(cfg.DBTimeout),
	)
	budgetService := services.NewBudgetService(budgets, calendar, cfg.DBTimeout)
	reports := services.NewReportService(accounts, transactions, users, budgetService, categories, calendar, cfg.DBTimeout)

	handler := handlers.New(handlers.Deps{
		Config:   cfg,
		Logger:   logger,
		Users:    users,
		Accounts: accounts,
		Ledger:   ledger,
		Reports:  reports,
		Budgets:  budgetService,
		Hub:      wsHub,
		DB:       database,
	})
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("fintrack API listening", log.FieldOperation, log.OpStartup, "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.Error("server error", log.FieldError, err)
	}

	logger.Info("shutting down", log.FieldOperation, log.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", log.FieldError, err)
	}
}
