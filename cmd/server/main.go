// Package main is the entry point for the stockbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/checkpoint"
	"stockbook/internal/domain/importer"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/storage/memory"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/ledger_repo"
	"stockbook/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockbook server")

	var (
		events      ledger.EventStore
		checkpoints ledger.CheckpointStore
		products    catalog.Store
		audit       importer.AuditRecorder
		pool        *postgres.Pool
	)

	// DATABASE_URL selects the Postgres backend; without it the server runs
	// on the in-memory store, which is enough for local work and demos.
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txManager := postgres.NewTxManager(pool)
		events = ledger_repo.NewEventRepo(txManager)
		checkpoints = ledger_repo.NewCheckpointRepo(txManager)
		products = ledger_repo.NewProductRepo(txManager)

		auditLog, err := postgres.NewImportAuditLog(txManager)
		if err != nil {
			log.Fatalw("failed to initialize import audit log", "error", err)
		}
		audit = auditLog
	} else {
		store := memory.New()
		events = store
		checkpoints = store
		products = store
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	cache := stock.NewCache()
	batchSize := getEnvInt("IMPORT_BATCH_SIZE", importer.DefaultBatchSize)

	svc := v1.Services{
		Stocks:      stock.NewService(events, checkpoints, cache),
		Checkpoints: checkpoint.NewService(checkpoints, events, products, cache),
		Imports:     importer.NewService(events, checkpoints, products, cache, batchSize, audit),
		Products:    products,
		Cache:       cache,
		Pool:        pool,
	}
	if auditLog, ok := audit.(*postgres.ImportAuditLog); ok {
		svc.AuditLog = auditLog
	}

	router := v1.NewRouter(svc, log)

	addr := getEnv("HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
