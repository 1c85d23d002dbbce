// Package main is the entry point for the smartcommitcore HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viewv/smartcommitcore/internal/api"
	"github.com/viewv/smartcommitcore/internal/config"
	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/refgraph"
	"github.com/viewv/smartcommitcore/internal/store"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Server panic recovered: %v", r)
			log.Printf("Stack trace:\n%s", debug.Stack())
			os.Exit(1)
		}
	}()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadFromYAMLOrDefault(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := initializeSchema(database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	eng, err := engine.New(cfg.Engine, nil, refgraph.NewGoParser())
	if err != nil {
		log.Fatalf("Failed to construct engine: %v", err)
	}

	handler := api.NewHandler(eng, database)

	router := gin.Default()
	api.SetupRoutes(router, handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("HTTP server panic recovered: %v", r)
				log.Printf("Stack trace:\n%s", debug.Stack())
				quit <- syscall.SIGTERM
			}
		}()

		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Closing database connection...")
	if err := database.Close(); err != nil {
		log.Printf("Warning: Error closing database: %v", err)
	}

	log.Println("Server exiting")
}

// initializeSchema applies internal/store/schema.sql, mirroring the
// teacher's initializeDatabase (cmd/server/main.go) but reading the
// schema store owns instead of a repository-layer migrations package.
func initializeSchema(database *store.DB) error {
	schemaPath := "internal/store/schema.sql"
	schemaSQL, err := os.ReadFile(schemaPath) // #nosec G304 -- fixed operator-controlled path
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := database.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}
