package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/garnizeh/interviewer/api"
	"github.com/garnizeh/interviewer/db"
	"github.com/garnizeh/interviewer/internal/config"
	idb "github.com/garnizeh/interviewer/internal/db"
	"github.com/garnizeh/interviewer/internal/interview"
	"github.com/garnizeh/interviewer/internal/oracle"
	"github.com/garnizeh/interviewer/internal/report"
	"github.com/garnizeh/interviewer/internal/repository/sqlite"
	"github.com/garnizeh/interviewer/internal/retrieval"
	"github.com/garnizeh/interviewer/internal/session"
	"github.com/garnizeh/interviewer/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	log.Printf("Starting interviewer server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open the account database and apply migrations. Interview state is
	// memory-only and lost on restart; only accounts persist.
	conn, err := idb.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := idb.Migrate(ctx, conn, db.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	oracleClient, err := ollama.NewDefaultClient(cfg.Oracle)
	if err != nil {
		log.Fatalf("Failed to create oracle client: %v", err)
	}

	gateway := oracle.NewGateway(oracleClient, cfg.Oracle.Model, logger)
	sessions := session.NewStore()
	retrievalEngine := retrieval.NewEngine()
	engine := interview.NewEngine(sessions, gateway, logger)
	reports := report.NewGenerator(gateway, logger)

	janitor := session.NewJanitor(sessions, retrievalEngine, cfg.SessionTTL, 10*time.Minute, logger)
	janitor.Start(ctx)

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		Users:     sqlite.New(conn, logger),
		Sessions:  sessions,
		Retrieval: retrievalEngine,
		Oracle:    gateway,
		Interview: engine,
		Reports:   reports,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	janitor.Stop()

	if err := oracleClient.Close(); err != nil {
		log.Printf("Error closing oracle client: %v", err)
	}

	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
