package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/consumer-case-tracker/internal/config"
	"github.com/JustJay7/consumer-case-tracker/internal/database"
	"github.com/JustJay7/consumer-case-tracker/internal/fallback"
	"github.com/JustJay7/consumer-case-tracker/internal/server"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	store := fallback.Load(cfg.FallbackPath, log)

	srv := server.New(cfg, db, store, log)

	log.Info("Starting consumer case tracker",
		"host", cfg.Host,
		"port", cfg.Port,
		"upstream", cfg.JagritiBaseURL,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
