package main

import (
	"context"
	"flag"
	"io/fs"
	"os"

	fitfeed "github.com/claude/fitfeed"
	"github.com/claude/fitfeed/internal/config"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/storage"
	"github.com/claude/fitfeed/internal/upload"
	"github.com/claude/fitfeed/internal/workouts"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dataDir := flag.String("data", "", "directory containing data/workouts.json (default: embedded dataset)")
	serverURL := flag.String("server", "", "push to a running FitFeed server (e.g. https://fitfeed.tail1234.ts.net) instead of the database")
	dryRun := flag.Bool("dry-run", false, "validate and report counts without writing anything")
	flag.Parse()

	// Load config
	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		config.Default().Log.NewLogger(os.Stderr).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := cfg.Log.NewLogger(os.Stdout)

	var fsys fs.FS = fitfeed.DataFS
	if *dataDir != "" {
		info, err := os.Stat(*dataDir)
		if err != nil || !info.IsDir() {
			log.Error("data path does not exist or is not a directory", "path", *dataDir)
			os.Exit(1)
		}
		fsys = os.DirFS(*dataDir)
	}

	ds, err := workouts.LoadDataset(fsys)
	if err != nil {
		log.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	details := ds.Catalog()

	if err := models.ValidateDetails(details); err != nil {
		log.Error("dataset is invalid", "error", err)
		os.Exit(1)
	}
	log.Info("dataset validated", "workouts", len(details))

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written")
		return
	}

	ctx := context.Background()

	if *serverURL != "" {
		client := upload.NewClient(*serverURL, cfg.Auth.APIKey)
		n, err := client.SendCatalog(ctx, details)
		if err != nil {
			log.Error("upload failed", "server", *serverURL, "error", err)
			os.Exit(1)
		}
		log.Info("upload complete", "server", *serverURL, "workouts_written", n)
		return
	}

	if cfg.Catalog.Driver != config.DriverPostgres {
		log.Error("seeding the database needs catalog.driver: postgres (or use -server)")
		os.Exit(1)
	}
	dsn := cfg.Database.DSN()

	// Run migrations
	version, err := storage.RunMigrations(dsn, "migrations")
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "version", version)

	// Connect database
	db, err := storage.New(ctx, dsn, storage.PoolOptions{
		MaxConns:    int32(cfg.Database.MaxConns),
		MaxConnIdle: cfg.Database.MaxConnIdle,
	})
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	n, err := db.UpsertWorkouts(ctx, details)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "workouts_written", n)
}
