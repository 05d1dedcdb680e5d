package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	fitfeed "github.com/claude/fitfeed"
	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/config"
	"github.com/claude/fitfeed/internal/feed"
	"github.com/claude/fitfeed/internal/home"
	"github.com/claude/fitfeed/internal/metrics"
	"github.com/claude/fitfeed/internal/server"
	"github.com/claude/fitfeed/internal/storage"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	lambdaMode := flag.Bool("lambda", false, "serve API Gateway proxy events under AWS Lambda")
	flag.Parse()

	// Load config
	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := cfg.Log.NewLogger(os.Stdout)
	log.Info("FitFeed starting", "version", Version, "catalog", cfg.Catalog.Driver)

	ctx := context.Background()
	var (
		provider    workouts.Provider
		activityLog activity.Log
		catalog     server.Catalog
		collectors  []prometheus.Collector
	)

	switch cfg.Catalog.Driver {
	case config.DriverPostgres:
		// Run migrations
		dsn := cfg.Database.DSN()
		version, err := storage.RunMigrations(dsn, "migrations")
		if err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied", "version", version)

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

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

		provider, activityLog, catalog = db, db, db
		collectors = append(collectors, db.Collector(cfg.Database.Name))

	default:
		if *migrateOnly {
			log.Info("migrate-only: nothing to migrate for the embedded catalog")
			return
		}

		ds, err := workouts.LoadDataset(fitfeed.DataFS)
		if err != nil {
			log.Error("failed to load embedded dataset", "error", err)
			os.Exit(1)
		}
		provider = workouts.NewLocalSource(ds, 0)

		dir, err := cfg.Activity.Dir()
		if err != nil {
			log.Error("failed to resolve activity dir", "error", err)
			os.Exit(1)
		}
		store, err := activity.Open(dir)
		if err != nil {
			log.Error("failed to open activity store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		activityLog = store
		log.Info("activity store opened", "dir", dir)
	}

	reg := metrics.SetupPrometheus(collectors...)
	m := metrics.NewManager("fitfeed", "server", reg)

	loader := feed.New(provider, feed.Options{
		StaleTime:  cfg.Feed.StaleTime,
		Retries:    cfg.Feed.Retries,
		Backoff:    cfg.Feed.Backoff,
		CacheBytes: cfg.Feed.CacheMB << 20,
		Metrics:    m,
		Log:        log,
	})

	opts := server.Options{
		Workouts: loader,
		Home: &home.Builder{
			Workouts:    loader,
			Activity:    activityLog,
			Goal:        cfg.Home.WeeklyGoal,
			Unit:        cfg.Home.Unit,
			RecentLimit: cfg.Home.RecentLimit,
		},
		Activity: activityLog,
		Catalog:  catalog,
		Metrics:  m,
		Gatherer: reg,
		APIKey:   cfg.Auth.APIKey,
		Log:      log,
	}

	if *lambdaMode {
		log.Info("running under lambda")
		lambda.Start(httpadapter.New(server.New(opts)).ProxyWithContext)
		return
	}

	// Start server over tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		opts.Identity = lc

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: server.New(opts)}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
