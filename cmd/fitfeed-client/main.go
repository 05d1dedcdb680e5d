package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	fitfeed "github.com/claude/fitfeed"
	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/config"
	"github.com/claude/fitfeed/internal/feed"
	"github.com/claude/fitfeed/internal/home"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// app is the state shared by every subcommand, built in the root's
// PersistentPreRunE.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	loader *feed.Loader
	store  *activity.Store
}

var (
	configPath string
	cli        = &app{}
)

var rootCmd = &cobra.Command{
	Use:           "fitfeed-client",
	Short:         "Browse workouts and track your training streak",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cli.init()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cli.close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fitfeed.yaml", "path to config file")
}

func (a *app) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Log.NewLogger(os.Stderr)

	var ds *workouts.Dataset
	if !cfg.Source.Remote {
		ds, err = workouts.LoadDataset(fitfeed.DataFS)
		if err != nil {
			return fmt.Errorf("loading embedded dataset: %w", err)
		}
	}
	provider := workouts.New(workouts.Config{
		Remote:  cfg.Source.Remote,
		BaseURL: cfg.Source.BaseURL,
		Delay:   cfg.Source.Delay,
	}, ds, nil)

	a.loader = feed.New(provider, feed.Options{
		StaleTime:  cfg.Feed.StaleTime,
		Retries:    cfg.Feed.Retries,
		Backoff:    cfg.Feed.Backoff,
		CacheBytes: cfg.Feed.CacheMB << 20,
		Log:        a.log,
	})
	return nil
}

// activity opens the local activity store on first use.
func (a *app) activity() (*activity.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	dir, err := a.cfg.Activity.Dir()
	if err != nil {
		return nil, err
	}
	a.store, err = activity.Open(dir)
	if err != nil {
		return nil, err
	}
	return a.store, nil
}

func (a *app) home() (*home.Builder, error) {
	store, err := a.activity()
	if err != nil {
		return nil, err
	}
	return &home.Builder{
		Workouts:    a.loader,
		Activity:    store,
		Goal:        a.cfg.Home.WeeklyGoal,
		Unit:        a.cfg.Home.Unit,
		RecentLimit: a.cfg.Home.RecentLimit,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText("Error:"), err)
		cli.close()
		os.Exit(1)
	}
}
