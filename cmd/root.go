// Package cmd implements the CLI commands for sheetpipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core/config"
	"github.com/gaurav-prasanna/sheetpipe/core/fetch"
	"github.com/gaurav-prasanna/sheetpipe/core/ingest"
	"github.com/gaurav-prasanna/sheetpipe/core/normalize"
	"github.com/gaurav-prasanna/sheetpipe/core/notify"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/store"
)

// Persistent flag variables. Empty values fall back to the environment.
var (
	flagDB        string
	flagLogLevel  string
	flagLogFormat string
	flagOutputDir string
)

var rootCmd = &cobra.Command{
	Use:   "sheetpipe",
	Short: "SheetPipe: import, edit and export character sheets",
	Long: `SheetPipe turns character sheet PDFs, profile pages and JSON exports into a
single canonical record, keeps it in a local database and exports it again.

Usage:
  sheetpipe import <file|url>
  sheetpipe show
  sheetpipe export --pdf`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDB, "db", "", "SQLite database path (default $SHEETPIPE_DB or sheetpipe.db)")
	pf.StringVar(&flagLogLevel, "log_level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log_format", "", "Log format: text or json")
	pf.StringVar(&flagOutputDir, "output_dir", "", "Output directory for exports (default: current directory)")
}

// app holds the wired pipeline for one invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *store.SQLiteStore
	broker   *notify.Broker
	repo     *repository.Repository
	importer *ingest.Importer
}

var current *app

// setup loads configuration, opens the store and restores the saved sheet.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	st, err := store.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	broker := notify.New(nil, logger)
	normalizer := normalize.New()
	repo := repository.New(normalizer, st, broker, logger)

	fetchOpts := []fetch.Option{fetch.WithTimeout(cfg.FetchTimeout)}
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	importer := ingest.New(repo, ingest.Options{
		Fetcher:        fetch.New(fetchOpts...),
		Normalizer:     normalizer,
		Store:          st,
		Broker:         broker,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	current = &app{cfg: cfg, logger: logger, store: st, broker: broker, repo: repo, importer: importer}

	// A corrupt cache leaves the repository empty; the user can still
	// import or clear.
	if _, err := repo.Restore(cmd.Context()); err != nil {
		logger.Warn("restoring saved sheet", "err", err)
	}
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagDB != "" {
		cfg.DB = flagDB
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// close prints the pending notification, ends every subscription and
// releases the store. It returns the notification it printed, if any.
func (a *app) close() (notify.Notification, bool) {
	n, ok := a.broker.Current()
	if ok {
		printNotification(os.Stderr, n)
	}
	a.repo.Close()
	a.broker.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", "err", err)
	}
	return n, ok
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())

	var (
		last    notify.Notification
		printed bool
	)
	if current != nil {
		last, printed = current.close()
	}
	if err != nil {
		// Import failures are already shown as an error notification.
		if !printed || last.Kind != notify.KindError || last.Message != err.Error() {
			fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		}
		os.Exit(1)
	}
}
