package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handiism/synset-downloader/internal/config"
	"github.com/handiism/synset-downloader/internal/download"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFlag  = flag.String("config", "", "Path to config file (.json, .yml or .yaml)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		agendaFlag  = flag.String("agenda", "", "Worklist file with one synset id per line (overrides config)")
		synsetsFlag = flag.String("synsets", "", "Synset ids to download, comma or space separated (overrides the worklist)")
		workersFlag = flag.Int("workers", 0, "Number of download workers (overrides config)")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag  = flag.Bool("dry-run", false, "Resolve urls without downloading")
		jsonFlag    = flag.Bool("log-json", false, "Write logs as JSON")
	)

	flag.Parse()

	setupLogger(*jsonFlag, *verboseFlag)

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			log.Error().Err(err).Str("path", *configFlag).Msg("load config")
			return 1
		}
	}

	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *agendaFlag != "" {
		settings.AgendaFile = *agendaFlag
	}
	if *synsetsFlag != "" {
		settings.Categories = []string{*synsetsFlag}
	}
	if *workersFlag > 0 {
		settings.Workers = *workersFlag
	}
	if err := settings.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid settings")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupted, cancelling")
		cancel()
	}()

	var logger zerolog.Logger
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		logger.WithLevel(levelFor(event.Level)).Msg(event.Message)
	})
	logger = log.With().Str("run_id", manager.RunID()).Logger()

	logger.Info().
		Str("output", settings.OutputDir).
		Int("workers", settings.Workers).
		Msg("synset downloader")

	if err := manager.Initialize(ctx, nil); err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("cancelled")
			return exitCode(err, true)
		}
		logger.Error().Err(err).Msg("initialize")
		return exitCode(err, false)
	}

	if *dryRunFlag {
		for _, name := range manager.GetCategoryNames() {
			logger.Info().Msg(name)
		}
		logger.Info().Msg("dry run, not downloading")
		return 0
	}

	start := time.Now()
	manager.SetDisplay(newBarDisplay(os.Stderr))

	err := manager.StartDownloads(ctx)
	printSummary(logger, manager, time.Since(start))

	cancelled := ctx.Err() != nil
	switch {
	case err == nil:
	case cancelled:
		logger.Warn().Msg("download cancelled")
	case !download.IsPersistError(err):
		logger.Error().Err(err).Msg("download")
	}
	return exitCode(err, cancelled)
}

// exitCode maps the outcome of a run to the process status. An interrupted
// run exits like a completed one; errors and persist failures exit 1.
func exitCode(err error, cancelled bool) int {
	if err == nil || cancelled {
		return 0
	}
	return 1
}

func setupLogger(jsonOutput, verbose bool) {
	if !jsonOutput {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// levelFor maps manager event levels onto log levels. Verbose events are
// debug output.
func levelFor(level download.ProgressLevel) zerolog.Level {
	switch level {
	case download.LevelVerbose:
		return zerolog.DebugLevel
	case download.LevelWarning:
		return zerolog.WarnLevel
	case download.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func printSummary(logger zerolog.Logger, manager *download.Manager, elapsed time.Duration) {
	started, total := manager.GetProgress()
	stats := manager.Stats()

	logger.Info().
		Int("started", started).
		Int("total", total).
		Int64("persisted", stats.Persisted).
		Int64("redirected", stats.Redirected).
		Int64("fetch_failed", stats.FetchFailed).
		Int64("decode_failed", stats.DecodeFailed).
		Int64("not_color", stats.NotColor).
		Int64("persist_failed", stats.PersistFailed).
		Int("skipped_synsets", len(manager.Skipped())).
		Dur("elapsed", elapsed).
		Msgf("saved %d of %d images", stats.Persisted, total)
}
