package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/analysis"
	"github.com/staffpulse/feedback-engine/pkg/config"
	"github.com/staffpulse/feedback-engine/pkg/ingest"
	"github.com/staffpulse/feedback-engine/pkg/logging"
	"github.com/staffpulse/feedback-engine/pkg/rules"
	"github.com/staffpulse/feedback-engine/pkg/sentiment"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	inputPath := flag.String("input", "", "path to the survey CSV export")
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	outputPath := flag.String("output", "", "write the analysis JSON here instead of stdout")
	watch := flag.Bool("watch", false, "keep running and re-analyze when the input or rule tables change")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: feedback-engine -input comments.csv [-config config.yaml] [-output result.json] [-watch]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("feedback-engine starting",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("provider", cfg.Classifier.Provider),
		zap.String("model", cfg.Classifier.Model),
		zap.String("input", *inputPath))

	scorer, err := sentiment.NewScorer(&cfg.Classifier, logger)
	if err != nil {
		logger.Fatal("failed to build classifier client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := analyzeOnce(ctx, cfg, scorer, *inputPath, *outputPath, logger); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	if *watch {
		if err := watchAndRerun(ctx, cfg, scorer, *inputPath, *outputPath, logger); err != nil {
			logger.Fatal("watch failed", zap.Error(err))
		}
	}
}

// loadConfig prefers the YAML file and falls back to environment-only
// configuration when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv(Version)
	}
	return config.Load(path, Version)
}

// analyzeOnce runs one full analysis: load rule tables, read the CSV, run
// the pipeline, write the result. Rule tables are reloaded every time so a
// watch-triggered rerun picks up taxonomy edits.
func analyzeOnce(ctx context.Context, cfg *config.Config, scorer sentiment.Scorer, inputPath, outputPath string, logger *zap.Logger) error {
	taxonomy, err := rules.LoadTaxonomy(cfg.Rules.TaxonomyPath)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}
	table, err := rules.LoadSolutions(cfg.Rules.SolutionsPath)
	if err != nil {
		return fmt.Errorf("load solutions: %w", err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	rows, err := ingest.ReadCSV(in, logger)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	svc := analysis.NewService(cfg, scorer, taxonomy, table, logger)
	result, err := svc.Run(ctx, rows)
	if err != nil {
		return err
	}

	return writeResult(result, outputPath)
}

func writeResult(result any, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// watchAndRerun blocks until ctx is cancelled, re-running the analysis when
// the input file or either rule table changes. Editors tend to emit bursts
// of write events for one save, so reruns are debounced.
func watchAndRerun(ctx context.Context, cfg *config.Config, scorer sentiment.Scorer, inputPath, outputPath string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range []string{inputPath, cfg.Rules.TaxonomyPath, cfg.Rules.SolutionsPath} {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	logger.Info("watching for changes",
		zap.String("input", inputPath),
		zap.String("taxonomy", cfg.Rules.TaxonomyPath),
		zap.String("solutions", cfg.Rules.SolutionsPath))

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("change detected", zap.String("file", event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			if err := analyzeOnce(ctx, cfg, scorer, inputPath, outputPath, logger); err != nil {
				// A broken edit to a rule table should not kill watch mode.
				logger.Error("rerun failed", zap.Error(err))
			}
		}
	}
}
