package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-eats/config"
	"github.com/aluiziolira/go-scrape-eats/models"
	"github.com/aluiziolira/go-scrape-eats/pipeline"
	"github.com/aluiziolira/go-scrape-eats/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults := config.DefaultConfig()

	// 0 means "not set": the settings file value survives unless the
	// env var or the flag names a count.
	concurrencyDefault := 0
	if value, ok, err := config.EnvInt("SCRAPER_CONCURRENCY"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_CONCURRENCY: %v\n", err)
		return 1
	} else if ok {
		concurrencyDefault = value
	}
	outputDefault := ""
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := ""
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	inputFile := flag.String("input", defaults.InputFile, "Path to JSON file with restaurant URLs")
	outputFile := flag.String("output", outputDefault, "Output file path (defaults to settings output)")
	settingsFile := flag.String("settings", "", "Path to JSON5 settings file")
	noMenu := flag.Bool("no-menu", false, "Disable menu scraping for all URLs")
	outputFormat := flag.String("format", defaults.OutputFormat, "Output format: json, jsonl, or dual")
	concurrency := flag.Int("parallel", concurrencyDefault, "Number of concurrent fetches (0 uses the settings value)")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg, err := config.LoadSettings(*settingsFile)
	if err != nil {
		slog.Error("loading settings", slog.Any("error", err))
		return 1
	}
	cfg.InputFile = *inputFile
	applyOverrides(cfg, overrides{
		outputFile:  *outputFile,
		format:      *outputFormat,
		parallel:    *concurrency,
		metricsAddr: *metricsAddr,
		noMenu:      *noMenu,
		verbose:     *verbose,
	})

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return 1
	}

	if _, err := os.Stat(cfg.InputFile); err != nil {
		slog.Error("input file does not exist", slog.String("path", cfg.InputFile))
		return 1
	}
	targets, err := config.LoadTargets(cfg.InputFile, cfg.IncludeMenu)
	if err != nil {
		slog.Error("loading input urls", slog.Any("error", err))
		return 1
	}

	slog.Info("starting scrape",
		slog.Int("urls", len(targets)),
		slog.Int("workers", cfg.Concurrency),
		slog.Bool("menu", cfg.IncludeMenu),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		return 1
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	p := pipeline.NewPipeline(writer)
	p.Start(cfg.Concurrency)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	startTime := time.Now()
	result, err := s.Run(ctx, targets, p)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		return 1
	}

	if err := p.Close(); err != nil {
		slog.Error("pipeline shutdown failed", slog.Any("error", err))
		return 1
	}

	if result.Documents > 0 {
		if err := writer.Validate(); err != nil {
			slog.Error("output validation failed", slog.Any("error", err))
			return 1
		}
	} else {
		slog.Warn("no restaurant data collected")
	}

	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
		return 1
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, len(targets), time.Since(startTime), cfg.OutputFile)
	return 0
}

// overrides carries the command-line values layered over the config
// loaded from the settings file.
type overrides struct {
	outputFile  string
	format      string
	parallel    int
	metricsAddr string
	noMenu      bool
	verbose     bool
}

// applyOverrides lets flags win over settings, but only when actually
// given: zero-valued overrides leave the settings value in place.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.outputFile != "" {
		cfg.OutputFile = o.outputFile
	}
	cfg.OutputFormat = strings.ToLower(o.format)
	if o.parallel > 0 {
		cfg.Concurrency = o.parallel
	}
	if o.metricsAddr != "" {
		cfg.MetricsAddr = o.metricsAddr
	}
	if o.noMenu {
		cfg.IncludeMenu = false
	}
	cfg.Verbose = o.verbose
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONArrayWriter(filename)
	case "jsonl":
		return pipeline.NewJSONLWriter(filename)
	case "dual":
		jsonlFilename := strings.TrimSuffix(filename, ".json") + ".jsonl"
		return pipeline.NewDualWriter(filename, jsonlFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.ScrapeResult, attempted int, duration time.Duration, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Documents:     %d of %d URLs\n", result.Documents, attempted)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	fmt.Printf("  Cache hits:    %d\n", result.CacheHits)
	fmt.Printf("  Failed URLs:   %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) *slog.Logger {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
