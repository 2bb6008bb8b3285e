// Command analyzer ingests donation files from the command line and
// prints the resulting analysis as JSON. It shares the storage layer
// with the web server, so files merged here are visible to the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"donorpulse/internal/config"
	"donorpulse/internal/economic"
	"donorpulse/internal/infrastructure"
	"donorpulse/internal/services"
	"donorpulse/internal/storage"
)

func main() {
	enhanced := flag.Bool("enhanced", false, "include the economically adjusted forecast")
	clearFirst := flag.Bool("clear", false, "clear stored donor data before ingesting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, flag.Args(), *enhanced, *clearFirst); err != nil {
		logger.Error("analyzer failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, files []string, enhanced, clearFirst bool) error {
	ctx := context.Background()

	var encryptor *storage.Encryptor
	if cfg.Storage.EncryptionPassphrase != "" {
		var err error
		encryptor, err = storage.NewEncryptor(cfg.Storage.EncryptionPassphrase)
		if err != nil {
			return fmt.Errorf("initialize encryption: %w", err)
		}
	}

	store, err := storage.NewStore(cfg.Storage.DataDir, encryptor, logger)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	donorService := services.NewDonorService(store, nil, logger)
	if clearFirst {
		if err := donorService.Clear(ctx); err != nil {
			return err
		}
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		result, err := donorService.Upload(ctx, f, path)
		f.Close()
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		logger.Info("file ingested",
			"file", path,
			"records_processed", result.RecordsProcessed,
			"donations_added", result.DonationsAdded,
		)
	}

	provider := economic.NewProvider(economic.Config{
		FredBaseURL: cfg.Economic.FredBaseURL,
		BLSBaseURL:  cfg.Economic.BLSBaseURL,
		FredAPIKey:  cfg.Economic.FredAPIKey,
		BLSAPIKey:   cfg.Economic.BLSAPIKey,
		Timeout:     cfg.Economic.Timeout,
	}, logger)
	analysisService := services.NewAnalysisService(store, provider, nil, logger)

	var output interface{}
	if enhanced {
		output, err = analysisService.AnalyzeEnhanced(ctx)
	} else {
		output, err = analysisService.Analyze(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
