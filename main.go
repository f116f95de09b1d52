package main

import (
	"os"
	"time"

	"weedwatch/config"
	"weedwatch/refdata"
	"weedwatch/scraper"
	"weedwatch/scraper/amazon"
	"weedwatch/scraper/ebay"
	"weedwatch/scraper/etsy"
	"weedwatch/services"
	"weedwatch/status"
	"weedwatch/storage"
	"weedwatch/utils"
	"weedwatch/web"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Weedwatch starting ===")
	logger.Info("Config — max items: %d | per-site results: %d | throttle: %dms | ebay: %v | etsy: %v | amazon: %v",
		cfg.MaxItems, cfg.PerSiteResults, cfg.ThrottleMs, cfg.EnableEbay, cfg.EnableEtsy, cfg.EnableAmazon)

	httpTimeout := time.Duration(cfg.HTTPTimeoutS) * time.Second

	var providers []scraper.Provider
	if cfg.EnableEbay {
		providers = append(providers, ebay.New(httpTimeout, logger))
	}
	if cfg.EnableEtsy {
		providers = append(providers, etsy.New(httpTimeout, logger))
	}
	if cfg.EnableAmazon {
		providers = append(providers, amazon.New(cfg.ChromeBin, logger))
	}
	if len(providers) == 0 {
		logger.Error("No marketplaces enabled. Exiting.")
		os.Exit(1)
	}

	var writers []storage.ResultWriter
	if cfg.CSVExportPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVExportPath)
		if err != nil {
			logger.Error("Failed to create CSV export: %v", err)
			os.Exit(1)
		}
		defer csvWriter.Close()
		writers = append(writers, csvWriter)
	}
	if cfg.ArchiveToPostgres {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()
		writers = append(writers, pgWriter)
	}

	loader := refdata.NewLoader(cfg.RatingsCSV, cfg.NoxiousCSV, logger)
	state := status.NewStore()
	scanner := services.NewScanner(logger, loader, state, providers, writers,
		time.Duration(cfg.ThrottleMs)*time.Millisecond)

	server := web.NewServer(cfg, logger, state, scanner)
	if err := server.Run(); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
