package main

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"smartinvoice/internal/config"
	"smartinvoice/internal/extract"
	"smartinvoice/internal/extract/claude"
	"smartinvoice/internal/extract/gemini"
	"smartinvoice/internal/handler"
	"smartinvoice/internal/port"
	"smartinvoice/internal/repository/postgres"
	"smartinvoice/internal/router"
	"smartinvoice/internal/service"
	s3storage "smartinvoice/internal/storage/s3"
	"smartinvoice/internal/store"
)

func init() {
	extract.RegisterProvider("gemini", func(cfg *config.ExtractConfig) (port.InvoiceExtractor, error) {
		return gemini.NewExtractor(cfg), nil
	})
	extract.RegisterProvider("claude", func(cfg *config.ExtractConfig) (port.InvoiceExtractor, error) {
		return claude.NewExtractor(cfg), nil
	})
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize record store
	var (
		repo port.RecordRepository
		db   *sqlx.DB
	)
	switch cfg.Store.Driver {
	case "postgres":
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewRecordRepo(db)
	case "memory":
		repo = store.NewMemoryRepo()
	default:
		return fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction provider. Without an API key uploads still work
	// but settle as errors.
	var extractor port.InvoiceExtractor
	if cfg.Extract.APIKey != "" {
		extractor, err = extract.NewExtractor(&cfg.Extract)
		if err != nil {
			return fmt.Errorf("failed to initialize extraction provider: %w", err)
		}
	} else {
		log.Printf("no extraction API key configured; uploads will settle as errors")
	}

	// Initialize services
	authSvc, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	invoiceSvc := service.NewInvoiceService(repo, s3Client, extractor, &cfg.S3, &cfg.Extract)
	statsSvc := service.NewStatsService(repo)
	exportSvc := service.NewExportService(repo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, invoiceH, statsH, exportH, healthH)

	log.Printf("Server starting on %s (store driver: %s, extraction provider: %s)",
		cfg.Server.Port, cfg.Store.Driver, cfg.Extract.Provider)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
