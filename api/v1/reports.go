package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/config"
	"align-eval/eval-portal/report-backend/internal/reports"
	"align-eval/eval-portal/report-backend/internal/reports/export"
	"align-eval/eval-portal/report-backend/internal/reports/typeface"
	"align-eval/eval-portal/report-backend/pkg/storage"
)

// ReportsAPI holds the reports API dependencies
type ReportsAPI struct {
	Handler   *reports.Handler
	Service   *reports.Service
	Typefaces *typeface.Cache
}

// SetupReportsAPI sets up the reports API with all dependencies
func SetupReportsAPI(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ReportsAPI, error) {
	source, err := newFontSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// One cache per process; every generation shares it
	cache := typeface.NewCache(source, cfg.Fonts.CacheConfig, logger.Named("typeface"))

	assembler := export.NewReportAssembler(cache, PDFOptions(cfg.Reports), logger.Named("export"))

	excelOpts := export.DefaultExcelOptions()
	if cfg.Reports.Title != "" {
		excelOpts.Title = cfg.Reports.Title
	}

	service := reports.NewService(
		assembler,
		export.NewExcelExporter(excelOpts),
		export.NewCSVExporter(export.DefaultCSVOptions()),
		cache,
		cfg.Fonts.CacheConfig,
		logger,
	)

	handler := reports.NewHandler(service, logger)

	return &ReportsAPI{
		Handler:   handler,
		Service:   service,
		Typefaces: cache,
	}, nil
}

// RegisterReportsRoutes registers the reports routes on the router group
func RegisterReportsRoutes(router *gin.RouterGroup, api *ReportsAPI) {
	api.Handler.RegisterRoutes(router)
}

// PDFOptions applies the configured overrides to the default layout
func PDFOptions(cfg config.ReportsConfig) export.PDFOptions {
	opts := export.DefaultPDFOptions()
	if cfg.Title != "" {
		opts.Title = cfg.Title
	}
	if cfg.Footer != "" {
		opts.Footer = cfg.Footer
	}
	if cfg.WatermarkText != "" {
		opts.Watermark.Text = cfg.WatermarkText
	}
	return opts
}

func newFontSource(ctx context.Context, cfg *config.Config) (*typeface.MultiSource, error) {
	source := typeface.NewMultiSource()

	httpSource := typeface.HTTPSource{Client: &http.Client{Timeout: cfg.Fonts.LoadTimeout}}
	source.Register(typeface.SchemeHTTP, httpSource)
	source.Register(typeface.SchemeHTTPS, httpSource)

	if cfg.UsesS3() {
		client, err := storage.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		source.Register(typeface.SchemeS3, typeface.S3Source{Client: client})
	}
	return source, nil
}
