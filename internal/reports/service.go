package reports

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/reports/export"
	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// PDFGenerator renders the PDF report
type PDFGenerator interface {
	Generate(ctx context.Context, data *export.ReportData) (*export.Document, error)
}

// Exporter renders a tabular export of the report
type Exporter interface {
	Export(data *export.ReportData) ([]byte, error)
}

// TypefaceCache is the process-wide typeface cache
type TypefaceCache interface {
	Acquire(ctx context.Context) (*typeface.Set, error)
	Warm() bool
	Loads() int64
}

// Service provides business logic for evaluation report generation
type Service struct {
	pdf       PDFGenerator
	excel     Exporter
	csv       Exporter
	typefaces TypefaceCache
	fonts     typeface.CacheConfig
	logger    *zap.Logger
}

// NewService creates a new reports service
func NewService(pdf PDFGenerator, excel, csv Exporter, typefaces TypefaceCache, fonts typeface.CacheConfig, logger *zap.Logger) *Service {
	return &Service{
		pdf:       pdf,
		excel:     excel,
		csv:       csv,
		typefaces: typefaces,
		fonts:     fonts,
		logger:    logger,
	}
}

// Generate renders data in the requested format
func (s *Service) Generate(ctx context.Context, format ExportFormat, data *export.ReportData) (*GeneratedReport, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	id := uuid.New()
	start := time.Now()

	var (
		out         []byte
		contentType string
		warnings    []export.LayoutOverflowWarning
		err         error
	)

	switch format {
	case ExportFormatPDF:
		var doc *export.Document
		if doc, err = s.pdf.Generate(ctx, data); err == nil {
			out, contentType, warnings = doc.Data, doc.ContentType, doc.Warnings
		}
	case ExportFormatExcel:
		if err = ctx.Err(); err == nil {
			out, err = s.excel.Export(data)
			contentType = export.ContentTypeXLSX
		}
	case ExportFormatCSV:
		if err = ctx.Err(); err == nil {
			out, err = s.csv.Export(data)
			contentType = export.ContentTypeCSV
		}
	}

	if err != nil {
		s.logger.Error("Failed to generate report",
			zap.String("report_id", id.String()),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	report := &GeneratedReport{
		ID:          id,
		Format:      format,
		FileName:    fileName(data, id, format),
		ContentType: contentType,
		Data:        out,
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
	}

	s.logger.Info("Report generated",
		zap.String("report_id", id.String()),
		zap.String("format", string(format)),
		zap.String("file_name", report.FileName),
		zap.Int("bytes", len(out)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", report.Duration))

	return report, nil
}

// Prewarm loads the typefaces ahead of the first request
func (s *Service) Prewarm(ctx context.Context) error {
	start := time.Now()
	if _, err := s.typefaces.Acquire(ctx); err != nil {
		return fmt.Errorf("failed to prewarm typefaces: %w", err)
	}
	s.logger.Info("Typefaces prewarmed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// TypefaceStatus reports whether the typefaces are loaded
func (s *Service) TypefaceStatus() *TypefaceStatusResponse {
	return &TypefaceStatusResponse{
		Warm:            s.typefaces.Warm(),
		Loads:           s.typefaces.Loads(),
		RegularLocation: s.fonts.RegularLocation,
		BoldLocation:    s.fonts.BoldLocation,
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName builds an ASCII download name from the evaluation ID, falling
// back to the report ID.
func fileName(data *export.ReportData, id uuid.UUID, format ExportFormat) string {
	base := ""
	if data != nil && data.EvalID != nil {
		base = strings.Trim(unsafeFileChars.ReplaceAllString(fmt.Sprint(data.EvalID), "-"), "-.")
	}
	if base == "" {
		base = id.String()
	}
	return fmt.Sprintf("eval-report-%s.%s", base, format)
}
