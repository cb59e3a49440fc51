package reports

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"align-eval/eval-portal/report-backend/internal/reports/export"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	ExportFormatPDF   ExportFormat = "pdf"
	ExportFormatExcel ExportFormat = "xlsx"
	ExportFormatCSV   ExportFormat = "csv"
)

// ErrUnsupportedFormat is returned for an unknown ExportFormat
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Valid reports whether f is a known format
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatPDF, ExportFormatExcel, ExportFormatCSV:
		return true
	}
	return false
}

// GeneratedReport is a rendered evaluation report ready for download
type GeneratedReport struct {
	ID          uuid.UUID                      `json:"id"`
	Format      ExportFormat                   `json:"format"`
	FileName    string                         `json:"file_name"`
	ContentType string                         `json:"content_type"`
	Data        []byte                         `json:"-"`
	Warnings    []export.LayoutOverflowWarning `json:"warnings,omitempty"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Duration    time.Duration                  `json:"duration"`
}

// TypefaceStatusResponse describes the shared typeface cache
type TypefaceStatusResponse struct {
	Warm            bool   `json:"warm"`
	Loads           int64  `json:"loads"`
	RegularLocation string `json:"regular_location"`
	BoldLocation    string `json:"bold_location"`
}
