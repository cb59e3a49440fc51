package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ContentTypeCSV is the MIME type of CSV exports
const ContentTypeCSV = "text/csv; charset=utf-8"

// CSVExporter exports an evaluation report as flat section,key,value records
type CSVExporter struct {
	options CSVOptions
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter     rune     `json:"delimiter"` // Field delimiter (default: comma)
	UseCRLF       bool     `json:"use_crlf"`  // Use \r\n for line terminator
	IncludeHeader bool     `json:"include_header"`
	WriteBOM      bool     `json:"write_bom"` // UTF-8 BOM so spreadsheet apps detect the encoding
	InfoLabels    []string `json:"info_labels"`
	RuntimeLabels []string `json:"runtime_labels"`
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	pdf := DefaultPDFOptions()
	return CSVOptions{
		Delimiter:     ',',
		IncludeHeader: true,
		WriteBOM:      true,
		InfoLabels:    pdf.InfoLabels,
		RuntimeLabels: pdf.RuntimeLabels,
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(options CSVOptions) *CSVExporter {
	return &CSVExporter{options: options}
}

// Export renders data as CSV bytes
func (e *CSVExporter) Export(data *ReportData) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if e.options.WriteBOM {
		buf.WriteString("\ufeff")
	}

	writer := csv.NewWriter(&buf)
	if e.options.Delimiter != 0 {
		writer.Comma = e.options.Delimiter
	}
	writer.UseCRLF = e.options.UseCRLF

	var records [][]string
	if e.options.IncludeHeader {
		records = append(records, []string{"section", "key", "value"})
	}

	info := []interface{}{data.EvalID, data.EvalName, data.EvalTime, data.Organizer}
	for i, v := range info {
		records = append(records, []string{"info", label(e.options.InfoLabels, i), formatValue(v)})
	}
	for _, ind := range data.Indicator {
		records = append(records, []string{"indicator", ind.Key, formatValue(ind.Value)})
	}
	runtime := []interface{}{data.RuntimeInfo.CPU, data.RuntimeInfo.Memory, data.RuntimeInfo.Runtime}
	for i, v := range runtime {
		records = append(records, []string{"runtime", label(e.options.RuntimeLabels, i), formatValue(v)})
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, &SerializationError{Err: fmt.Errorf("failed to write csv: %w", err)}
	}
	return buf.Bytes(), nil
}
