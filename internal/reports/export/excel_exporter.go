package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of Excel exports
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelExporter exports an evaluation report to a single-sheet workbook
type ExcelExporter struct {
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName        string            `json:"sheet_name"`
	Title            string            `json:"title"`
	InfoLabels       []string          `json:"info_labels"`
	IndicatorHeading string            `json:"indicator_heading"`
	IndicatorHeaders []string          `json:"indicator_headers"`
	RuntimeHeading   string            `json:"runtime_heading"`
	RuntimeHeaders   []string          `json:"runtime_headers"`
	RuntimeLabels    []string          `json:"runtime_labels"`
	HeaderStyle      *ExcelStyleConfig `json:"header_style,omitempty"`
	DataStyle        *ExcelStyleConfig `json:"data_style,omitempty"`
	ColumnWidth      float64           `json:"column_width"`
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool   `json:"font_bold"`
	FontSize  int    `json:"font_size"`
	FontColor string `json:"font_color"`
	FillColor string `json:"fill_color"`
	Alignment string `json:"alignment"` // left, center, right
	Border    bool   `json:"border"`
}

// DefaultExcelOptions returns Excel options labelled like the PDF report
func DefaultExcelOptions() ExcelOptions {
	pdf := DefaultPDFOptions()
	return ExcelOptions{
		SheetName:        "评测报告",
		Title:            pdf.Title,
		InfoLabels:       pdf.InfoLabels,
		IndicatorHeading: pdf.IndicatorHeading,
		IndicatorHeaders: pdf.IndicatorHeaders,
		RuntimeHeading:   pdf.RuntimeHeading,
		RuntimeHeaders:   pdf.RuntimeHeaders,
		RuntimeLabels:    pdf.RuntimeLabels,
		ColumnWidth:      28,
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "EBEBEB",
			Alignment: "left",
			Border:    true,
		},
		DataStyle: &ExcelStyleConfig{
			FontSize:  11,
			Alignment: "left",
			Border:    true,
		},
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	return &ExcelExporter{options: options}
}

// sheetWriter tracks the next free row while a workbook is filled
type sheetWriter struct {
	file   *excelize.File
	sheet  string
	row    int
	header int
	data   int
}

// Export renders data as xlsx bytes: title, info block, indicator table and
// runtime table stacked top to bottom with a blank row between sections.
func (e *ExcelExporter) Export(data *ReportData) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", e.options.SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	w := &sheetWriter{file: file, sheet: e.options.SheetName, row: 1}
	var err error
	if w.header, err = e.createStyle(file, e.options.HeaderStyle); err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if w.data, err = e.createStyle(file, e.options.DataStyle); err != nil {
		return nil, fmt.Errorf("failed to create data style: %w", err)
	}

	if err := w.writeRow(0, e.options.Title); err != nil {
		return nil, err
	}
	w.row++

	info := []interface{}{data.EvalID, data.EvalName, data.EvalTime, data.Organizer}
	for i, v := range info {
		if err := w.writeRow(w.data, label(e.options.InfoLabels, i), v); err != nil {
			return nil, err
		}
	}
	w.row++

	if err := w.writeTable(e.options.IndicatorHeading, e.options.IndicatorHeaders, indicatorRows(data.Indicator)); err != nil {
		return nil, err
	}
	w.row++

	runtime := []interface{}{data.RuntimeInfo.CPU, data.RuntimeInfo.Memory, data.RuntimeInfo.Runtime}
	rows := make([][]interface{}, len(runtime))
	for i, v := range runtime {
		rows[i] = []interface{}{label(e.options.RuntimeLabels, i), v}
	}
	if err := w.writeTable(e.options.RuntimeHeading, e.options.RuntimeHeaders, rows); err != nil {
		return nil, err
	}

	if e.options.ColumnWidth > 0 {
		if err := file.SetColWidth(w.sheet, "A", "B", e.options.ColumnWidth); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return buf.Bytes(), nil
}

func (w *sheetWriter) writeTable(heading string, headers []string, rows [][]interface{}) error {
	if err := w.writeRow(0, heading); err != nil {
		return err
	}
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	if err := w.writeRow(w.header, cells...); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.writeRow(w.data, row...); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes cells left to right on the current row and advances it.
// styleID 0 leaves the default style.
func (w *sheetWriter) writeRow(styleID int, cells ...interface{}) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.setCellValue(cell, v); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
		if styleID > 0 {
			if err := w.file.SetCellStyle(w.sheet, cell, cell, styleID); err != nil {
				return fmt.Errorf("failed to set cell style: %w", err)
			}
		}
	}
	w.row++
	return nil
}

// setCellValue keeps numbers numeric and blanks out missing values
func (w *sheetWriter) setCellValue(cell string, val interface{}) error {
	switch v := val.(type) {
	case nil:
		return w.file.SetCellValue(w.sheet, cell, "")
	case float64, float32, int, int64, bool, string:
		return w.file.SetCellValue(w.sheet, cell, v)
	default:
		return w.file.SetCellValue(w.sheet, cell, formatValue(v))
	}
}

// createStyle creates an Excel style from config
func (e *ExcelExporter) createStyle(file *excelize.File, config *ExcelStyleConfig) (int, error) {
	if config == nil {
		return 0, nil
	}

	style := &excelize.Style{
		Font: &excelize.Font{
			Bold: config.FontBold,
			Size: float64(config.FontSize),
		},
	}
	if config.FontColor != "" {
		style.Font.Color = config.FontColor
	}

	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}

	switch config.Alignment {
	case "left", "center", "right":
		style.Alignment = &excelize.Alignment{Horizontal: config.Alignment}
	}

	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "333333", Style: 1},
			{Type: "right", Color: "333333", Style: 1},
			{Type: "top", Color: "333333", Style: 1},
			{Type: "bottom", Color: "333333", Style: 1},
		}
	}

	return file.NewStyle(style)
}
