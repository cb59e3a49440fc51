package export

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// ContentTypePDF is the MIME type of generated reports
const ContentTypePDF = "application/pdf"

// PDFOptions configures the evaluation report layout. All lengths are in
// points in the bottom-up page space.
type PDFOptions struct {
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	Left       float64 `json:"left"`

	Title         string  `json:"title"`
	TitleFontSize float64 `json:"title_font_size"`
	TitleY        float64 `json:"title_y"`

	// Gaps advanced after the title, after each section, and after a section heading
	TitleGap   float64 `json:"title_gap"`
	SectionGap float64 `json:"section_gap"`
	HeadingGap float64 `json:"heading_gap"`

	InfoLabels    []string `json:"info_labels"` // evalId, evalName, evalTime, organizer
	InfoCol1Width float64  `json:"info_col1_width"`
	InfoRowHeight float64  `json:"info_row_height"`

	HeadingFontSize  float64  `json:"heading_font_size"`
	IndicatorHeading string   `json:"indicator_heading"`
	IndicatorHeaders []string `json:"indicator_headers"`
	RuntimeHeading   string   `json:"runtime_heading"`
	RuntimeHeaders   []string `json:"runtime_headers"`
	RuntimeLabels    []string `json:"runtime_labels"` // cpu, memory, runtime
	GridRowHeight    float64  `json:"grid_row_height"`
	CellFontSize     float64  `json:"cell_font_size"`

	Footer         string   `json:"footer"`
	FooterFontSize float64  `json:"footer_font_size"`
	FooterY        float64  `json:"footer_y"`
	FooterColor    PDFColor `json:"footer_color"`

	Watermark Watermark `json:"watermark"`

	// CreationDate is pinned so identical inputs produce identical bytes
	CreationDate time.Time `json:"creation_date"`
}

// DefaultPDFOptions returns the standard Align Eval report layout
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageWidth:        A4Width,
		PageHeight:       A4Height,
		Left:             60,
		Title:            "Align Eval 算法评测报告",
		TitleFontSize:    26,
		TitleY:           780,
		TitleGap:         50,
		SectionGap:       50,
		HeadingGap:       30,
		InfoLabels:       []string{"评测编号", "评测名称", "评测时间", "发起人"},
		InfoCol1Width:    120,
		InfoRowHeight:    28,
		HeadingFontSize:  18,
		IndicatorHeading: "一、关键指标结果",
		IndicatorHeaders: []string{"指标名称", "数值"},
		RuntimeHeading:   "二、系统运行信息",
		RuntimeHeaders:   []string{"运行项", "数值"},
		RuntimeLabels:    []string{"CPU 使用率（%）", "内存占用（MB）", "运行耗时（s）"},
		GridRowHeight:    26,
		CellFontSize:     12,
		Footer:           "由 Align Eval 平台自动生成",
		FooterFontSize:   10,
		FooterY:          30,
		FooterColor:      Gray(0.5),
		Watermark:        DefaultWatermark(),
		CreationDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TypefaceProvider hands out the shared typefaces
type TypefaceProvider interface {
	Acquire(ctx context.Context) (*typeface.Set, error)
}

// Document is a finished report
type Document struct {
	Data        []byte
	ContentType string
	Warnings    []LayoutOverflowWarning
}

// ReportAssembler turns ReportData into a one-page PDF. It holds no
// per-call state, so one assembler serves concurrent generations.
type ReportAssembler struct {
	typefaces TypefaceProvider
	options   PDFOptions
	logger    *zap.Logger

	coverage sync.Once
}

// NewReportAssembler creates a report assembler
func NewReportAssembler(typefaces TypefaceProvider, options PDFOptions, logger *zap.Logger) *ReportAssembler {
	return &ReportAssembler{
		typefaces: typefaces,
		options:   options,
		logger:    logger,
	}
}

// Generate validates data, waits for the typefaces, draws the page and
// serializes it. No partial document is returned on failure.
func (a *ReportAssembler) Generate(ctx context.Context, data *ReportData) (*Document, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	faces, err := a.typefaces.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	a.coverage.Do(func() { a.checkCoverage(faces) })

	o := a.options
	canvas := NewPDFCanvas(faces, o.PageWidth, o.PageHeight, o.CreationDate)

	warnings, err := a.Layout(canvas, faces, data)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		a.logger.Warn("Report layout overflow",
			zap.String("section", w.Section),
			zap.Float64("bottom", w.Bottom),
			zap.Float64("limit", w.Limit))
	}

	out, err := canvas.Bytes()
	if err != nil {
		return nil, err
	}

	return &Document{
		Data:        out,
		ContentType: ContentTypePDF,
		Warnings:    warnings,
	}, nil
}

// cursor is the vertical position the next section starts at. It only
// moves down the page.
type cursor float64

// Layout draws the whole report onto c in a fixed top-to-bottom order.
// Each step takes the cursor and returns the next one.
func (a *ReportAssembler) Layout(c Canvas, m typeface.Measurer, data *ReportData) ([]LayoutOverflowWarning, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	o := a.options
	var warnings []LayoutOverflowWarning

	cur := a.drawTitle(c, m, cursor(o.TitleY))

	cur, bounds, err := a.drawInfo(c, data, cur)
	if err != nil {
		return nil, err
	}
	warnings = a.checkOverflow(warnings, "info", bounds)

	cur, bounds, err = a.drawSection(c, o.IndicatorHeading, o.IndicatorHeaders, indicatorRows(data.Indicator), cur)
	if err != nil {
		return nil, fmt.Errorf("indicator section: %w", err)
	}
	warnings = a.checkOverflow(warnings, "indicator", bounds)

	_, bounds, err = a.drawSection(c, o.RuntimeHeading, o.RuntimeHeaders, a.runtimeRows(data.RuntimeInfo), cur)
	if err != nil {
		return nil, fmt.Errorf("runtime section: %w", err)
	}
	warnings = a.checkOverflow(warnings, "runtime", bounds)

	a.drawFooter(c)
	DrawWatermark(c, m, o.Watermark)

	return warnings, nil
}

func (a *ReportAssembler) drawTitle(c Canvas, m typeface.Measurer, cur cursor) cursor {
	o := a.options
	width, _ := c.Size()
	titleWidth := m.MeasureWidth(o.Title, o.TitleFontSize, typeface.Regular)

	c.DrawText(o.Title, TextOptions{
		X:     (width - titleWidth) / 2,
		Y:     float64(cur),
		Size:  o.TitleFontSize,
		Style: typeface.Regular,
		Color: Black,
	})
	return cur - cursor(o.TitleGap)
}

func (a *ReportAssembler) drawInfo(c Canvas, data *ReportData, cur cursor) (cursor, TableBounds, error) {
	o := a.options
	values := []interface{}{data.EvalID, data.EvalName, data.EvalTime, data.Organizer}
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{label(o.InfoLabels, i), v}
	}

	bounds, err := DrawTable(c, TableSpec{
		Style:     LabelValueStyle,
		X:         o.Left,
		Y:         float64(cur),
		Width:     a.tableWidth(c),
		RowHeight: o.InfoRowHeight,
		Col1Width: o.InfoCol1Width,
		Rows:      rows,
		FontSize:  o.CellFontSize,
	})
	if err != nil {
		return cur, bounds, fmt.Errorf("info table: %w", err)
	}
	return cur - cursor(bounds.Height()+o.SectionGap), bounds, nil
}

// drawSection draws a heading followed by a grid table
func (a *ReportAssembler) drawSection(c Canvas, heading string, headers []string, rows [][]interface{}, cur cursor) (cursor, TableBounds, error) {
	o := a.options
	c.DrawText(heading, TextOptions{
		X:     o.Left,
		Y:     float64(cur),
		Size:  o.HeadingFontSize,
		Style: typeface.Regular,
		Color: Black,
	})
	cur -= cursor(o.HeadingGap)

	bounds, err := DrawTable(c, TableSpec{
		Style:     GridStyle,
		X:         o.Left,
		Y:         float64(cur),
		Width:     a.tableWidth(c),
		RowHeight: o.GridRowHeight,
		Headers:   headers,
		Rows:      rows,
		FontSize:  o.CellFontSize,
	})
	if err != nil {
		return cur, bounds, err
	}
	return cur - cursor(bounds.Height()+o.SectionGap), bounds, nil
}

func (a *ReportAssembler) drawFooter(c Canvas) {
	o := a.options
	c.DrawText(o.Footer, TextOptions{
		X:     o.Left,
		Y:     o.FooterY,
		Size:  o.FooterFontSize,
		Style: typeface.Regular,
		Color: o.FooterColor,
	})
}

// checkOverflow records a warning when a section reaches into the footer band
func (a *ReportAssembler) checkOverflow(warnings []LayoutOverflowWarning, section string, b TableBounds) []LayoutOverflowWarning {
	limit := a.options.FooterY + a.options.FooterFontSize
	if b.Bottom < limit {
		warnings = append(warnings, LayoutOverflowWarning{Section: section, Bottom: b.Bottom, Limit: limit})
	}
	return warnings
}

func (a *ReportAssembler) tableWidth(c Canvas) float64 {
	width, _ := c.Size()
	return width - a.options.Left*2
}

func (a *ReportAssembler) runtimeRows(info *RuntimeInfo) [][]interface{} {
	values := []interface{}{info.CPU, info.Memory, info.Runtime}
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{label(a.options.RuntimeLabels, i), v}
	}
	return rows
}

func indicatorRows(indicators []Indicator) [][]interface{} {
	rows := make([][]interface{}, len(indicators))
	for i, ind := range indicators {
		rows[i] = []interface{}{ind.Key, ind.Value}
	}
	return rows
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

// layoutText returns every configured string the page draws
func (o *PDFOptions) layoutText() string {
	parts := []string{o.Title, o.IndicatorHeading, o.RuntimeHeading, o.Footer, o.Watermark.Text}
	parts = append(parts, o.InfoLabels...)
	parts = append(parts, o.IndicatorHeaders...)
	parts = append(parts, o.RuntimeHeaders...)
	parts = append(parts, o.RuntimeLabels...)
	return strings.Join(parts, " ")
}

// checkCoverage warns when the loaded typefaces cannot render the configured
// labels, which then come out as .notdef boxes.
func (a *ReportAssembler) checkCoverage(faces *typeface.Set) {
	text := a.options.layoutText()
	for _, face := range []*typeface.Face{faces.Regular, faces.Bold} {
		missing := face.MissingRunes(text)
		if len(missing) == 0 {
			continue
		}
		a.logger.Warn("Typefaces lack glyphs for report text",
			zap.String("typeface", face.Name),
			zap.Int("missing", len(missing)),
			zap.String("runes", string(missing)))
	}
}
