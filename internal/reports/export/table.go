package export

import (
	"fmt"

	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// TableStyle selects a table layout
type TableStyle int

const (
	// LabelValueStyle draws bordered rows split by a fixed-width label column
	LabelValueStyle TableStyle = iota
	// GridStyle draws a shaded header and equal-width columns with row dividers
	GridStyle
)

// Cell geometry shared by both layouts
const (
	labelInset   = 8.0
	gridInset    = 5.0
	cellBaseline = 8.0
	tableFont    = 12.0
)

var (
	tableBorder   = Gray(0.2)
	headerShade   = Gray(0.92)
	rowDivider    = Gray(0.7)
	dividerWeight = 0.5
)

// TableSpec describes one table. (X, Y) is the top-left corner. Col1Width
// is used by LabelValueStyle, Headers by GridStyle.
type TableSpec struct {
	Style     TableStyle
	X         float64
	Y         float64
	Width     float64
	RowHeight float64
	Col1Width float64
	Headers   []string
	Rows      [][]interface{}
	FontSize  float64
}

// TableBounds is the vertical extent a drawn table occupies
type TableBounds struct {
	Top    float64
	Bottom float64
}

// Height returns the occupied height
func (b TableBounds) Height() float64 {
	return b.Top - b.Bottom
}

// tableLayout is the per-style policy; DrawTable owns row stacking
type tableLayout interface {
	headerRows() int
	drawHeader(c Canvas, t *TableSpec, top float64)
	drawRow(c Canvas, t *TableSpec, row []interface{}, top float64)
}

// DrawTable lays out spec on c and returns the space it took. Content is not
// checked against the page bounds.
func DrawTable(c Canvas, spec TableSpec) (TableBounds, error) {
	layout, err := spec.layout()
	if err != nil {
		return TableBounds{}, err
	}
	if spec.FontSize <= 0 {
		spec.FontSize = tableFont
	}

	offset := layout.headerRows()
	if offset > 0 {
		layout.drawHeader(c, &spec, spec.Y)
	}
	for i, row := range spec.Rows {
		layout.drawRow(c, &spec, row, spec.rowTop(i+offset))
	}

	return TableBounds{
		Top:    spec.Y,
		Bottom: spec.rowTop(len(spec.Rows) + offset),
	}, nil
}

func (t *TableSpec) layout() (tableLayout, error) {
	if t.RowHeight <= 0 {
		return nil, fmt.Errorf("%w: row height must be positive, got %v", ErrInvalidTable, t.RowHeight)
	}

	switch t.Style {
	case LabelValueStyle:
		return labelValueLayout{}, nil
	case GridStyle:
		if len(t.Headers) == 0 {
			return nil, fmt.Errorf("%w: grid table needs at least one column", ErrInvalidTable)
		}
		return gridLayout{}, nil
	}
	return nil, fmt.Errorf("%w: unknown style %d", ErrInvalidTable, t.Style)
}

// rowTop returns the top edge of the i-th row, header rows included
func (t *TableSpec) rowTop(i int) float64 {
	return t.Y - t.RowHeight*float64(i)
}

// drawCell writes text on the baseline of the row starting at top
func (t *TableSpec) drawCell(c Canvas, text string, x, top float64) {
	c.DrawText(text, TextOptions{
		X:     x,
		Y:     top - t.RowHeight + cellBaseline,
		Size:  t.FontSize,
		Style: typeface.Regular,
		Color: Black,
	})
}

func cell(row []interface{}, i int) interface{} {
	if i < len(row) {
		return row[i]
	}
	return nil
}

type labelValueLayout struct{}

func (labelValueLayout) headerRows() int { return 0 }

func (labelValueLayout) drawHeader(Canvas, *TableSpec, float64) {}

func (labelValueLayout) drawRow(c Canvas, t *TableSpec, row []interface{}, top float64) {
	bottom := top - t.RowHeight
	border := tableBorder

	c.DrawRect(RectOptions{
		X:           t.X,
		Y:           bottom,
		Width:       t.Width,
		Height:      t.RowHeight,
		BorderColor: &border,
		BorderWidth: 1,
	})

	divider := t.X + t.Col1Width
	c.DrawLine(LineOptions{
		X1:        divider,
		Y1:        top,
		X2:        divider,
		Y2:        bottom,
		Thickness: 1,
		Color:     border,
	})

	t.drawCell(c, formatValue(cell(row, 0)), t.X+labelInset, top)
	t.drawCell(c, formatValue(cell(row, 1)), divider+labelInset, top)
}

type gridLayout struct{}

func (gridLayout) headerRows() int { return 1 }

func (gridLayout) columnWidth(t *TableSpec) float64 {
	return t.Width / float64(len(t.Headers))
}

func (g gridLayout) drawHeader(c Canvas, t *TableSpec, top float64) {
	shade := headerShade
	c.DrawRect(RectOptions{
		X:         t.X,
		Y:         top - t.RowHeight,
		Width:     t.Width,
		Height:    t.RowHeight,
		FillColor: &shade,
	})

	colW := g.columnWidth(t)
	for i, h := range t.Headers {
		t.drawCell(c, h, t.X+colW*float64(i)+gridInset, top)
	}
}

func (g gridLayout) drawRow(c Canvas, t *TableSpec, row []interface{}, top float64) {
	colW := g.columnWidth(t)
	for i, v := range row {
		t.drawCell(c, formatValue(v), t.X+colW*float64(i)+gridInset, top)
	}

	bottom := top - t.RowHeight
	c.DrawLine(LineOptions{
		X1:        t.X,
		Y1:        bottom,
		X2:        t.X + t.Width,
		Y2:        bottom,
		Thickness: dividerWeight,
		Color:     rowDivider,
	})
}
