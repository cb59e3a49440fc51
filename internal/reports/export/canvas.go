package export

import "align-eval/eval-portal/report-backend/internal/reports/typeface"

// Page size of an A4 sheet in points
const (
	A4Width  = 595.0
	A4Height = 842.0
)

// PDFColor represents an RGB color
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Gray returns a gray level given as a fraction of white
func Gray(level float64) PDFColor {
	v := int(level*255 + 0.5)
	return PDFColor{R: v, G: v, B: v}
}

// Black is the default text color
var Black = PDFColor{}

// TextOptions configures a single text run. (X, Y) is the baseline origin.
type TextOptions struct {
	X        float64
	Y        float64
	Size     float64
	Style    typeface.Style
	Color    PDFColor
	Opacity  float64 // 0 means opaque
	Rotation float64 // degrees counter-clockwise around (X, Y)
}

func (o TextOptions) opacity() float64 {
	if o.Opacity <= 0 || o.Opacity > 1 {
		return 1
	}
	return o.Opacity
}

// RectOptions configures a rectangle. (X, Y) is the bottom-left corner.
// A nil color omits the border or the fill.
type RectOptions struct {
	X           float64
	Y           float64
	Width       float64
	Height      float64
	BorderColor *PDFColor
	FillColor   *PDFColor
	BorderWidth float64 // 0 means 1 when a border is drawn
}

func (o RectOptions) borderWidth() float64 {
	if o.BorderWidth <= 0 {
		return 1
	}
	return o.BorderWidth
}

// LineOptions configures a straight segment
type LineOptions struct {
	X1        float64
	Y1        float64
	X2        float64
	Y2        float64
	Thickness float64
	Color     PDFColor
}

// Canvas is one fixed-size page accepting absolute-coordinate primitives.
// The origin is the bottom-left corner and y grows upwards. Callers own all
// positioning; a Canvas never lays anything out.
type Canvas interface {
	Size() (width, height float64)
	DrawText(text string, opts TextOptions)
	DrawRect(opts RectOptions)
	DrawLine(opts LineOptions)
}
