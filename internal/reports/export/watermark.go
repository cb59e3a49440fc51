package export

import "align-eval/eval-portal/report-backend/internal/reports/typeface"

// Watermark is a large rotated translucent overlay drawn after all content
type Watermark struct {
	Text     string   `json:"text"`
	Size     float64  `json:"size"`
	Color    PDFColor `json:"color"`
	Opacity  float64  `json:"opacity"`
	Rotation float64  `json:"rotation"` // degrees counter-clockwise
	Bias     float64  `json:"bias"`     // horizontal offset from center
}

// DefaultWatermark returns the platform watermark
func DefaultWatermark() Watermark {
	return Watermark{
		Text:     "Align Eval 分析报告",
		Size:     72,
		Color:    Gray(0.75),
		Opacity:  0.3,
		Rotation: 45,
		Bias:     100,
	}
}

// DrawWatermark composites w in bold, centered horizontally plus Bias, at a
// quarter of the page height.
func DrawWatermark(c Canvas, m typeface.Measurer, w Watermark) {
	if w.Text == "" {
		return
	}
	width, height := c.Size()
	textWidth := m.MeasureWidth(w.Text, w.Size, typeface.Bold)

	c.DrawText(w.Text, TextOptions{
		X:        (width-textWidth)/2 + w.Bias,
		Y:        height / 4,
		Size:     w.Size,
		Style:    typeface.Bold,
		Color:    w.Color,
		Opacity:  w.Opacity,
		Rotation: w.Rotation,
	})
}
