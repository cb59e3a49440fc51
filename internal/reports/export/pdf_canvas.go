package export

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"

	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// gofpdf font families the typeface set is registered under
const (
	regularFamily = "reportregular"
	boldFamily    = "reportbold"
)

// PDFCanvas draws onto a single gofpdf page. Coordinates are taken in the
// bottom-up page space and flipped into gofpdf's top-down space here.
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	width  float64
	height float64
}

// NewPDFCanvas creates a one-page document of the given size in points with
// both typefaces registered. createdAt is written as the creation and
// modification date so identical draw sequences serialize to identical bytes.
func NewPDFCanvas(faces *typeface.Set, width, height float64, createdAt time.Time) *PDFCanvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(createdAt)
	pdf.SetModificationDate(createdAt)

	// The subsetter appends into the font buffer while serializing; the
	// cached bytes are shared by every generation and must stay untouched.
	pdf.AddUTF8FontFromBytes(regularFamily, "", bytes.Clone(faces.Regular.Data))
	pdf.AddUTF8FontFromBytes(boldFamily, "", bytes.Clone(faces.Bold.Data))
	pdf.AddPage()

	return &PDFCanvas{
		pdf:    pdf,
		width:  width,
		height: height,
	}
}

// Size returns the page size in points
func (c *PDFCanvas) Size() (float64, float64) {
	return c.width, c.height
}

// DrawText draws a text run with its baseline at (X, Y)
func (c *PDFCanvas) DrawText(text string, opts TextOptions) {
	family := regularFamily
	if opts.Style == typeface.Bold {
		family = boldFamily
	}
	c.pdf.SetFont(family, "", opts.Size)
	c.pdf.SetTextColor(opts.Color.R, opts.Color.G, opts.Color.B)

	x, y := opts.X, c.flipY(opts.Y)

	if alpha := opts.opacity(); alpha < 1 {
		c.pdf.SetAlpha(alpha, "Normal")
		defer c.pdf.SetAlpha(1, "Normal")
	}
	if opts.Rotation != 0 {
		c.pdf.TransformBegin()
		c.pdf.TransformRotate(opts.Rotation, x, y)
		defer c.pdf.TransformEnd()
	}

	c.pdf.Text(x, y, text)
}

// DrawRect draws a rectangle with its bottom-left corner at (X, Y)
func (c *PDFCanvas) DrawRect(opts RectOptions) {
	style := ""
	if opts.FillColor != nil {
		c.pdf.SetFillColor(opts.FillColor.R, opts.FillColor.G, opts.FillColor.B)
		style += "F"
	}
	if opts.BorderColor != nil {
		c.pdf.SetDrawColor(opts.BorderColor.R, opts.BorderColor.G, opts.BorderColor.B)
		c.pdf.SetLineWidth(opts.borderWidth())
		style += "D"
	}
	if style == "" {
		return
	}

	// gofpdf anchors rectangles at the top-left corner
	c.pdf.Rect(opts.X, c.flipY(opts.Y+opts.Height), opts.Width, opts.Height, style)
}

// DrawLine draws a segment between two points
func (c *PDFCanvas) DrawLine(opts LineOptions) {
	c.pdf.SetDrawColor(opts.Color.R, opts.Color.G, opts.Color.B)
	c.pdf.SetLineWidth(opts.Thickness)
	c.pdf.Line(opts.X1, c.flipY(opts.Y1), opts.X2, c.flipY(opts.Y2))
}

// Bytes serializes the document. Font registration errors recorded by
// gofpdf surface here as well.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return buf.Bytes(), nil
}

func (c *PDFCanvas) flipY(y float64) float64 {
	return c.height - y
}
