package typeface

import (
	"fmt"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Style selects one of the two typefaces used by a report
type Style int

const (
	Regular Style = iota
	Bold
)

// String returns the style name
func (s Style) String() string {
	if s == Bold {
		return "bold"
	}
	return "regular"
}

// Measurer computes the rendered width of a text run
type Measurer interface {
	MeasureWidth(text string, size float64, style Style) float64
}

// Face is one parsed typeface. Data is the raw font program handed to the
// PDF encoder; the parsed font is only used for glyph metrics.
type Face struct {
	Name string
	Data []byte

	font *sfnt.Font
}

// NewFace parses raw TrueType/OpenType bytes
func NewFace(name string, data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty font data")
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Face{Name: name, Data: data, font: f}, nil
}

// Width returns the advance width of text at size points. Kerning is ignored.
// Runes without a glyph fall back to the .notdef advance.
func (f *Face) Width(text string, size float64) float64 {
	if text == "" {
		return 0
	}

	var buf sfnt.Buffer
	upem := f.font.UnitsPerEm()
	// ppem == units per em yields advances in font units (26.6)
	ppem := fixed.I(int(upem))

	// summed in float64; an Int26_6 total overflows on long runs
	var units float64
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		adv, err := f.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		units += float64(adv) / 64
	}

	return units * size / float64(upem)
}

// MissingRunes returns the distinct non-space runes of text the face maps to
// .notdef, in first-seen order.
func (f *Face) MissingRunes(text string) []rune {
	var buf sfnt.Buffer
	seen := make(map[rune]bool)
	var missing []rune
	for _, r := range text {
		if unicode.IsSpace(r) || seen[r] {
			continue
		}
		seen[r] = true
		idx, err := f.font.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}

// Set holds the regular and bold faces of a report. It is immutable once
// built and shared read-only across concurrent generations.
type Set struct {
	Regular *Face
	Bold    *Face
}

// Face returns the face for a style
func (s *Set) Face(style Style) *Face {
	if style == Bold {
		return s.Bold
	}
	return s.Regular
}

// MeasureWidth implements Measurer
func (s *Set) MeasureWidth(text string, size float64, style Style) float64 {
	return s.Face(style).Width(text, size)
}
