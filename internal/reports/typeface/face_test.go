package typeface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func embeddedSet(t *testing.T) *Set {
	t.Helper()
	regular, err := NewFace("regular", goregular.TTF)
	require.NoError(t, err)
	bold, err := NewFace("bold", gobold.TTF)
	require.NoError(t, err)
	return &Set{Regular: regular, Bold: bold}
}

func TestFaceWidth(t *testing.T) {
	set := embeddedSet(t)

	assert.Zero(t, set.MeasureWidth("", 12, Regular))

	w12 := set.MeasureWidth("Align Eval", 12, Regular)
	w24 := set.MeasureWidth("Align Eval", 24, Regular)
	assert.Greater(t, w12, 0.0)
	assert.InDelta(t, 2*w12, w24, 1e-9)

	a := set.MeasureWidth("a", 12, Regular)
	b := set.MeasureWidth("b", 12, Regular)
	assert.InDelta(t, a+b, set.MeasureWidth("ab", 12, Regular), 1e-9)

	assert.NotEqual(t, w12, set.MeasureWidth("Align Eval", 12, Bold))
}

func TestFaceWidthMissingGlyph(t *testing.T) {
	set := embeddedSet(t)

	// Go fonts have no CJK coverage; missing runes measure as .notdef
	notdef := set.MeasureWidth("\uffff", 12, Regular)
	assert.InDelta(t, 2*notdef, set.MeasureWidth("评测", 12, Regular), 1e-9)
}

func TestFaceWidthLongRun(t *testing.T) {
	set := embeddedSet(t)

	// 40k advances of ~1900 units each exceed the 26.6 fixed-point range
	const n = 40000
	w := set.MeasureWidth("W", 12, Regular)
	long := set.MeasureWidth(strings.Repeat("W", n), 12, Regular)
	assert.Greater(t, long, 0.0)
	assert.InEpsilon(t, n*w, long, 1e-9)
}

func TestFaceMissingRunes(t *testing.T) {
	set := embeddedSet(t)

	assert.Empty(t, set.Regular.MissingRunes("Align Eval Report"))
	assert.Empty(t, set.Regular.MissingRunes(""))
	assert.Equal(t, []rune{'评', '测'}, set.Regular.MissingRunes("Align 评测 评测"))
	assert.Equal(t, []rune{'报', '告'}, set.Bold.MissingRunes("报告 (v2)"))
}

func TestNewFaceRejectsBadData(t *testing.T) {
	_, err := NewFace("empty", nil)
	assert.Error(t, err)

	_, err = NewFace("garbage", []byte("definitely not a font"))
	assert.Error(t, err)
}

func TestSetFace(t *testing.T) {
	set := embeddedSet(t)
	assert.Same(t, set.Regular, set.Face(Regular))
	assert.Same(t, set.Bold, set.Face(Bold))
	assert.Equal(t, "bold", Bold.String())
	assert.Equal(t, "regular", Regular.String())
}
