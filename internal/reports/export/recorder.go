package export

// DrawOp names a canvas primitive
type DrawOp string

const (
	OpText DrawOp = "text"
	OpRect DrawOp = "rect"
	OpLine DrawOp = "line"
)

// DrawCall is one entry of a Recorder's log. Only the options matching Op
// are set.
type DrawCall struct {
	Op   DrawOp
	Text string
	TextOptions
	Rect RectOptions
	Line LineOptions
}

// Recorder is a Canvas that keeps the ordered log of draw calls instead of
// rendering them.
type Recorder struct {
	width  float64
	height float64
	calls  []DrawCall
}

// NewRecorder creates a recorder for a page of the given size
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

// Size returns the page size
func (r *Recorder) Size() (float64, float64) {
	return r.width, r.height
}

// DrawText records a text call
func (r *Recorder) DrawText(text string, opts TextOptions) {
	r.calls = append(r.calls, DrawCall{Op: OpText, Text: text, TextOptions: opts})
}

// DrawRect records a rectangle call
func (r *Recorder) DrawRect(opts RectOptions) {
	r.calls = append(r.calls, DrawCall{Op: OpRect, Rect: opts})
}

// DrawLine records a line call
func (r *Recorder) DrawLine(opts LineOptions) {
	r.calls = append(r.calls, DrawCall{Op: OpLine, Line: opts})
}

// Calls returns the log in draw order
func (r *Recorder) Calls() []DrawCall {
	return r.calls
}

// Texts returns the drawn strings in draw order
func (r *Recorder) Texts() []string {
	var texts []string
	for _, c := range r.calls {
		if c.Op == OpText {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

// FindText returns the first text call drawing s
func (r *Recorder) FindText(s string) (DrawCall, bool) {
	for _, c := range r.calls {
		if c.Op == OpText && c.Text == s {
			return c, true
		}
	}
	return DrawCall{}, false
}

// Count returns how many calls of op were recorded
func (r *Recorder) Count(op DrawOp) int {
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
