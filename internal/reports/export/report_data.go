package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ReportData is one evaluation result as produced by the organizer image,
// enriched with the participant's runtime metrics. Scalars keep whatever JSON
// type they arrived with.
type ReportData struct {
	EvalID      interface{}  `json:"evalId"`
	EvalName    interface{}  `json:"evalName"`
	EvalTime    interface{}  `json:"evalTime"`
	Organizer   interface{}  `json:"organizer"`
	Indicator   []Indicator  `json:"indicator"`
	RuntimeInfo *RuntimeInfo `json:"runtimeInfo"`
}

// Indicator is one named metric; order is display order
type Indicator struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// RuntimeInfo holds peak CPU (%), peak memory (MB) and wall time (s)
type RuntimeInfo struct {
	CPU     interface{} `json:"cpu"`
	Memory  interface{} `json:"memory"`
	Runtime interface{} `json:"runtime"`
}

// Validate fails fast on data the layout cannot render. Absent metadata
// scalars are allowed and render blank; an absent indicator list or runtime
// block is not. An empty indicator list is valid.
func (d *ReportData) Validate() error {
	if d == nil {
		return &DataValidationError{Fields: []string{"report"}}
	}

	var missing []string
	if d.Indicator == nil {
		missing = append(missing, "indicator")
	}
	if d.RuntimeInfo == nil {
		missing = append(missing, "runtimeInfo")
	}
	if len(missing) > 0 {
		return &DataValidationError{Fields: missing}
	}
	return nil
}

// formatValue renders a scalar the way the web client displays it. nil
// becomes the empty string rather than a "null" marker. Strings are NFC
// normalized so combining sequences map onto precomposed glyphs.
func formatValue(val interface{}) string {
	if val == nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return norm.NFC.String(v)
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02 15:04:05")
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumber prints the shortest round-tripping form, switching to
// exponent notation outside [1e-6, 1e21).
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// 1e-07 -> 1e-7
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
