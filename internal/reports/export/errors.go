package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is returned when a table spec cannot be laid out
var ErrInvalidTable = errors.New("invalid table spec")

// DataValidationError reports ReportData that is missing required parts.
// It is raised before any drawing starts.
type DataValidationError struct {
	Fields []string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("invalid report data: missing %s", strings.Join(e.Fields, ", "))
}

// SerializationError wraps a failure of the PDF encoder
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize document: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// LayoutOverflowWarning is a non-fatal notice that a section extends past
// the usable area of the page.
type LayoutOverflowWarning struct {
	Section string  `json:"section"`
	Bottom  float64 `json:"bottom"`
	Limit   float64 `json:"limit"`
}

func (w LayoutOverflowWarning) String() string {
	return fmt.Sprintf("section %q overflows page: bottom %.1f below limit %.1f", w.Section, w.Bottom, w.Limit)
}
