package typeface

import "fmt"

// FontLoadError reports a typeface that could not be fetched or parsed.
// Every caller waiting on the failed load receives the same error.
type FontLoadError struct {
	Location string
	Err      error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("failed to load typeface %q: %v", e.Location, e.Err)
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}
