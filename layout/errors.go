package layout

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned by Plan when the table has no rows.
var ErrEmptyTable = errors.New("table has no rows")

// InvalidDimensionError reports a custom page size with a side at or below
// MinCustomDimensionMM, above MaxCustomDimensionMM, or not a finite number.
type InvalidDimensionError struct {
	Width  float64
	Height float64
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid custom page size %gx%g mm: width and height must be above %g mm and at most %g mm",
		e.Width, e.Height, MinCustomDimensionMM, MaxCustomDimensionMM)
}
