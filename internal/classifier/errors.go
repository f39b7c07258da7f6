package classifier

import (
	"fmt"

	"github.com/go-skc/skc/internal/geom"
)

var (
	// ErrInvalidK is returned when the requested neighbor count is less than one.
	ErrInvalidK = fmt.Errorf("k must be greater than zero")
	// ErrEmptyDataset is returned when a prediction is requested before any
	// labeled point was stored.
	ErrEmptyDataset = fmt.Errorf("dataset contains no labeled points")
)

// ErrDimensionMismatch reports a query vector whose length differs from the
// dimensionality of the stored dataset.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return geom.ErrDimNotEqual }
