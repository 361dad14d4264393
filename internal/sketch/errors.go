package sketch

import "errors"

var (
	ErrInvalidPrecision  = errors.New("cardinality precision out of range")
	ErrInvalidDimensions = errors.New("frequency sketch dimensions must be positive")
)
