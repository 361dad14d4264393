package stats

import "errors"

var ErrInvalidCapacity = errors.New("window capacity must be positive")
