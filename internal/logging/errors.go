package logging

import "errors"

var ErrNoLogOutputs = errors.New("no logging outputs configured")
