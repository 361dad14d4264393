package event

import "errors"

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal event JSON")
	ErrMissingField        = errors.New("event is missing a required field")
	ErrInvalidField        = errors.New("event field has an invalid type")
)
