package settings

import "errors"

var (
	// ErrInvalidInput indicates an empty model identifier.
	ErrInvalidInput = errors.New("invalid settings input")
	// ErrInvalidMode indicates an unknown conversation mode.
	ErrInvalidMode = errors.New("invalid mode")
)
