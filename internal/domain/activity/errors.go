package activity

import "errors"

// ErrInvalidInput indicates an entry with an unknown agent, severity or empty message.
var ErrInvalidInput = errors.New("invalid activity input")
