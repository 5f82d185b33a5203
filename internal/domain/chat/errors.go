package chat

import "errors"

var (
	// ErrInvalidInput indicates an invalid message.
	ErrInvalidInput = errors.New("invalid message input")
	// ErrProjectNotFound indicates the conversation's project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
)
