package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/gateway"
	"github.com/rpggio/trinity/internal/orchestrator"
	"github.com/rpggio/trinity/internal/workbench"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	e := func(code, msg, hint string) *APIError {
		return &APIError{Code: code, Message: msg, RecoveryHint: hint, cause: err}
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, chat.ErrProjectNotFound):
		return e("PROJECT_NOT_FOUND", "project not found", "Call list_projects to find a valid ID")
	case errors.Is(err, project.ErrDuplicateProject):
		return e("PROJECT_EXISTS", "project already exists", "Choose another ID or omit it")
	case errors.Is(err, workbench.ErrBusy):
		return e("BUSY", "a request is already in flight for this project", "Wait for the current turn to finish")
	case errors.Is(err, orchestrator.ErrNoPendingProposal):
		return e("NO_PENDING_PROPOSAL", "no pending proposal", "Call send_message to get a proposal first")
	case errors.Is(err, settings.ErrInvalidMode):
		return e("INVALID_MODE", "invalid mode", "Use fast or precision")
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, chat.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return e("INVALID_INPUT", err.Error(), "")
	case errors.Is(err, gateway.ErrGateway):
		return e("GATEWAY_ERROR", err.Error(), "The user message was kept; retry send_message later")
	default:
		return nil
	}
}

// toolError returns the mapped error when err is a known domain error.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
