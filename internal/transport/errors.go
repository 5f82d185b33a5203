package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/gateway"
	"github.com/rpggio/trinity/internal/orchestrator"
	"github.com/rpggio/trinity/internal/workbench"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errInvalidBody indicates an undecodable request body or query.
var errInvalidBody = errors.New("invalid request")

// classify maps an error to its HTTP status and stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, chat.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, project.ErrDuplicateProject):
		return http.StatusConflict, "PROJECT_EXISTS"
	case errors.Is(err, workbench.ErrBusy):
		return http.StatusConflict, "BUSY"
	case errors.Is(err, orchestrator.ErrNoPendingProposal):
		return http.StatusConflict, "NO_PENDING_PROPOSAL"
	case errors.Is(err, settings.ErrInvalidMode):
		return http.StatusBadRequest, "INVALID_MODE"
	case errors.Is(err, errInvalidBody),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, chat.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, gateway.ErrGateway):
		return http.StatusBadGateway, "GATEWAY_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
