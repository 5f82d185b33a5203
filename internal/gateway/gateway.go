// Package gateway talks to the hosted generative model for the three
// conversation roles: conversing, grounded web search, and artifact review.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/settings"
)

const (
	// ResearchUnavailable is returned in place of findings when the search call fails.
	ResearchUnavailable = "Research unavailable at this time. Proceeding with internal knowledge."
	// ReviewUnavailable is returned in place of a report when the review call fails.
	ReviewUnavailable = "Validation timed out. Manual review recommended."
)

// Operation names, used in errors and metrics.
const (
	OpConverse       = "converse"
	OpGroundedSearch = "grounded_search"
	OpReviewArtifact = "review_artifact"
)

// ErrGateway matches every GatewayError via errors.Is.
var ErrGateway = errors.New("model gateway failure")

// Gateway is the model-facing side of a conversation turn.
// Only Converse surfaces failures; the other two degrade to fixed text.
type Gateway interface {
	Converse(ctx context.Context, req ConverseRequest) (string, error)
	GroundedSearch(ctx context.Context, req SearchRequest) SearchResult
	ReviewArtifact(ctx context.Context, req ReviewRequest) string
}

// ConverseRequest asks the conductor (or coder, in precision mode) for a reply.
type ConverseRequest struct {
	Prompt         string
	ContextSummary string
	Mode           settings.Mode
	Config         settings.SystemConfig
	Log            activity.Sink
}

// SearchRequest asks the research model for grounded findings.
type SearchRequest struct {
	Query  string
	Config settings.SystemConfig
	Log    activity.Sink
}

// ReviewRequest asks the validator model to audit proposed file content.
type ReviewRequest struct {
	Content      string
	Requirements string
	Config       settings.SystemConfig
	Log          activity.Sink
}

// SearchResult carries findings text and the web sources backing it.
type SearchResult struct {
	Text    string
	Sources []chat.Source
}

// GatewayError describes a failed model call.
type GatewayError struct {
	Op         string
	Model      string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s): status %d: %v", e.Op, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is reports ErrGateway so callers need not know the concrete type.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}
