// Package orchestrator runs one conversation turn: classify, optionally
// research, converse, parse any file proposal and review it.
//
// The orchestrator owns no state. Callers pass snapshots in and persist what
// comes back out, and are responsible for running at most one turn per
// project at a time.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/gateway"
	"github.com/rpggio/trinity/internal/proposal"
	"github.com/rpggio/trinity/internal/research"
)

// EmptyResponse stands in for a reply with no text.
const EmptyResponse = "I processed your request but produced no response."

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrNoPendingProposal = errors.New("no pending proposal")
)

// Turn is the input to HandleUserMessage.
type Turn struct {
	Text    string
	Mode    settings.Mode
	Project project.Project
	Config  settings.SystemConfig
	State   chat.State
	Log     activity.Sink
}

// Outcome is what a turn produced. Messages holds only the messages added
// by this turn, in order.
type Outcome struct {
	Messages   []chat.Message
	State      chat.State
	Researched bool
	Proposal   proposal.Result
}

// Approval is the input to ApproveProposal.
type Approval struct {
	Project project.Project
	State   chat.State
	Log     activity.Sink
}

// ApprovalOutcome carries the integrated file and the updated snapshots.
type ApprovalOutcome struct {
	File    project.File
	Project project.Project
	Message chat.Message
	State   chat.State
}

// Orchestrator sequences the role calls for a turn.
type Orchestrator struct {
	gateway    gateway.Gateway
	classifier research.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an Orchestrator. A nil classifier uses the default keyword list.
func New(gw gateway.Gateway, classifier research.Classifier, logger *slog.Logger) *Orchestrator {
	if classifier == nil {
		classifier = research.NewKeywordClassifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:    gw,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleUserMessage runs one turn. On a Converse failure the returned Outcome
// still carries the user message, with pending proposal and validation left
// as they were, alongside the error.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, turn Turn) (Outcome, error) {
	text := strings.TrimSpace(turn.Text)
	if text == "" {
		return Outcome{State: turn.State.Clone()}, ErrEmptyMessage
	}

	out := Outcome{State: turn.State.Clone()}
	out.Messages = append(out.Messages, o.message(turn.Project.ID, chat.RoleUser, turn.Text, nil))

	prompt := turn.Text
	if o.classifier.NeedsResearch(turn.Text) {
		out.Researched = true
		found := o.gateway.GroundedSearch(ctx, gateway.SearchRequest{
			Query:  turn.Text,
			Config: turn.Config,
			Log:    turn.Log,
		})
		if len(found.Sources) > 0 {
			out.State.Sources = append(append([]chat.Source{}, found.Sources...), out.State.Sources...)
		}
		prompt = fmt.Sprintf("Research Findings:\n%s\n\nOriginal Request: %s", found.Text, turn.Text)
	}

	reply, err := o.gateway.Converse(ctx, gateway.ConverseRequest{
		Prompt:         prompt,
		ContextSummary: turn.Project.ContextSummary(),
		Mode:           turn.Mode,
		Config:         turn.Config,
		Log:            turn.Log,
	})
	if err != nil {
		return out, fmt.Errorf("conversing: %w", err)
	}

	parsed := proposal.Parse(reply)
	out.Proposal = parsed

	var pending *proposal.Proposal
	switch parsed.Kind {
	case proposal.KindValid:
		p := parsed.Proposal
		pending = &p
		report := o.gateway.ReviewArtifact(ctx, gateway.ReviewRequest{
			Content:      p.Content,
			Requirements: p.Description,
			Config:       turn.Config,
			Log:          turn.Log,
		})
		out.State.Pending = pending
		out.State.ValidationReport = report
		o.emit(ctx, turn.Log, activity.AgentValidator, activity.SeveritySuccess,
			fmt.Sprintf("Validation complete for %s.", p.FileName))
	case proposal.KindMalformed:
		o.logger.Debug("ignoring malformed proposal block",
			"project_id", turn.Project.ID, "reason", parsed.Reason)
	}

	content := reply
	if strings.TrimSpace(content) == "" {
		content = EmptyResponse
	}
	out.Messages = append(out.Messages, o.message(turn.Project.ID, chat.RoleAssistant, content, pending))

	return out, nil
}

// ApproveProposal integrates the pending proposal into the project snapshot.
func (o *Orchestrator) ApproveProposal(ctx context.Context, in Approval) (ApprovalOutcome, error) {
	if in.State.Pending == nil {
		return ApprovalOutcome{}, ErrNoPendingProposal
	}
	p := *in.State.Pending

	file := project.NewFile(p.FileName, p.Content)
	out := ApprovalOutcome{
		File:    file,
		Project: in.Project.WithFile(file),
		Message: o.message(in.Project.ID, chat.RoleSystem, fmt.Sprintf("Integrated changes into %s.", p.FileName), nil),
		State:   DiscardProposal(in.State),
	}

	o.emit(ctx, in.Log, activity.AgentCoder, activity.SeveritySuccess,
		fmt.Sprintf("Applied changes to %s.", p.FileName))
	return out, nil
}

// DiscardProposal clears the pending proposal and its validation report.
func DiscardProposal(state chat.State) chat.State {
	out := state.Clone()
	out.Pending = nil
	out.ValidationReport = ""
	return out
}

func (o *Orchestrator) message(projectID string, role chat.Role, content string, pending *proposal.Proposal) chat.Message {
	return chat.Message{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Role:          role,
		Content:       content,
		PendingChange: pending,
		CreatedAt:     o.now().UTC(),
	}
}

func (o *Orchestrator) emit(ctx context.Context, sink activity.Sink, agent activity.Agent, severity activity.Severity, message string) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, &activity.Entry{Agent: agent, Severity: severity, Message: message}); err != nil {
		o.logger.Warn("failed to record activity", "agent", agent, "error", err)
	}
}
