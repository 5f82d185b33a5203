// Package workbench owns the authoritative workspace, conversation and
// settings state and runs conversation turns against it, one at a time per
// project.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/events"
	"github.com/rpggio/trinity/internal/orchestrator"
)

// ErrBusy is returned while the project already has a turn in flight.
var ErrBusy = errors.New("a request is already in flight for this project")

// ProjectStore defines the project operations the workbench needs.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	UpsertFile(ctx context.Context, projectID string, file project.File) error
}

// ChatStore defines the conversation operations the workbench needs.
type ChatStore interface {
	Append(ctx context.Context, msgs ...chat.Message) error
	State(ctx context.Context, projectID string) (chat.State, error)
	SaveState(ctx context.Context, projectID string, state chat.State) error
	Conversation(ctx context.Context, projectID string) (*chat.Conversation, error)
}

// SettingsStore provides the current model configuration.
type SettingsStore interface {
	Get(ctx context.Context) (settings.SystemConfig, error)
}

// ActivityLog provides per-project activity sinks.
type ActivityLog interface {
	Scoped(projectID string) activity.Sink
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(ev events.Event)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Projects     ProjectStore
	Chat         ChatStore
	Settings     SettingsStore
	Activity     ActivityLog
	Orchestrator *orchestrator.Orchestrator
	Publisher    Publisher
	Logger       *slog.Logger
}

// SendResult reports what a turn added.
type SendResult struct {
	Messages   []chat.Message `json:"messages"`
	State      chat.State     `json:"state"`
	Researched bool           `json:"researched"`
}

// ApproveResult reports an integrated proposal.
type ApproveResult struct {
	File    project.File `json:"file"`
	Message chat.Message `json:"message"`
	State   chat.State   `json:"state"`
}

// Service runs turns and proposal decisions against persisted state.
type Service struct {
	deps   Deps
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a workbench Service.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{deps: deps, logger: logger, inFlight: make(map[string]struct{})}
}

// SendMessage runs one conversation turn for projectID. Blank text is a
// no-op. If Converse fails, the user message is still persisted and the
// gateway error is returned.
func (s *Service) SendMessage(ctx context.Context, projectID, text string, mode settings.Mode) (*SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return &SendResult{Messages: []chat.Message{}}, nil
	}
	if mode == "" {
		mode = settings.ModeFast
	}

	release, err := s.acquire(projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, state, cfg, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out, turnErr := s.deps.Orchestrator.HandleUserMessage(ctx, orchestrator.Turn{
		Text:    text,
		Mode:    mode,
		Project: *proj,
		Config:  cfg,
		State:   state,
		Log:     s.sink(projectID),
	})
	if errors.Is(turnErr, orchestrator.ErrEmptyMessage) {
		return &SendResult{Messages: []chat.Message{}}, nil
	}

	// The turn already happened upstream; keep it even if the caller left.
	persist := context.WithoutCancel(ctx)
	if err := s.deps.Chat.Append(persist, out.Messages...); err != nil {
		return nil, fmt.Errorf("saving messages: %w", err)
	}
	if err := s.deps.Chat.SaveState(persist, projectID, out.State); err != nil {
		return nil, fmt.Errorf("saving conversation state: %w", err)
	}

	s.publish(events.Event{Type: events.TypeMessages, ProjectID: projectID, Payload: out.Messages})
	if out.State.Pending != nil && (state.Pending == nil || *out.State.Pending != *state.Pending) {
		s.publish(events.Event{Type: events.TypeProposal, ProjectID: projectID, Payload: out.State})
	}

	if turnErr != nil {
		s.logger.Error("conversation turn failed", "project_id", projectID, "error", turnErr)
		return &SendResult{Messages: out.Messages, State: out.State, Researched: out.Researched}, turnErr
	}

	s.logger.Info("conversation turn complete",
		"project_id", projectID,
		"mode", mode,
		"researched", out.Researched,
		"proposal", out.Proposal.Kind.String())

	return &SendResult{Messages: out.Messages, State: out.State, Researched: out.Researched}, nil
}

// Approve integrates the pending proposal into the project's files.
func (s *Service) Approve(ctx context.Context, projectID string) (*ApproveResult, error) {
	release, err := s.acquire(projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, state, _, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out, err := s.deps.Orchestrator.ApproveProposal(ctx, orchestrator.Approval{
		Project: *proj,
		State:   state,
		Log:     s.sink(projectID),
	})
	if err != nil {
		return nil, err
	}

	persist := context.WithoutCancel(ctx)
	if err := s.deps.Projects.UpsertFile(persist, projectID, out.File); err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}
	if err := s.deps.Chat.Append(persist, out.Message); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}
	if err := s.deps.Chat.SaveState(persist, projectID, out.State); err != nil {
		return nil, fmt.Errorf("saving conversation state: %w", err)
	}

	s.publish(events.Event{Type: events.TypeFiles, ProjectID: projectID, Payload: out.File})
	s.publish(events.Event{Type: events.TypeMessages, ProjectID: projectID, Payload: []chat.Message{out.Message}})
	s.publish(events.Event{Type: events.TypeProposal, ProjectID: projectID, Payload: out.State})

	s.logger.Info("proposal approved", "project_id", projectID, "file", out.File.Name)
	return &ApproveResult{File: out.File, Message: out.Message, State: out.State}, nil
}

// Discard drops the pending proposal, if any.
func (s *Service) Discard(ctx context.Context, projectID string) (chat.State, error) {
	release, err := s.acquire(projectID)
	if err != nil {
		return chat.State{}, err
	}
	defer release()

	if _, err := s.deps.Projects.Get(ctx, projectID); err != nil {
		return chat.State{}, err
	}
	state, err := s.deps.Chat.State(ctx, projectID)
	if err != nil {
		return chat.State{}, err
	}

	next := orchestrator.DiscardProposal(state)
	if err := s.deps.Chat.SaveState(ctx, projectID, next); err != nil {
		return chat.State{}, fmt.Errorf("saving conversation state: %w", err)
	}

	if state.Pending != nil {
		s.publish(events.Event{Type: events.TypeProposal, ProjectID: projectID, Payload: next})
		s.logger.Info("proposal discarded", "project_id", projectID, "file", state.Pending.FileName)
	}
	return next, nil
}

// Conversation returns the project's messages and state.
func (s *Service) Conversation(ctx context.Context, projectID string) (*chat.Conversation, error) {
	if _, err := s.deps.Projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.deps.Chat.Conversation(ctx, projectID)
}

// Busy reports whether projectID has a turn in flight.
func (s *Service) Busy(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[projectID]
	return ok
}

func (s *Service) acquire(projectID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[projectID]; ok {
		return nil, ErrBusy
	}
	s.inFlight[projectID] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, projectID)
		s.mu.Unlock()
	}, nil
}

func (s *Service) snapshot(ctx context.Context, projectID string) (*project.Project, chat.State, settings.SystemConfig, error) {
	proj, err := s.deps.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, chat.State{}, settings.SystemConfig{}, err
	}
	state, err := s.deps.Chat.State(ctx, projectID)
	if err != nil {
		return nil, chat.State{}, settings.SystemConfig{}, err
	}
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, chat.State{}, settings.SystemConfig{}, err
	}
	return proj, state, cfg, nil
}

func (s *Service) sink(projectID string) activity.Sink {
	if s.deps.Activity == nil {
		return nil
	}
	return s.deps.Activity.Scoped(projectID)
}

func (s *Service) publish(ev events.Event) {
	if s.deps.Publisher != nil {
		s.deps.Publisher.Publish(ev)
	}
}
