package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rpggio/trinity/internal/repository"
)

// Service handles conversation persistence.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new chat service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append stores messages in order.
func (s *Service) Append(ctx context.Context, msgs ...Message) error {
	for i := range msgs {
		msg := msgs[i]
		if msg.ProjectID == "" || msg.Role == "" {
			return ErrInvalidInput
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if err := s.repo.Append(ctx, &msg); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("appending message: %w", err)
		}
	}
	return nil
}

// Messages returns a project's messages in creation order.
func (s *Service) Messages(ctx context.Context, projectID string) ([]Message, error) {
	msgs, err := s.repo.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

// State returns the conversation state, empty when none has been saved.
func (s *Service) State(ctx context.Context, projectID string) (State, error) {
	state, err := s.repo.GetState(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return State{Sources: []Source{}}, nil
		}
		return State{}, fmt.Errorf("loading conversation state: %w", err)
	}
	if state.Sources == nil {
		state.Sources = []Source{}
	}
	return *state, nil
}

// SaveState replaces the conversation state.
func (s *Service) SaveState(ctx context.Context, projectID string, state State) error {
	if err := s.repo.SaveState(ctx, projectID, state); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("saving conversation state: %w", err)
	}
	return nil
}

// Conversation returns messages and state together.
func (s *Service) Conversation(ctx context.Context, projectID string) (*Conversation, error) {
	msgs, err := s.Messages(ctx, projectID)
	if err != nil {
		return nil, err
	}
	state, err := s.State(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Conversation{ProjectID: projectID, Messages: msgs, State: state}, nil
}
