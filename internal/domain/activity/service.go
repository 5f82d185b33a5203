package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service handles activity log operations.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger

	mu   sync.Mutex
	last int64
}

// NewService creates a new activity service. publisher may be nil.
func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Log validates, stamps and appends an entry. Timestamps never go backwards,
// so listing by insertion order and by time agree.
func (s *Service) Log(ctx context.Context, entry *Entry) error {
	if entry == nil || !entry.Agent.Valid() || !entry.Severity.Valid() || strings.TrimSpace(entry.Message) == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if entry.Timestamp < s.last {
		entry.Timestamp = s.last
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.last = entry.Timestamp

	if s.publisher != nil {
		s.publisher.PublishActivity(*entry)
	}
	return nil
}

// Scoped returns a Sink that stamps every entry with projectID.
func (s *Service) Scoped(projectID string) Sink {
	return SinkFunc(func(ctx context.Context, entry *Entry) error {
		if entry != nil && entry.ProjectID == "" {
			entry.ProjectID = projectID
		}
		return s.Log(ctx, entry)
	})
}

// GetRecentActivity lists activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListOptions) ([]Entry, error) {
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
