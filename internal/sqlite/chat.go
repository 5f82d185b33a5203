package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/proposal"
	"github.com/rpggio/trinity/internal/repository"
)

// ChatRepository implements chat.Repository for SQLite
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append inserts a message at the end of its project's conversation
func (r *ChatRepository) Append(ctx context.Context, msg *chat.Message) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	pending, err := encodeProposal(msg.PendingChange)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO messages (id, project_id, role, content, pending_change, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query, msg.ID, msg.ProjectID, msg.Role, msg.Content, pending, createdAt)
	if err != nil {
		return writeError("append message", err)
	}

	msg.CreatedAt = createdAt
	return nil
}

// List returns a project's messages in insertion order
func (r *ChatRepository) List(ctx context.Context, projectID string) ([]chat.Message, error) {
	query := `
		SELECT id, project_id, role, content, pending_change, created_at
		FROM messages
		WHERE project_id = ?
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	msgs := []chat.Message{}
	for rows.Next() {
		var msg chat.Message
		var pending sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &msg.Role, &msg.Content, &pending, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if msg.PendingChange, err = decodeProposal(pending); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return msgs, nil
}

// GetState returns the saved conversation state for a project
func (r *ChatRepository) GetState(ctx context.Context, projectID string) (*chat.State, error) {
	query := `
		SELECT pending, validation_report, sources
		FROM conversation_state
		WHERE project_id = ?
	`

	var pending sql.NullString
	var report, sources string
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(&pending, &report, &sources)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation state: %w", err)
	}

	state := &chat.State{ValidationReport: report}
	if state.Pending, err = decodeProposal(pending); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sources), &state.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}

	return state, nil
}

// SaveState replaces the conversation state for a project
func (r *ChatRepository) SaveState(ctx context.Context, projectID string, state chat.State) error {
	pending, err := encodeProposal(state.Pending)
	if err != nil {
		return err
	}
	if state.Sources == nil {
		state.Sources = []chat.Source{}
	}
	sources, err := json.Marshal(state.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	query := `
		INSERT INTO conversation_state (project_id, pending, validation_report, sources, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			pending = excluded.pending,
			validation_report = excluded.validation_report,
			sources = excluded.sources,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query, projectID, pending, state.ValidationReport, string(sources), time.Now())
	if err != nil {
		return writeError("save conversation state", err)
	}

	return nil
}

func encodeProposal(p *proposal.Proposal) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode proposal: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeProposal(raw sql.NullString) (*proposal.Proposal, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var p proposal.Proposal
	if err := json.Unmarshal([]byte(raw.String), &p); err != nil {
		return nil, fmt.Errorf("failed to decode proposal: %w", err)
	}
	return &p, nil
}
