package chat

import (
	"time"

	"github.com/rpggio/trinity/internal/proposal"
)

// Role represents the sender of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one immutable entry of a project's conversation
type Message struct {
	ID            string             `json:"id"`
	ProjectID     string             `json:"project_id"`
	Role          Role               `json:"role"`
	Content       string             `json:"content"`
	PendingChange *proposal.Proposal `json:"pending_change,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Source is a retrieved web reference backing a research step
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// State is the mutable part of a conversation: at most one pending
// proposal, its validation report, and the accumulated research sources.
type State struct {
	Pending          *proposal.Proposal `json:"pending,omitempty"`
	ValidationReport string             `json:"validation_report,omitempty"`
	Sources          []Source           `json:"sources"`
}

// Clone returns a deep copy so snapshots don't alias.
func (s State) Clone() State {
	out := State{ValidationReport: s.ValidationReport}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	out.Sources = append([]Source{}, s.Sources...)
	return out
}

// Conversation bundles messages with the current state for a project
type Conversation struct {
	ProjectID string    `json:"project_id"`
	Messages  []Message `json:"messages"`
	State     State     `json:"state"`
}
