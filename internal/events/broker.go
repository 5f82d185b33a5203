// Package events fans out workflow changes to live subscribers.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rpggio/trinity/internal/domain/activity"
)

// Type names the kind of change an Event reports.
type Type string

const (
	TypeActivity Type = "activity"
	TypeMessages Type = "messages"
	TypeProposal Type = "proposal"
	TypeFiles    Type = "files"
	TypeSettings Type = "settings"
)

// Event is one change notification. Payload is JSON-encodable.
type Event struct {
	Type      Type   `json:"type"`
	ProjectID string `json:"project_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

const defaultBuffer = 64

// Broker delivers events to every subscriber without blocking the publisher.
// A subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	logger *slog.Logger
}

// NewBroker creates a Broker with per-subscriber buffers of size buffer.
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{subs: make(map[chan Event]struct{}), buffer: buffer, logger: logger}
}

// Subscribe returns a channel of events that closes when ctx is done.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// Publish sends ev to all current subscribers.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Debug("dropping event for slow subscriber", "type", ev.Type, "project_id", ev.ProjectID)
		}
	}
}

// PublishActivity implements activity.Publisher.
func (b *Broker) PublishActivity(entry activity.Entry) {
	b.Publish(Event{Type: TypeActivity, ProjectID: entry.ProjectID, Payload: entry})
}

// Subscribers reports the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
