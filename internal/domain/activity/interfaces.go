package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Publisher is notified after an entry has been stored.
type Publisher interface {
	PublishActivity(entry Entry)
}

// Sink receives activity entries in emission order.
type Sink interface {
	Log(ctx context.Context, entry *Entry) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry *Entry) error

// Log calls f.
func (f SinkFunc) Log(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}
