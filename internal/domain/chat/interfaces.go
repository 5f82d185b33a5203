package chat

import "context"

// Repository provides persistence for conversations.
type Repository interface {
	Append(ctx context.Context, msg *Message) error
	List(ctx context.Context, projectID string) ([]Message, error)
	GetState(ctx context.Context, projectID string) (*State, error)
	SaveState(ctx context.Context, projectID string, state State) error
}
