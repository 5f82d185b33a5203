package project

import "context"

// Repository provides persistence for projects and their files.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	GetDefault(ctx context.Context) (*Project, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	UpsertFile(ctx context.Context, projectID string, file File) error
}
