package settings

import "context"

// Repository persists the process-wide SystemConfig.
type Repository interface {
	Get(ctx context.Context) (*SystemConfig, error)
	Save(ctx context.Context, cfg SystemConfig) error
}
