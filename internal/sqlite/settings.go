package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/repository"
)

// SettingsRepository implements settings.Repository for SQLite
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored config
func (r *SettingsRepository) Get(ctx context.Context) (*settings.SystemConfig, error) {
	query := `
		SELECT conductor_model, research_model, coder_model, validator_model, search_engine_id
		FROM settings
		WHERE id = 1
	`

	var cfg settings.SystemConfig
	err := r.db.QueryRowContext(ctx, query).Scan(
		&cfg.ConductorModel,
		&cfg.ResearchModel,
		&cfg.CoderModel,
		&cfg.ValidatorModel,
		&cfg.SearchEngineID,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &cfg, nil
}

// Save replaces the stored config
func (r *SettingsRepository) Save(ctx context.Context, cfg settings.SystemConfig) error {
	query := `
		INSERT INTO settings (id, conductor_model, research_model, coder_model, validator_model, search_engine_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conductor_model = excluded.conductor_model,
			research_model = excluded.research_model,
			coder_model = excluded.coder_model,
			validator_model = excluded.validator_model,
			search_engine_id = excluded.search_engine_id,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		cfg.ConductorModel,
		cfg.ResearchModel,
		cfg.CoderModel,
		cfg.ValidatorModel,
		cfg.SearchEngineID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
