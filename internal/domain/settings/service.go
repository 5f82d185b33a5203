package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/trinity/internal/repository"
)

// Service reads and updates the SystemConfig. Reads always hit the
// repository so every turn sees the latest values.
type Service struct {
	repo     Repository
	defaults SystemConfig
	logger   *slog.Logger
}

// NewService creates a settings service. Empty fields of defaults fall back to Defaults().
func NewService(repo Repository, defaults SystemConfig, logger *slog.Logger) *Service {
	return &Service{repo: repo, defaults: fillDefaults(defaults), logger: logger}
}

// Get returns the stored config, or the defaults when none was saved.
func (s *Service) Get(ctx context.Context) (SystemConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.defaults, nil
		}
		return SystemConfig{}, fmt.Errorf("loading settings: %w", err)
	}
	return *cfg, nil
}

// Update validates and stores a new config.
func (s *Service) Update(ctx context.Context, cfg SystemConfig) (SystemConfig, error) {
	cfg = normalize(cfg)
	if err := Validate(cfg); err != nil {
		return SystemConfig{}, err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return SystemConfig{}, fmt.Errorf("saving settings: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("settings updated",
			"conductor", cfg.ConductorModel,
			"research", cfg.ResearchModel,
			"coder", cfg.CoderModel,
			"validator", cfg.ValidatorModel,
		)
	}
	return cfg, nil
}

// Validate checks that every model identifier is non-empty.
func Validate(cfg SystemConfig) error {
	for _, id := range []string{cfg.ConductorModel, cfg.ResearchModel, cfg.CoderModel, cfg.ValidatorModel} {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidInput
		}
	}
	return nil
}

func normalize(cfg SystemConfig) SystemConfig {
	cfg.ConductorModel = strings.TrimSpace(cfg.ConductorModel)
	cfg.ResearchModel = strings.TrimSpace(cfg.ResearchModel)
	cfg.CoderModel = strings.TrimSpace(cfg.CoderModel)
	cfg.ValidatorModel = strings.TrimSpace(cfg.ValidatorModel)
	cfg.SearchEngineID = strings.TrimSpace(cfg.SearchEngineID)
	return cfg
}

func fillDefaults(cfg SystemConfig) SystemConfig {
	d := Defaults()
	cfg = normalize(cfg)
	if cfg.ConductorModel == "" {
		cfg.ConductorModel = d.ConductorModel
	}
	if cfg.ResearchModel == "" {
		cfg.ResearchModel = d.ResearchModel
	}
	if cfg.CoderModel == "" {
		cfg.CoderModel = d.CoderModel
	}
	if cfg.ValidatorModel == "" {
		cfg.ValidatorModel = d.ValidatorModel
	}
	return cfg
}
