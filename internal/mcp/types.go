package mcp

import (
	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
)

type CreateProjectParams struct {
	ID   string `json:"id,omitempty" jsonschema:"Unique project identifier (generated when omitted)"`
	Name string `json:"name" jsonschema:"Project display name"`
}

type ListProjectsParams struct{}

type GetProjectParams struct {
	ID string `json:"id,omitempty" jsonschema:"Project ID (omit for the default project)"`
}

type ProjectScopedParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (omit for the default project)"`
}

type SendMessageParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (omit for the default project)"`
	Text      string `json:"text" jsonschema:"The user request"`
	Mode      string `json:"mode,omitempty" jsonschema:"fast (default) or precision for extended reasoning with the coder model"`
}

type GetActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Only entries for this project"`
	Agent     string `json:"agent,omitempty" jsonschema:"Conductor, ResearchLead, SpecializedResearcher, Coder, Validator or System"`
	Severity  string `json:"severity,omitempty" jsonschema:"info, success, warning or error"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of entries"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Offset for pagination"`
}

type GetSettingsParams struct{}

type UpdateSettingsParams struct {
	ConductorModel *string `json:"conductor_model,omitempty" jsonschema:"Model for fast-mode conversation"`
	ResearchModel  *string `json:"research_model,omitempty" jsonschema:"Model for grounded web search"`
	CoderModel     *string `json:"coder_model,omitempty" jsonschema:"Model for precision-mode conversation"`
	ValidatorModel *string `json:"validator_model,omitempty" jsonschema:"Model for reviewing proposals"`
	SearchEngineID *string `json:"search_engine_id,omitempty" jsonschema:"Custom search engine identifier (stored only)"`
}

type ListProjectsResponse struct {
	Projects []project.ProjectSummary `json:"projects"`
}

type SendMessageResponse struct {
	ProjectID  string         `json:"project_id"`
	Messages   []chat.Message `json:"messages"`
	State      chat.State     `json:"state"`
	Researched bool           `json:"researched"`
}

type ApproveProposalResponse struct {
	ProjectID string       `json:"project_id"`
	File      project.File `json:"file"`
	Message   chat.Message `json:"message"`
	State     chat.State   `json:"state"`
}

type DiscardProposalResponse struct {
	ProjectID string     `json:"project_id"`
	State     chat.State `json:"state"`
}

type GetActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
}

type SettingsResponse struct {
	Settings settings.SystemConfig `json:"settings"`
}

func (p UpdateSettingsParams) apply(cfg settings.SystemConfig) settings.SystemConfig {
	if p.ConductorModel != nil {
		cfg.ConductorModel = *p.ConductorModel
	}
	if p.ResearchModel != nil {
		cfg.ResearchModel = *p.ResearchModel
	}
	if p.CoderModel != nil {
		cfg.CoderModel = *p.CoderModel
	}
	if p.ValidatorModel != nil {
		cfg.ValidatorModel = *p.ValidatorModel
	}
	if p.SearchEngineID != nil {
		cfg.SearchEngineID = *p.SearchEngineID
	}
	return cfg
}
