package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/events"
	"github.com/rpggio/trinity/internal/workbench"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	GetDefault(ctx context.Context) (*project.Project, error)
}

// WorkbenchService defines conversation operations needed by MCP.
type WorkbenchService interface {
	SendMessage(ctx context.Context, projectID, text string, mode settings.Mode) (*workbench.SendResult, error)
	Approve(ctx context.Context, projectID string) (*workbench.ApproveResult, error)
	Discard(ctx context.Context, projectID string) (chat.State, error)
	Conversation(ctx context.Context, projectID string) (*chat.Conversation, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// SettingsService defines settings operations needed by MCP.
type SettingsService interface {
	Get(ctx context.Context) (settings.SystemConfig, error)
	Update(ctx context.Context, cfg settings.SystemConfig) (settings.SystemConfig, error)
}

// Publisher receives settings change events.
type Publisher interface {
	Publish(ev events.Event)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Workbench WorkbenchService
	Activity  ActivityService
	Settings  SettingsService
	Publisher Publisher
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      ClientResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "trinity",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local-only, so auth never applies there.
	var resolver ClientResolver
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		resolver = cfg.Resolver
		if resolver == nil {
			resolver = denyAll{}
		}
	}
	server.AddReceivingMiddleware(callerMiddleware(resolver, defaultClient))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
