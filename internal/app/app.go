// Package app wires repositories, services and transports into a runnable server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/trinity/internal/config"
	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/events"
	"github.com/rpggio/trinity/internal/gateway"
	"github.com/rpggio/trinity/internal/mcp"
	"github.com/rpggio/trinity/internal/orchestrator"
	"github.com/rpggio/trinity/internal/research"
	"github.com/rpggio/trinity/internal/sqlite"
	"github.com/rpggio/trinity/internal/transport"
	"github.com/rpggio/trinity/internal/workbench"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// App is the assembled server.
type App struct {
	Projects  *project.Service
	Chat      *chat.Service
	Settings  *settings.Service
	Activity  *activity.Service
	Workbench *workbench.Service
	Broker    *events.Broker
	APIKeys   *sqlite.APIKeyRepository
	MCP       *sdkmcp.Server
}

// Options override parts of the wiring, mainly for tests.
type Options struct {
	Gateway    gateway.Gateway
	Classifier research.Classifier
}

// New builds an App over db. The gateway is created from cfg unless opts supplies one.
func New(cfg config.Config, db *sqlite.DB, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	gw := opts.Gateway
	if gw == nil {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL:   cfg.Gateway.BaseURL,
			APIKey:    cfg.Gateway.APIKey,
			Timeout:   cfg.Gateway.Timeout,
			RateLimit: cfg.Gateway.RateLimit,
			Burst:     cfg.Gateway.Burst,
		}, logger.With("component", "gateway"))
		if err != nil {
			return nil, fmt.Errorf("creating gateway: %w", err)
		}
		gw = client
	}

	broker := events.NewBroker(0, logger)

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), logger)
	chatSvc := chat.NewService(sqlite.NewChatRepository(db), logger)
	settingsSvc := settings.NewService(sqlite.NewSettingsRepository(db), cfg.Models, logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), broker, logger)

	wb := workbench.NewService(workbench.Deps{
		Projects:     projectSvc,
		Chat:         chatSvc,
		Settings:     settingsSvc,
		Activity:     activitySvc,
		Orchestrator: orchestrator.New(gw, opts.Classifier, logger.With("component", "orchestrator")),
		Publisher:    broker,
		Logger:       logger,
	})

	apiKeys := sqlite.NewAPIKeyRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  projectSvc,
			Workbench: wb,
			Activity:  activitySvc,
			Settings:  settingsSvc,
			Publisher: broker,
		},
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       Version,
		Logger:        logger,
	})

	return &App{
		Projects:  projectSvc,
		Chat:      chatSvc,
		Settings:  settingsSvc,
		Activity:  activitySvc,
		Workbench: wb,
		Broker:    broker,
		APIKeys:   apiKeys,
		MCP:       mcpServer,
	}, nil
}

// HTTPHandler serves the REST API, the change feed, metrics and MCP over streamable HTTP.
func (a *App) HTTPHandler(authEnabled bool, logger *slog.Logger) http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCP },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	var auth func(http.Handler) http.Handler
	if authEnabled {
		auth = transport.AuthMiddleware(a.APIKeys)
	}

	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Projects:  a.Projects,
			Workbench: a.Workbench,
			Activity:  a.Activity,
			Settings:  a.Settings,
			Events:    a.Broker,
		},
		Auth:      auth,
		MCP:       mcpHandler,
		Metrics:   promhttp.Handler(),
		Logger:    logger,
		Publisher: a.Broker,
	})
}
