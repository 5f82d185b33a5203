package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/events"
)

type toolSet struct {
	svc    Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &toolSet{svc: svc, logger: logger}

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new, empty project workspace",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects with file and message counts",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project and its files, or the default project",
	}, t.getProject)

	// Conversation
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_message",
		Description: "Send a request to the assistant. May run web research first, and may return a pending file proposal with a validation report",
	}, t.sendMessage)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_conversation",
		Description: "Get a project's messages, pending proposal, validation report and research sources",
	}, t.getConversation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "approve_proposal",
		Description: "Write the pending proposal into the project's files",
	}, t.approveProposal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "discard_proposal",
		Description: "Drop the pending proposal without changing any files",
	}, t.discardProposal)

	// Activity and settings
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_activity",
		Description: "List activity log entries, newest first",
	}, t.getActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_settings",
		Description: "Get the model identifier chosen for each role",
	}, t.getSettings)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_settings",
		Description: "Change model identifiers; omitted fields keep their current value",
	}, t.updateSettings)
}

func (t *toolSet) resolveProject(ctx context.Context, id string) (*project.Project, error) {
	if strings.TrimSpace(id) == "" {
		return t.svc.Projects.GetDefault(ctx)
	}
	return t.svc.Projects.Get(ctx, id)
}

func (t *toolSet) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.svc.Projects.Create(ctx, project.CreateRequest{ID: in.ID, Name: in.Name})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, proj, nil
}

func (t *toolSet) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := t.svc.Projects.List(ctx)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if projects == nil {
		projects = []project.ProjectSummary{}
	}
	return nil, ListProjectsResponse{Projects: projects}, nil
}

func (t *toolSet) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.resolveProject(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, proj, nil
}

func (t *toolSet) sendMessage(ctx context.Context, _ *sdkmcp.CallToolRequest, in SendMessageParams) (*sdkmcp.CallToolResult, any, error) {
	mode, err := settings.ParseMode(in.Mode)
	if err != nil {
		return nil, nil, toolError(err)
	}
	proj, err := t.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, toolError(err)
	}

	res, err := t.svc.Workbench.SendMessage(ctx, proj.ID, in.Text, mode)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, SendMessageResponse{
		ProjectID:  proj.ID,
		Messages:   res.Messages,
		State:      res.State,
		Researched: res.Researched,
	}, nil
}

func (t *toolSet) getConversation(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectScopedParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	conv, err := t.svc.Workbench.Conversation(ctx, proj.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, conv, nil
}

func (t *toolSet) approveProposal(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectScopedParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	res, err := t.svc.Workbench.Approve(ctx, proj.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, ApproveProposalResponse{ProjectID: proj.ID, File: res.File, Message: res.Message, State: res.State}, nil
}

func (t *toolSet) discardProposal(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectScopedParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	state, err := t.svc.Workbench.Discard(ctx, proj.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, DiscardProposalResponse{ProjectID: proj.ID, State: state}, nil
}

func (t *toolSet) getActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetActivityParams) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListOptions{ProjectID: in.ProjectID, Limit: in.Limit, Offset: in.Offset}
	if in.Agent != "" {
		agent := activity.Agent(in.Agent)
		if !agent.Valid() {
			return nil, nil, toolError(fmt.Errorf("%w: unknown agent %q", activity.ErrInvalidInput, in.Agent))
		}
		opts.Agent = &agent
	}
	if in.Severity != "" {
		severity := activity.Severity(in.Severity)
		if !severity.Valid() {
			return nil, nil, toolError(fmt.Errorf("%w: unknown severity %q", activity.ErrInvalidInput, in.Severity))
		}
		opts.Severity = &severity
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, nil, toolError(activity.ErrInvalidInput)
	}

	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return nil, GetActivityResponse{Entries: entries}, nil
}

func (t *toolSet) getSettings(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetSettingsParams) (*sdkmcp.CallToolResult, any, error) {
	cfg, err := t.svc.Settings.Get(ctx)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, SettingsResponse{Settings: cfg}, nil
}

func (t *toolSet) updateSettings(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateSettingsParams) (*sdkmcp.CallToolResult, any, error) {
	current, err := t.svc.Settings.Get(ctx)
	if err != nil {
		return nil, nil, toolError(err)
	}
	cfg, err := t.svc.Settings.Update(ctx, in.apply(current))
	if err != nil {
		return nil, nil, toolError(err)
	}
	if t.svc.Publisher != nil {
		t.svc.Publisher.Publish(events.Event{Type: events.TypeSettings, Payload: cfg})
	}
	t.logger.Info("settings updated via mcp", "client_id", getClientID(ctx))
	return nil, SettingsResponse{Settings: cfg}, nil
}
