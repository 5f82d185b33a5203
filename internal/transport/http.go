package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/events"
	"github.com/rpggio/trinity/internal/workbench"
)

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
}

// WorkbenchService defines conversation operations needed by the API.
type WorkbenchService interface {
	SendMessage(ctx context.Context, projectID, text string, mode settings.Mode) (*workbench.SendResult, error)
	Approve(ctx context.Context, projectID string) (*workbench.ApproveResult, error)
	Discard(ctx context.Context, projectID string) (chat.State, error)
	Conversation(ctx context.Context, projectID string) (*chat.Conversation, error)
}

// ActivityService defines activity operations needed by the API.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// SettingsService defines settings operations needed by the API.
type SettingsService interface {
	Get(ctx context.Context) (settings.SystemConfig, error)
	Update(ctx context.Context, cfg settings.SystemConfig) (settings.SystemConfig, error)
}

// EventSource provides the live change feed.
type EventSource interface {
	Subscribe(ctx context.Context) <-chan events.Event
}

// Services contains everything the HTTP API serves.
type Services struct {
	Projects  ProjectService
	Workbench WorkbenchService
	Activity  ActivityService
	Settings  SettingsService
	Events    EventSource
}

// Config wires an HTTP server.
type Config struct {
	Services Services
	// Auth guards /api and /mcp. Nil means NoAuthMiddleware.
	Auth    func(http.Handler) http.Handler
	MCP     http.Handler
	Metrics http.Handler
	Logger  *slog.Logger
	// Publisher receives settings change events. Optional.
	Publisher interface{ Publish(events.Event) }
}

// Server holds HTTP handlers.
type Server struct {
	services  Services
	publisher interface{ Publish(events.Event) }
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	auth := cfg.Auth
	if auth == nil {
		auth = NoAuthMiddleware
	}

	srv := &Server{services: cfg.Services, publisher: cfg.Publisher, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", srv.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth)

		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/projects", srv.handleListProjects)
			r.Post("/projects", srv.handleCreateProject)
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", srv.handleGetProject)
				r.Get("/messages", srv.handleGetConversation)
				r.Post("/messages", srv.handleSendMessage)
				r.Post("/proposal/approve", srv.handleApprove)
				r.Delete("/proposal", srv.handleDiscard)
			})
			r.Get("/activity", srv.handleActivity)
			r.Get("/settings", srv.handleGetSettings)
			r.Put("/settings", srv.handleUpdateSettings)
			r.Get("/events", srv.handleEvents)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, r, err, "")
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.services.Projects.Create(r.Context(), project.CreateRequest{ID: req.ID, Name: req.Name})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.services.Projects.Get(r.Context(), projectParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.services.Workbench.Conversation(r.Context(), projectParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type sendMessageRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
}

type sendMessageResponse struct {
	*workbench.SendResult
	Error *ErrorResponse `json:"error,omitempty"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	mode, err := settings.ParseMode(req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.services.Workbench.SendMessage(r.Context(), projectParam(r), req.Text, mode)
	if err != nil {
		if res == nil {
			s.fail(w, r, err)
			return
		}
		// The turn failed after the user message was stored.
		status, code := classify(err)
		writeJSON(w, status, sendMessageResponse{SendResult: res, Error: &ErrorResponse{Code: code, Message: err.Error()}})
		return
	}
	writeJSON(w, http.StatusOK, sendMessageResponse{SendResult: res})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Workbench.Approve(r.Context(), projectParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	state, err := s.services.Workbench.Discard(r.Context(), projectParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts, err := parseActivityQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.services.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func parseActivityQuery(r *http.Request) (activity.ListOptions, error) {
	q := r.URL.Query()
	opts := activity.ListOptions{ProjectID: q.Get("project_id")}

	if v := q.Get("agent"); v != "" {
		agent := activity.Agent(v)
		if !agent.Valid() {
			return opts, activity.ErrInvalidInput
		}
		opts.Agent = &agent
	}
	if v := q.Get("severity"); v != "" {
		severity := activity.Severity(v)
		if !severity.Valid() {
			return opts, activity.ErrInvalidInput
		}
		opts.Severity = &severity
	}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, activity.ErrInvalidInput
		}
		*dst = n
	}
	return opts, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.services.Settings.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.SystemConfig
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	cfg, err := s.services.Settings.Update(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.publisher != nil {
		s.publisher.Publish(events.Event{Type: events.TypeSettings, Payload: cfg})
	}
	writeJSON(w, http.StatusOK, cfg)
}

func projectParam(r *http.Request) string {
	id := chi.URLParam(r, "projectID")
	noteProject(r.Context(), id)
	return id
}
