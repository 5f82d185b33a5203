package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/settings"
)

const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com"
	DefaultTimeout   = 120 * time.Second
	DefaultRateLimit = 2.0
	DefaultBurst     = 4

	maxResponseBytes  = 10 << 20
	reviewTemperature = 0.1
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second; <= 0 disables pacing
	Burst     int
}

// Client is a Gateway backed by the Gemini generateContent REST endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *slog.Logger
}

// NewClient creates a Gemini client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gateway API key required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    NewMetrics(),
		logger:     logger,
	}, nil
}

// Converse sends the prompt to the conductor model, or to the coder model
// with a reasoning budget in precision mode.
func (c *Client) Converse(ctx context.Context, req ConverseRequest) (string, error) {
	model := req.Config.ConductorModel
	var thinking *thinkingConfig
	if req.Mode == settings.ModePrecision {
		model = req.Config.CoderModel
		if budget := ThinkingBudget(model); budget > 0 {
			thinking = &thinkingConfig{ThinkingBudget: budget}
		}
	}

	c.emit(ctx, req.Log, activity.AgentConductor, activity.SeverityInfo,
		fmt.Sprintf("Routing request to %s (%s mode).", model, modeLabel(req.Mode)))

	body := generateRequest{
		SystemInstruction: systemText(conversationSystemInstruction(req.ContextSummary)),
		Contents:          []content{textContent("user", req.Prompt)},
		GenerationConfig:  &generationConfig{ThinkingConfig: thinking},
	}

	resp, err := c.generate(ctx, OpConverse, model, body)
	if err != nil {
		c.emit(ctx, req.Log, activity.AgentConductor, activity.SeverityError,
			fmt.Sprintf("Model call failed: %v", err))
		return "", err
	}
	return resp.text(), nil
}

// GroundedSearch asks the research model with web search enabled. Failures
// degrade to ResearchUnavailable with no sources.
func (c *Client) GroundedSearch(ctx context.Context, req SearchRequest) SearchResult {
	model := req.Config.ResearchModel
	c.emit(ctx, req.Log, activity.AgentResearchLead, activity.SeverityInfo,
		fmt.Sprintf("Searching the web with %s.", model))

	body := generateRequest{
		SystemInstruction: systemText(searchInstruction),
		Contents:          []content{textContent("user", req.Query)},
		Tools:             []tool{{GoogleSearch: &struct{}{}}},
	}

	resp, err := c.generate(ctx, OpGroundedSearch, model, body)
	if err != nil {
		c.emit(ctx, req.Log, activity.AgentResearchLead, activity.SeverityWarning,
			fmt.Sprintf("Research failed, continuing without findings: %v", err))
		return SearchResult{Text: ResearchUnavailable}
	}
	return SearchResult{Text: resp.text(), Sources: resp.sources()}
}

// ReviewArtifact asks the validator model to audit content. Failures degrade
// to ReviewUnavailable.
func (c *Client) ReviewArtifact(ctx context.Context, req ReviewRequest) string {
	model := req.Config.ValidatorModel
	c.emit(ctx, req.Log, activity.AgentValidator, activity.SeverityInfo,
		fmt.Sprintf("Reviewing proposed changes with %s.", model))

	temp := reviewTemperature
	body := generateRequest{
		SystemInstruction: systemText(reviewInstruction),
		Contents:          []content{textContent("user", reviewPrompt(req.Content, req.Requirements))},
		GenerationConfig:  &generationConfig{Temperature: &temp},
	}

	resp, err := c.generate(ctx, OpReviewArtifact, model, body)
	if err != nil {
		c.emit(ctx, req.Log, activity.AgentValidator, activity.SeverityWarning,
			fmt.Sprintf("Review failed: %v", err))
		return ReviewUnavailable
	}
	return resp.text()
}

func (c *Client) generate(ctx context.Context, op, model string, body generateRequest) (resp *generateResponse, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, start, err) }()

	fail := func(status int, err error) (*generateResponse, error) {
		return nil, &GatewayError{Op: op, Model: model, StatusCode: status, Err: err}
	}

	if strings.TrimSpace(model) == "" {
		return fail(0, errors.New("no model configured"))
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fail(0, fmt.Errorf("rate limiter: %w", err))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail(0, fmt.Errorf("failed to marshal request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("gateway request", "op", op, "model", model, "bytes", len(payload))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
	if err != nil {
		return fail(httpResp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	if len(raw) > maxResponseBytes {
		return fail(httpResp.StatusCode, errors.New("response exceeds size limit"))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fail(httpResp.StatusCode, errors.New(apiErrorMessage(raw, httpResp.Status)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fail(httpResp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Candidates) == 0 {
		return fail(httpResp.StatusCode, errors.New("response has no candidates"))
	}

	c.logger.Debug("gateway response", "op", op, "model", model, "duration", time.Since(start))
	return &out, nil
}

func (c *Client) emit(ctx context.Context, sink activity.Sink, agent activity.Agent, severity activity.Severity, message string) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, &activity.Entry{Agent: agent, Severity: severity, Message: message}); err != nil {
		c.logger.Warn("failed to record activity", "agent", agent, "error", err)
	}
}

func modeLabel(m settings.Mode) string {
	if m == settings.ModePrecision {
		return string(settings.ModePrecision)
	}
	return string(settings.ModeFast)
}

func apiErrorMessage(raw []byte, status string) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return status
}

// Wire types for generateContent.

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

func textContent(role, text string) content {
	return content{Role: role, Parts: []part{{Text: text}}}
}

func systemText(text string) *content {
	c := textContent("", text)
	return &c
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type generationConfig struct {
	Temperature    *float64        `json:"temperature,omitempty"`
	ThinkingConfig *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
}

type groundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web"`
}

type candidate struct {
	Content           content `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []groundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func (r *generateResponse) sources() []chat.Source {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []chat.Source
	for _, chunk := range r.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		out = append(out, chat.Source{Title: title, URI: chunk.Web.URI})
	}
	return out
}
