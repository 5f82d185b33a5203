package testserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
)

// GenerateCall is one request received by FakeGemini.
type GenerateCall struct {
	Model  string
	APIKey string
	Body   map[string]any
}

// Search reports whether the call enabled the web search tool.
func (c GenerateCall) Search() bool {
	_, ok := c.Body["tools"]
	return ok
}

// SystemText returns the call's system instruction.
func (c GenerateCall) SystemText() string {
	return partsText(c.Body["systemInstruction"])
}

// UserText returns the text of the first content entry.
func (c GenerateCall) UserText() string {
	contents, _ := c.Body["contents"].([]any)
	if len(contents) == 0 {
		return ""
	}
	return partsText(contents[0])
}

func partsText(v any) string {
	m, _ := v.(map[string]any)
	parts, _ := m["parts"].([]any)
	var sb strings.Builder
	for _, p := range parts {
		pm, _ := p.(map[string]any)
		s, _ := pm["text"].(string)
		sb.WriteString(s)
	}
	return sb.String()
}

// Reply is a scripted FakeGemini response.
type Reply struct {
	Status  int
	Text    string
	Sources [][2]string // title, uri
}

// Responder picks the reply for a call.
type Responder func(call GenerateCall) Reply

// FakeGemini is an httptest handler speaking the generateContent wire format.
type FakeGemini struct {
	mu        sync.Mutex
	calls     []GenerateCall
	responder Responder
}

// NewFakeGemini returns a fake that answers every call type with canned text.
func NewFakeGemini() *FakeGemini {
	return &FakeGemini{responder: DefaultResponder}
}

// DefaultResponder answers search calls with one source, reviews with a
// short report, and conversation calls with plain text.
func DefaultResponder(call GenerateCall) Reply {
	switch {
	case call.Search():
		return Reply{Text: "Paris is the capital of France.", Sources: [][2]string{{"Paris - Wikipedia", "https://en.wikipedia.org/wiki/Paris"}}}
	case strings.HasPrefix(call.SystemText(), "You are the Validator"):
		return Reply{Text: "No issues found. Verdict: approve."}
	default:
		return Reply{Text: "Hello from the model."}
	}
}

// SetResponder replaces the reply logic.
func (f *FakeGemini) SetResponder(r Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responder = r
}

// Calls returns the calls received so far.
func (f *FakeGemini) Calls() []GenerateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GenerateCall(nil), f.calls...)
}

func (f *FakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix, suffix = "/v1beta/models/", ":generateContent"
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, prefix) || !strings.HasSuffix(r.URL.Path, suffix) {
		http.NotFound(w, r)
		return
	}

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		http.Error(w, `{"error":{"message":"bad json"}}`, http.StatusBadRequest)
		return
	}

	call := GenerateCall{
		Model:  strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), suffix),
		APIKey: r.Header.Get("x-goog-api-key"),
		Body:   body,
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	responder := f.responder
	f.mu.Unlock()

	reply := responder(call)
	w.Header().Set("Content-Type", "application/json")
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": reply.Text}})
		return
	}

	cand := map[string]any{
		"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": reply.Text}}},
	}
	if len(reply.Sources) > 0 {
		chunks := make([]any, 0, len(reply.Sources))
		for _, s := range reply.Sources {
			chunks = append(chunks, map[string]any{"web": map[string]any{"title": s[0], "uri": s[1]}})
		}
		cand["groundingMetadata"] = map[string]any{"groundingChunks": chunks}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{cand}})
}
