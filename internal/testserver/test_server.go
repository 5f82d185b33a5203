package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/trinity/internal/app"
	"github.com/rpggio/trinity/internal/config"
	"github.com/rpggio/trinity/internal/sqlite"
)

type TestServer struct {
	Server   *httptest.Server
	Gemini   *FakeGemini
	App      *app.App
	DB       *sqlite.DB
	Token    string
	ClientID string
}

// New starts the full HTTP stack with auth enabled, backed by an in-memory
// database and a FakeGemini model backend.
func New(t *testing.T, token, clientID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	gemini := NewFakeGemini()
	backend := httptest.NewServer(gemini)

	cfg := config.Default()
	cfg.Auth.Enabled = true
	cfg.Gateway.BaseURL = backend.URL
	cfg.Gateway.APIKey = "test-gemini-key"
	cfg.Gateway.RateLimit = 0

	a, err := app.New(cfg, db, nil, app.Options{})
	require.NoError(t, err)

	server := httptest.NewServer(a.HTTPHandler(true, nil))

	ts := &TestServer{
		Server:   server,
		Gemini:   gemini,
		App:      a,
		DB:       db,
		Token:    token,
		ClientID: clientID,
	}

	require.NoError(t, ts.AddAPIKey(token, clientID))

	t.Cleanup(func() {
		server.Close()
		backend.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, clientID string) error {
	return ts.App.APIKeys.Add(context.Background(), token, clientID, "test")
}
