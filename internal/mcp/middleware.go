package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultClient = "default"

var errUnauthorized = errors.New("unauthorized")

// ClientResolver resolves a client ID from a bearer token.
type ClientResolver interface {
	ResolveClient(ctx context.Context, token string) (string, error)
}

// denyAll rejects every token; used when auth is on but no store is wired.
type denyAll struct{}

func (denyAll) ResolveClient(context.Context, string) (string, error) {
	return "", errors.New("no credential store")
}

type callerKey struct{}

// caller identifies who issued an MCP call.
type caller struct {
	clientID  string
	sessionID string
}

func callerFrom(ctx context.Context) caller {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c
}

// getClientID extracts the authenticated client ID from context.
func getClientID(ctx context.Context) string {
	return callerFrom(ctx).clientID
}

// getSessionID extracts the MCP session ID from context.
func getSessionID(ctx context.Context) string {
	return callerFrom(ctx).sessionID
}

// unauthenticated methods needed to establish a session.
var openMethods = map[string]bool{
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,
}

// callerMiddleware tags every call with its client and session. With a
// resolver, the client comes from the bearer token and calls without a
// valid token fail; without one every call belongs to fallback.
func callerMiddleware(resolver ClientResolver, fallback string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			c := caller{clientID: fallback, sessionID: requestSessionID(req)}

			if resolver != nil && !openMethods[method] {
				clientID, err := authenticate(ctx, resolver, req)
				if err != nil {
					return nil, err
				}
				c.clientID = clientID
			}

			return next(context.WithValue(ctx, callerKey{}, c), method, req)
		}
	}
}

func authenticate(ctx context.Context, resolver ClientResolver, req sdkmcp.Request) (string, error) {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: missing headers", errUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(extra.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}
	clientID, err := resolver.ResolveClient(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	if clientID == "" {
		return "", fmt.Errorf("%w: invalid bearer token", errUnauthorized)
	}
	return clientID, nil
}

// requestSessionID reads Mcp-Session-Id over HTTP, or the session_id meta key
// stdio clients may send.
func requestSessionID(req sdkmcp.Request) string {
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if sid := extra.Header.Get("Mcp-Session-Id"); sid != "" {
			return sid
		}
	}
	return metaSessionID(req)
}

// metaSessionID recovers because GetMeta panics on typed-nil params, which
// some notifications carry.
func metaSessionID(req sdkmcp.Request) (sid string) {
	defer func() {
		if recover() != nil {
			sid = ""
		}
	}()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	if meta := params.GetMeta(); meta != nil {
		sid, _ = meta["session_id"].(string)
	}
	return sid
}
