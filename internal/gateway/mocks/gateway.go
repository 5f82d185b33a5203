package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/trinity/internal/gateway"
)

// Gateway is a testify mock for gateway.Gateway.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) Converse(ctx context.Context, req gateway.ConverseRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Gateway) GroundedSearch(ctx context.Context, req gateway.SearchRequest) gateway.SearchResult {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.SearchResult)
}

func (m *Gateway) ReviewArtifact(ctx context.Context, req gateway.ReviewRequest) string {
	args := m.Called(ctx, req)
	return args.String(0)
}
