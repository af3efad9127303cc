package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzbridge/hemis-mcp/internal/catalog"
	"github.com/uzbridge/hemis-mcp/internal/dispatch"
	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

func TestSignature(t *testing.T) {
	spec, ok := catalog.Lookup("get_student_task_list")
	require.True(t, ok)
	assert.Equal(t, "language,limit,page,semester", signature(spec), "parameter names come out sorted")

	spec, ok = catalog.Lookup("get_student_profile")
	require.True(t, ok)
	assert.Equal(t, "language", signature(spec))
}

func TestRegistrars_CoverCatalogue(t *testing.T) {
	for _, spec := range catalog.All() {
		_, ok := registrars[signature(spec)]
		assert.True(t, ok, "tool %s has no input shape for signature %q", spec.Tool, signature(spec))
	}
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(dispatch.New(nil, nil, "en-US"))
	require.NoError(t, err)
	assert.NotNil(t, s.Server())
}

func TestInvoke_FoldsErrorsIntoToolResults(t *testing.T) {
	s, err := NewServer(dispatch.New(nil, nil, "en-US"))
	require.NoError(t, err)

	result, _, err := s.invoke(context.Background(), "no_such_tool", nil)
	require.NoError(t, err, "dispatch failures are tool results, not protocol errors")
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "unknown_tool")
}

// stubDoer answers every request with a fixed public list payload.
type stubDoer struct{}

func (stubDoer) Do(ctx context.Context, r hemis.Request) (*hemis.Response, error) {
	return &hemis.Response{Status: 200, Body: []byte(`{"success":true,"data":[{"code":"x"}]}`)}, nil
}

func TestInvoke_SuccessCarriesPayload(t *testing.T) {
	s, err := NewServer(dispatch.New(stubDoer{}, nil, "en-US"))
	require.NoError(t, err)

	result, _, err := s.invoke(context.Background(), "get_universities", nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `[{"code":"x"}]`, text.Text)
}
