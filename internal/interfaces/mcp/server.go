package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/uzbridge/hemis-mcp/internal/catalog"
	"github.com/uzbridge/hemis-mcp/internal/dispatch"
	"github.com/uzbridge/hemis-mcp/internal/logger"
	"github.com/uzbridge/hemis-mcp/internal/version"
	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

// Server exposes the endpoint catalogue as MCP tools. It owns no state
// of its own: every call goes straight through the dispatcher.
type Server struct {
	server     *mcp.Server
	dispatcher *dispatch.Dispatcher
	log        zerolog.Logger
}

// NewServer creates the MCP server and registers one tool per catalogue
// entry. The catalogue must have been validated before this point.
func NewServer(dispatcher *dispatch.Dispatcher) (*Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "hemis-mcp",
		Version: version.Version,
	}, &mcp.ServerOptions{
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{},
		},
	})

	s := &Server{
		server:     server,
		dispatcher: dispatcher,
		log:        logger.WithComponent("mcp"),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// registrars maps a catalogue entry's parameter signature to the typed
// input shape registered for it. A new signature means adding an input
// type here; registerTools refuses entries it cannot shape.
var registrars = map[string]func(*Server, catalog.EndpointSpec){
	"language":                     addTool[LanguageInput],
	"language,semester":            addTool[SemesterInput],
	"language,semester,subject":    addTool[SubjectInput],
	"language,semester,week":       addTool[ScheduleInput],
	"language,limit,page,semester": addTool[TaskListInput],
}

func (s *Server) registerTools() error {
	for _, spec := range catalog.All() {
		register, ok := registrars[signature(spec)]
		if !ok {
			return fmt.Errorf("tool %q: no input shape for parameter signature %q", spec.Tool, signature(spec))
		}
		register(s, spec)
	}
	s.log.Info().Int("tools", len(catalog.All())).Msg("registered catalogue tools")
	return nil
}

func signature(spec catalog.EndpointSpec) string {
	names := make([]string, 0, len(spec.Parameters))
	for _, p := range spec.Parameters {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// argser is implemented by every tool input shape.
type argser interface {
	args() map[string]any
}

func addTool[In argser](s *Server, spec catalog.EndpointSpec) {
	tool := &mcp.Tool{
		Name:        spec.Tool,
		Description: spec.Description,
	}
	mcp.AddTool(s.server, tool, func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		return s.invoke(ctx, spec.Tool, input.args())
	})
}

// invoke runs the dispatcher and folds its typed errors into MCP tool
// error results so a failed upstream call reads as a tool failure, not a
// protocol fault.
func (s *Server) invoke(ctx context.Context, tool string, args map[string]any) (*mcp.CallToolResult, any, error) {
	payload, err := s.dispatcher.Invoke(ctx, tool, args)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%s: %v", hemis.KindOf(err), err)},
			},
		}, nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil, nil
}

// Run serves MCP over stdin/stdout until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Server returns the underlying MCP server for transport hosting.
func (s *Server) Server() *mcp.Server {
	return s.server
}
