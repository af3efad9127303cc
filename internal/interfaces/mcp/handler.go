package mcp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler hosts the MCP server behind HTTP using the SDK's streamable
// transport, mounted on echo next to a health probe.
type Handler struct {
	mcpServer   *Server
	httpHandler http.Handler
}

// NewHandler creates an HTTP handler for the /mcp endpoint
func NewHandler(s *Server) *Handler {
	httpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.Server()
	}, nil)

	return &Handler{
		mcpServer:   s,
		httpHandler: httpHandler,
	}
}

// RegisterRoutes mounts the MCP endpoint and the health probe on e.
// The MCP endpoint accepts every method; the SDK handler does its own
// method routing for the streamable protocol.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Any("/mcp", func(c echo.Context) error {
		h.httpHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
