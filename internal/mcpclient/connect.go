package mcpclient

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uzbridge/hemis-mcp/internal/version"
)

// Options select how to reach the MCP server: a streamable HTTP endpoint
// or a command to spawn and talk to over stdio. Exactly one must be set.
type Options struct {
	ServerURL     string
	ServerCommand []string
}

// Connect establishes an initialized MCP client session.
func Connect(ctx context.Context, opts Options) (*mcp.ClientSession, error) {
	if (opts.ServerURL == "") == (len(opts.ServerCommand) == 0) {
		return nil, fmt.Errorf("exactly one of server URL or server command must be set")
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "hemis-mcp-client",
		Version: version.Version,
	}, nil)

	var transport mcp.Transport
	if opts.ServerURL != "" {
		transport = &mcp.StreamableClientTransport{
			Endpoint: opts.ServerURL,
		}
	} else {
		cmd := exec.Command(opts.ServerCommand[0], opts.ServerCommand[1:]...)
		cmd.Env = os.Environ()
		cmd.Stderr = os.Stderr
		transport = &mcp.CommandTransport{
			Command: cmd,
		}
	}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}
	return session, nil
}
