package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/uzbridge/hemis-mcp/internal/mcpclient"
)

// serverOptions turns the shared --server-url / --server-cmd flags into
// connection options. With neither flag set the current binary is re-run as a
// stdio server, so the client commands work out of the box.
func serverOptions(serverURL, serverCmd string) (mcpclient.Options, error) {
	if serverURL != "" && serverCmd != "" {
		return mcpclient.Options{}, fmt.Errorf("--server-url and --server-cmd are mutually exclusive")
	}
	if serverURL != "" {
		return mcpclient.Options{ServerURL: serverURL}, nil
	}
	if serverCmd != "" {
		return mcpclient.Options{ServerCommand: strings.Fields(serverCmd)}, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return mcpclient.Options{}, fmt.Errorf("failed to locate own binary: %w", err)
	}
	return mcpclient.Options{ServerCommand: []string{exe, "serve", "--transport", "stdio"}}, nil
}
