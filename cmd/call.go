package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/uzbridge/hemis-mcp/internal/mcpclient"
)

var (
	callServerURL string
	callServerCmd string
	callArgs      []string
	callJSONArgs  []string
	callTimeout   int
)

var CallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke a single MCP tool",
	Long: `Invoke one tool on the bridge and print its result.

String arguments are passed with --arg, non-string arguments with --arg-json:

  hemis-mcp call get_student_schedule --arg semester=14 --arg week=5
  hemis-mcp call get_student_task_list --arg semester=14 --arg-json page=2`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	CallCmd.Flags().StringVar(&callServerURL, "server-url", "", "URL of a running MCP server (streamable HTTP)")
	CallCmd.Flags().StringVar(&callServerCmd, "server-cmd", "", "Command used to spawn a stdio MCP server")
	CallCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "Tool argument as key=value (repeatable)")
	CallCmd.Flags().StringArrayVar(&callJSONArgs, "arg-json", nil, "Tool argument as key=<json> (repeatable)")
	CallCmd.Flags().IntVar(&callTimeout, "timeout", 60, "Overall timeout in seconds")
}

func runCall(cmd *cobra.Command, args []string) error {
	toolArgs, err := parseToolArgs(callArgs, callJSONArgs)
	if err != nil {
		return err
	}

	opts, err := serverOptions(callServerURL, callServerCmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(callTimeout)*time.Second)
	defer cancel()

	session, err := mcpclient.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MCP server: %w", err)
	}
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: args[0], Arguments: toolArgs})
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}

	var parts []string
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if res.IsError {
		return fmt.Errorf("%s", text)
	}
	printResult(os.Stdout, text)
	return nil
}

func parseToolArgs(pairs, jsonPairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs)+len(jsonPairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected key=value", pair)
		}
		args[key] = value
	}
	for _, pair := range jsonPairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg-json %q, expected key=<json>", pair)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON in --arg-json %q: %w", pair, err)
		}
		args[key] = parsed
	}
	return args, nil
}

// printResult pretty-prints JSON payloads and passes anything else through.
func printResult(out io.Writer, text string) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err == nil {
		fmt.Fprintln(out, buf.String())
		return
	}
	fmt.Fprintln(out, text)
}
