package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/uzbridge/hemis-mcp/internal/logger"
	"github.com/uzbridge/hemis-mcp/internal/mcpclient"
)

// maxToolRounds bounds the completion/tool-execution loop for one query.
const maxToolRounds = 8

// Options configure a chat client.
type Options struct {
	Server    mcpclient.Options
	APIKey    string
	BaseURL   string // OpenAI-compatible endpoint override
	Model     string
	MaxTokens int
}

// Client bridges a human conversation to the bridge's MCP tools: the
// model decides which tools to call, the MCP session executes them, and
// the results feed back into the conversation.
type Client struct {
	session   *mcp.ClientSession
	openai    *openaiClient
	model     string
	maxTokens int
	tools     []toolSpec
	history   []chatMessage
	log       zerolog.Logger
}

// New connects to the MCP server and lists its tools. The caller owns
// Close.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for chat")
	}

	session, err := mcpclient.Connect(ctx, opts.Server)
	if err != nil {
		return nil, err
	}

	list, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	tools := make([]toolSpec, 0, len(list.Tools))
	for _, t := range list.Tools {
		tools = append(tools, toolSpec{
			Type: "function",
			Function: toolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schemaToMap(t.InputSchema),
			},
		})
	}

	c := &Client{
		session:   session,
		openai:    newOpenAIClient(opts.APIKey, opts.BaseURL),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		tools:     tools,
		log:       logger.WithComponent("chat"),
	}
	c.log.Info().Int("tools", len(tools)).Str("model", c.model).Msg("connected to MCP server")
	return c, nil
}

// Close shuts the MCP session down.
func (c *Client) Close() error {
	return c.session.Close()
}

// ToolNames returns the tools the server advertised, in server order.
func (c *Client) ToolNames() []string {
	names := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		names = append(names, t.Function.Name)
	}
	return names
}

// Ask runs one user query through the model, executing any tool calls it
// requests, and returns the final assistant answer. Conversation history
// carries across calls.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	c.history = append(c.history, chatMessage{Role: "user", Content: query})

	for round := 0; round < maxToolRounds; round++ {
		msg, err := c.openai.complete(ctx, chatCompletionRequest{
			Model:     c.model,
			Messages:  c.history,
			Tools:     c.tools,
			MaxTokens: c.maxTokens,
		})
		if err != nil {
			return "", err
		}
		c.history = append(c.history, *msg)

		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}
		for _, call := range msg.ToolCalls {
			c.log.Debug().Str("tool", call.Function.Name).Msg("executing tool call")
			c.history = append(c.history, chatMessage{
				Role:       "tool",
				Content:    c.executeTool(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("query exceeded %d tool rounds without a final answer", maxToolRounds)
}

// executeTool performs one MCP tool call. Failures come back as text so
// the model can explain them instead of the conversation dying.
func (c *Client) executeTool(ctx context.Context, call toolCall) string {
	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("tool call failed: invalid arguments: %v", err)
		}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      call.Function.Name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Sprintf("tool call failed: %v", err)
	}

	text := resultText(result)
	if result.IsError {
		return "tool error: " + text
	}
	return text
}

// Run is the interactive loop: read a line, answer it, repeat until EOF
// or quit.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Connected with %d tools. Type 'quit' to exit.\n", len(c.tools))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" {
			break
		}

		answer, err := c.Ask(ctx, query)
		if err != nil {
			fmt.Fprintf(out, "\nerror: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", answer)
	}
	return scanner.Err()
}

// resultText joins the text parts of a tool result.
func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// schemaToMap flattens whatever schema representation the SDK hands back
// into the plain map OpenAI's function-calling API expects.
func schemaToMap(schema any) map[string]any {
	fallback := map[string]any{"type": "object"}
	if schema == nil {
		return fallback
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return fallback
	}
	var m map[string]any
	if err := json.Unmarshal(encoded, &m); err != nil || len(m) == 0 {
		return fallback
	}
	return m
}
