package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uzbridge/hemis-mcp/internal/chat"
	"github.com/uzbridge/hemis-mcp/internal/logger"
	"github.com/uzbridge/hemis-mcp/pkg/config"
)

var (
	chatServerURL string
	chatServerCmd string
	chatModel     string
	chatMaxTokens int
	chatConfig    string
)

var ChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat backed by the bridge's tools",
	Long:  "Start an interactive session where an OpenAI model answers questions by calling the bridge's MCP tools",
	Run:   runChat,
}

func init() {
	ChatCmd.Flags().StringVar(&chatServerURL, "server-url", "", "URL of a running MCP server (streamable HTTP)")
	ChatCmd.Flags().StringVar(&chatServerCmd, "server-cmd", "", "Command used to spawn a stdio MCP server")
	ChatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "OpenAI model to use")
	ChatCmd.Flags().IntVar(&chatMaxTokens, "max-tokens", 0, "Maximum completion tokens per reply")
	ChatCmd.Flags().StringVarP(&chatConfig, "config", "c", "", "Configuration file path (JSON, YAML or TOML)")

	if err := viper.BindPFlag("model", ChatCmd.Flags().Lookup("model")); err != nil {
		log.Printf("Failed to bind model flag: %v", err)
	}
	if err := viper.BindPFlag("max-tokens", ChatCmd.Flags().Lookup("max-tokens")); err != nil {
		log.Printf("Failed to bind max-tokens flag: %v", err)
	}
}

func runChat(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(chatConfig)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(logger.Config{Level: cfg.LogLevel})
	slog := logger.WithComponent("chat")

	model := cfg.OpenAI.Model
	if chatModel != "" {
		model = chatModel
	}
	maxTokens := cfg.OpenAI.MaxTokens
	if chatMaxTokens > 0 {
		maxTokens = chatMaxTokens
	}

	server, err := serverOptions(chatServerURL, chatServerCmd)
	if err != nil {
		slog.Fatal().Err(err).Msg("invalid server flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chat.New(ctx, chat.Options{
		Server:    server,
		APIKey:    cfg.OpenAI.APIKey,
		Model:     model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		slog.Fatal().Err(err).Msg("failed to start chat session")
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Warn().Err(err).Msg("failed to close MCP session")
		}
	}()

	if err := client.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Fatal().Err(err).Msg("chat session failed")
	}
}
