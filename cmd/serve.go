package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uzbridge/hemis-mcp/internal/catalog"
	"github.com/uzbridge/hemis-mcp/internal/dispatch"
	mcpserver "github.com/uzbridge/hemis-mcp/internal/interfaces/mcp"
	"github.com/uzbridge/hemis-mcp/internal/logger"
	"github.com/uzbridge/hemis-mcp/pkg/config"
	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

var (
	serveTransport string
	servePort      string
	serveConfig    string
	serveVerbose   bool
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HEMIS MCP bridge",
	Long:  "Expose the HEMIS endpoint catalogue as MCP tools over stdio or streamable HTTP",
	Run:   runServe,
}

func init() {
	ServeCmd.Flags().StringVarP(&serveTransport, "transport", "t", "stdio", "MCP transport: stdio or http")
	ServeCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to listen on (http transport)")
	ServeCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Configuration file path (JSON, YAML or TOML)")
	ServeCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")

	// Bind flags to viper
	if err := viper.BindPFlag("transport", ServeCmd.Flags().Lookup("transport")); err != nil {
		log.Printf("Failed to bind transport flag: %v", err)
	}
	if err := viper.BindPFlag("port", ServeCmd.Flags().Lookup("port")); err != nil {
		log.Printf("Failed to bind port flag: %v", err)
	}
	if err := viper.BindPFlag("config", ServeCmd.Flags().Lookup("config")); err != nil {
		log.Printf("Failed to bind config flag: %v", err)
	}
	if err := viper.BindPFlag("verbose", ServeCmd.Flags().Lookup("verbose")); err != nil {
		log.Printf("Failed to bind verbose flag: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(serveConfig)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := cfg.LogLevel
	if serveVerbose {
		level = "debug"
	}
	logger.Configure(logger.Config{Level: level})
	slog := logger.WithComponent("serve")

	// Missing credentials make every upstream call impossible; refuse to
	// start instead of failing on the first invocation.
	if err := cfg.Validate(); err != nil {
		slog.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := catalog.Validate(); err != nil {
		slog.Fatal().Err(err).Msg("invalid endpoint catalogue")
	}

	client := hemis.NewClient(cfg.APIBase, cfg.Timeout())
	session := hemis.NewSession(hemis.Credentials{
		BaseURL:  cfg.APIBase,
		Login:    cfg.Login,
		Password: cfg.Password,
	}, client)
	dispatcher := dispatch.New(client, session, cfg.Language)

	server, err := mcpserver.NewServer(dispatcher)
	if err != nil {
		slog.Fatal().Err(err).Msg("failed to build MCP server")
	}

	switch serveTransport {
	case "stdio":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		slog.Info().Msg("serving MCP over stdio")
		if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Fatal().Err(err).Msg("server error")
		}
	case "http":
		runHTTP(server, slog)
	default:
		slog.Fatal().Str("transport", serveTransport).Msg("unknown transport, expected stdio or http")
	}
}

func runHTTP(server *mcpserver.Server, slog zerolog.Logger) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	mcpserver.NewHandler(server).RegisterRoutes(e)

	// Start server in a goroutine
	go func() {
		slog.Info().Str("port", servePort).Msg("serving MCP over streamable HTTP")
		if err := e.Start(":" + servePort); err != nil && err != http.ErrServerClosed {
			slog.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info().Msg("shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error().Err(err).Msg("graceful shutdown failed")
	}
}
