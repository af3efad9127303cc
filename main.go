package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/uzbridge/hemis-mcp/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "hemis-mcp",
	Short: "HEMIS MCP bridge",
	Long:  "An MCP server that exposes a university HEMIS student portal as tools for AI assistants",
}

func init() {
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.ChatCmd)
	rootCmd.AddCommand(cmd.CallCmd)
	rootCmd.AddCommand(cmd.ToolsCmd)
	rootCmd.AddCommand(cmd.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
