package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uzbridge/hemis-mcp/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hemis-mcp %s\n", version.Version)
	},
}
