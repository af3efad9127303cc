package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uzbridge/hemis-mcp/internal/catalog"
)

var toolsLong bool

var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools exposed by the bridge",
	Run:   runTools,
}

func init() {
	ToolsCmd.Flags().BoolVarP(&toolsLong, "long", "l", false, "Show descriptions, endpoints and parameters")
}

func runTools(cmd *cobra.Command, args []string) {
	specs := catalog.All()
	fmt.Printf("%d tools available:\n\n", len(specs))
	for _, spec := range specs {
		fmt.Printf("  %s\n", spec.Tool)
		if !toolsLong {
			continue
		}
		fmt.Printf("      %s\n", spec.Description)
		fmt.Printf("      %s %s\n", spec.Method, spec.Path)
		if !spec.Auth {
			fmt.Println("      public, no authentication")
		}
		if len(spec.Parameters) > 0 {
			params := make([]string, 0, len(spec.Parameters))
			for _, p := range spec.Parameters {
				name := p.Name
				if p.Required {
					name += " (required)"
				}
				params = append(params, name)
			}
			fmt.Printf("      parameters: %s\n", strings.Join(params, ", "))
		}
		fmt.Println()
	}
}
