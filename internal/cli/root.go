// Package cli implements the page4u-mcp command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	APIURL     string
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "page4u-mcp",
	Short: "MCP bridge for the Page4U landing-page service",
	Long:  "page4u-mcp exposes Page4U landing pages, leads, and analytics to AI assistants as MCP tools.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "config file path (default: page4u.toml, then the user config dir)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.APIURL, "api-url", "", "Page4U API base URL (overrides config and env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
