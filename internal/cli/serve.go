package cli

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/blashnikovpro/page4u-mcp/internal/config"
	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
	"github.com/blashnikovpro/page4u-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Page4U tool set over MCP stdio",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		return err
	}
	if globalFlags.APIURL != "" {
		cfg.APIBaseURL = globalFlags.APIURL
	}

	// Status goes to stderr: stdout is the MCP protocol stream.
	sty := newStyles(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s %s\n", sty.banner(), version)
	fmt.Fprintln(os.Stderr, sty.kv("Endpoint", cfg.APIBaseURL))
	if cfg.APIToken == "" {
		fmt.Fprintf(os.Stderr, "%s %s is not set; tool calls will fail until it is\n",
			sty.warnPrefix(), config.EnvAPIToken)
	}

	client := page4u.NewClient(cfg.APIBaseURL, cfg.APIToken, version)
	srv := server.NewMCPServer("page4u", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.NewRegistry(client).Register(srv)

	return server.ServeStdio(srv)
}
