package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"partnerplane/internal/app"
)

var (
	serveDebug    bool
	serveFilename string
	serveInterval time.Duration
	serveMCPStdio bool
)

// serveCmd starts the partnership server with every processor enabled in
// the configuration.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the partnership server",
	Long: `Loads the partnership file and serves it until interrupted.

The server fails to start if the partnership file cannot be loaded. Once
running, a broken file is reported and the last good configuration stays
active. Enabled processors are read from partnerplane.yaml:

  stream  - interactive console on this terminal (type 'exit' to stop)
  socket  - one XML command per TCP connection, with userid/password
  mcp     - every command group as an MCP tool over streamable HTTP
  admin   - /healthz, /metrics and a JSON API

Flags override the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, configPath, GetVersion())
	cfg.Filename = serveFilename
	if cmd.Flags().Changed("interval") {
		cfg.Interval = &serveInterval
	}
	cfg.MCPStdio = serveMCPStdio

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVarP(&serveFilename, "file", "f", "", "Partnership XML file (overrides partnerships.filename)")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "Poll interval for file changes, 0 disables watching (overrides partnerships.interval)")
	serveCmd.Flags().BoolVar(&serveMCPStdio, "mcp-stdio", false, "Serve MCP tools on stdin/stdout instead of the console")
}
