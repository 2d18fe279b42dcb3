package app

import (
	"time"

	"partnerplane/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the file's logLevel.
	Debug bool

	// ConfigPath is the partnerplane.yaml to load. Empty uses
	// config.DefaultConfigPath.
	ConfigPath string

	// Overrides from command line flags, applied after the file.
	Filename string
	Interval *time.Duration

	// MCPStdio serves MCP on stdin/stdout instead of the console.
	MCPStdio bool

	// Version is announced by the MCP server.
	Version string

	// Server configuration; loaded from ConfigPath when nil.
	Server *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, version string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Version:    version,
	}
}

// apply copies the flag overrides onto srv.
func (c *Config) apply(srv *config.Config) {
	if c.Filename != "" {
		srv.Partnerships.Filename = c.Filename
	}
	if c.Interval != nil {
		srv.Partnerships.Interval = *c.Interval
	}
	if c.MCPStdio {
		srv.Processors.Stream.Enabled = false
	}
}
