package config

import "time"

const (
	// DefaultPartnershipsFile is the backing file used when none is configured
	DefaultPartnershipsFile = "config/partnerships.xml"

	DefaultSocketAddress = "127.0.0.1:4321"
	DefaultMCPAddress    = "127.0.0.1:8090"
	DefaultAdminAddress  = "127.0.0.1:9090"

	DefaultSocketTimeout = 30 * time.Second
	DefaultDebounce      = 100 * time.Millisecond
)

// GetDefaultConfig returns default configuration. Only the console and the
// admin endpoint are enabled; the partnership file is not watched.
func GetDefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Partnerships: PartnershipsConfig{
			Filename: DefaultPartnershipsFile,
			Debounce: DefaultDebounce,
		},
		Processors: ProcessorsConfig{
			Stream: StreamConfig{Enabled: true},
			Socket: SocketConfig{
				Address: DefaultSocketAddress,
				Timeout: DefaultSocketTimeout,
			},
			MCP: MCPConfig{Address: DefaultMCPAddress},
		},
		Admin: AdminConfig{
			Enabled: true,
			Address: DefaultAdminAddress,
		},
	}
}
