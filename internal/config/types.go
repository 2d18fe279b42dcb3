package config

import "time"

// Config is the top-level configuration structure for partnerplane.
type Config struct {
	LogLevel     string             `yaml:"logLevel,omitempty"`
	Partnerships PartnershipsConfig `yaml:"partnerships"`
	Processors   ProcessorsConfig   `yaml:"processors"`
	Admin        AdminConfig        `yaml:"admin"`
}

// PartnershipsConfig locates the partnership file and controls watching.
type PartnershipsConfig struct {
	Filename string        `yaml:"filename"`           // Backing XML file (required)
	Interval time.Duration `yaml:"interval,omitempty"` // Poll interval, 0 disables the watcher
	Debounce time.Duration `yaml:"debounce,omitempty"` // Quiet window before a change is reported
}

// ProcessorsConfig enables the command front-ends.
type ProcessorsConfig struct {
	Stream StreamConfig `yaml:"stream"`
	Socket SocketConfig `yaml:"socket"`
	MCP    MCPConfig    `yaml:"mcp"`
}

// StreamConfig configures the interactive console.
type StreamConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SocketConfig configures the XML-over-TCP command listener.
type SocketConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address,omitempty"`
	UserID   string        `yaml:"userid,omitempty"`
	Password string        `yaml:"password,omitempty"`
	TLS      TLSConfig     `yaml:"tls,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// TLSConfig names a server certificate and key. Both empty means plain TCP.
type TLSConfig struct {
	CertFile string `yaml:"certFile,omitempty"`
	KeyFile  string `yaml:"keyFile,omitempty"`
}

// Enabled reports whether a certificate is configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" || t.KeyFile != ""
}

// MCPConfig configures the MCP tool server (streamable HTTP).
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address,omitempty"`
}

// AdminConfig configures the admin HTTP endpoint.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address,omitempty"`
}
