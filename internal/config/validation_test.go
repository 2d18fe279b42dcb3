package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:       "missing filename",
			mutate:     func(c *Config) { c.Partnerships.Filename = "  " },
			wantFields: []string{"partnerships.filename"},
		},
		{
			name:       "negative interval",
			mutate:     func(c *Config) { c.Partnerships.Interval = -1 },
			wantFields: []string{"partnerships.interval"},
		},
		{
			name:       "bad log level",
			mutate:     func(c *Config) { c.LogLevel = "loud" },
			wantFields: []string{"logLevel"},
		},
		{
			name: "socket without credentials",
			mutate: func(c *Config) {
				c.Processors.Socket.Enabled = true
			},
			wantFields: []string{"processors.socket.userid", "processors.socket.password"},
		},
		{
			name: "socket with half a certificate",
			mutate: func(c *Config) {
				c.Processors.Socket = SocketConfig{Enabled: true, Address: ":4321", UserID: "u", Password: "p",
					TLS: TLSConfig{CertFile: "cert.pem"}}
			},
			wantFields: []string{"processors.socket.tls"},
		},
		{
			name: "disabled socket is not checked",
			mutate: func(c *Config) {
				c.Processors.Socket = SocketConfig{Enabled: false}
			},
		},
		{
			name: "bad addresses",
			mutate: func(c *Config) {
				c.Processors.MCP = MCPConfig{Enabled: true, Address: "localhost"}
				c.Admin.Address = ""
			},
			wantFields: []string{"processors.mcp.address", "admin.address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)

			err := Validate(cfg, "/etc/partnerplane.yaml")
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var cec *ConfigurationErrorCollection
			require.True(t, errors.As(err, &cec))
			var fields []string
			for _, e := range cec.Errors {
				fields = append(fields, e.Field)
				assert.Equal(t, ErrorTypeValidation, e.ErrorType)
				assert.Equal(t, "partnerplane.yaml", e.FileName)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestConfigurationErrorCollection(t *testing.T) {
	cec := NewConfigurationErrorCollection()
	assert.False(t, cec.HasErrors())
	assert.Equal(t, "no configuration errors", cec.Error())

	first := NewConfigurationError("/etc/partnerplane.yaml", CategoryPartnerships, ErrorTypeValidation, "is required")
	first.Field = "partnerships.filename"
	first.Suggestions = []string{"set a file"}
	cec.Add(first)
	assert.Equal(t, "[partnerships] partnerplane.yaml: field 'partnerships.filename': is required", cec.Error())

	cec.Add(NewConfigurationError("/etc/partnerplane.yaml", CategoryAdmin, ErrorTypeValidation, "bad address"))
	assert.Equal(t, 2, cec.Count())
	assert.True(t, strings.HasPrefix(cec.Error(), "2 configuration errors: "))

	report := cec.GetDetailedReport()
	assert.Contains(t, report, "Error 1:")
	assert.Contains(t, report, "  Field: partnerships.filename")
	assert.Contains(t, report, "    - set a file")
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("a", ":4321", "x"))
	assert.NoError(t, ValidateAddress("a", "127.0.0.1:0", "x"))
	assert.Error(t, ValidateAddress("a", "", "x"))
	assert.Error(t, ValidateAddress("a", "no-port", "x"))
}
