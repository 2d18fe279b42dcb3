package config

import (
	"fmt"
	"net"
	"strings"

	"partnerplane/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateAddress checks host:port syntax. An empty host binds all interfaces.
func ValidateAddress(field, value, entityType string) error {
	if err := ValidateRequired(field, value, entityType); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(value); err != nil {
		return ValidationError{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("is not a valid host:port address: %v", err),
			Suggestions: []string{"use a form like 127.0.0.1:4321 or :4321"},
		}
	}
	return nil
}

// Validate checks cfg and returns a *ConfigurationErrorCollection with one
// entry per problem, or nil.
func Validate(cfg Config, filePath string) error {
	errs := NewConfigurationErrorCollection()
	add := func(category string, err error) {
		if err == nil {
			return
		}
		cerr := NewConfigurationError(filePath, category, ErrorTypeValidation, err.Error())
		if ve, ok := err.(ValidationError); ok {
			cerr.Field = ve.Field
			cerr.Message = ve.Message
			cerr.Suggestions = ve.Suggestions
		}
		errs.Add(cerr)
	}

	if cfg.LogLevel != "" {
		if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
			add(CategoryGeneral, ValidationError{Field: "logLevel", Value: cfg.LogLevel, Message: err.Error(),
				Suggestions: []string{"use one of debug, info, warn, error"}})
		}
	}

	ps := cfg.Partnerships
	add(CategoryPartnerships, ValidateRequired("partnerships.filename", ps.Filename, "partnerships"))
	if ps.Interval < 0 {
		add(CategoryPartnerships, ValidationError{Field: "partnerships.interval", Value: ps.Interval,
			Message: "cannot be negative", Suggestions: []string{"omit the interval or set it to 0 to disable watching"}})
	}
	if ps.Debounce < 0 {
		add(CategoryPartnerships, ValidationError{Field: "partnerships.debounce", Value: ps.Debounce, Message: "cannot be negative"})
	}

	if sock := cfg.Processors.Socket; sock.Enabled {
		add(CategoryProcessors, ValidateAddress("processors.socket.address", sock.Address, "the socket processor"))
		add(CategoryProcessors, ValidateRequired("processors.socket.userid", sock.UserID, "the socket processor"))
		add(CategoryProcessors, ValidateRequired("processors.socket.password", sock.Password, "the socket processor"))
		if sock.TLS.Enabled() && (sock.TLS.CertFile == "" || sock.TLS.KeyFile == "") {
			add(CategoryProcessors, ValidationError{Field: "processors.socket.tls",
				Message: "certFile and keyFile must be set together"})
		}
		if sock.Timeout < 0 {
			add(CategoryProcessors, ValidationError{Field: "processors.socket.timeout", Value: sock.Timeout, Message: "cannot be negative"})
		}
	}
	if m := cfg.Processors.MCP; m.Enabled {
		add(CategoryProcessors, ValidateAddress("processors.mcp.address", m.Address, "the MCP processor"))
	}
	if a := cfg.Admin; a.Enabled {
		add(CategoryAdmin, ValidateAddress("admin.address", a.Address, "the admin endpoint"))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
