package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"partnerplane/internal/config"
	"partnerplane/internal/partnership"
)

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if GetVersion() != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "partnerplane" {
		t.Errorf("Expected Use to be 'partnerplane', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}

	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected persistent --config flag")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "partnerplane version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	if got, want := buf.String(), "partnerplane version 1.0.0\n"; got != want {
		t.Errorf("Expected version output %q, got %q", want, got)
	}
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{"version", "serve", "check", "send"} {
		if !found[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), ExitCodeError},
		{"configuration error", config.NewConfigurationError("/p.yaml", config.CategoryFile, config.ErrorTypeParse, "bad"), ExitCodeConfig},
		{"wrapped collection", fmt.Errorf("init: %w", config.NewConfigurationErrorCollection()), ExitCodeConfig},
		{"partnership parse error", fmt.Errorf("load: %w", &partnership.Error{Kind: partnership.KindParse, Message: "bad"}), ExitCodeParse},
		{"partnership io error", &partnership.Error{Kind: partnership.KindIO, Message: "gone"}, ExitCodeError},
		{"remote command failed", &commandFailedError{command: "partner view x"}, ExitCodeCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReportConfigError(t *testing.T) {
	cerr := config.NewConfigurationError("/etc/partnerplane.yaml", config.CategoryAdmin, config.ErrorTypeValidation, "invalid address")
	cerr.Field = "admin.address"
	cerr.Suggestions = []string{"use host:port"}

	cec := config.NewConfigurationErrorCollection()
	cec.Add(cerr)

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"collection", fmt.Errorf("init: %w", cec), []string{"Detailed Configuration Error Report (1 errors):", "  Field: admin.address", "    - use host:port"}},
		{"single error", cerr, []string{"Configuration Error in partnerplane.yaml", "  Field: admin.address"}},
		{"empty collection", config.NewConfigurationErrorCollection(), nil},
		{"other error", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportConfigError(&buf, tt.err)

			if tt.want == nil {
				if buf.Len() != 0 {
					t.Errorf("Expected no report, got %q", buf.String())
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Expected report to contain %q, got:\n%s", want, buf.String())
				}
			}
		})
	}
}
