package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"partnerplane/internal/config"
	"partnerplane/internal/partnership"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates an invalid partnerplane.yaml.
	ExitCodeConfig = 2
	// ExitCodeParse indicates an invalid partnership file.
	ExitCodeParse = 3
	// ExitCodeCommandFailed indicates a remote command returned an ERROR result.
	ExitCodeCommandFailed = 4
)

// configPath is the partnerplane.yaml shared by all subcommands.
var configPath string

// rootCmd represents the base command for the partnerplane application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "partnerplane",
	Short: "Manage AS2 partners and partnerships",
	Long: `partnerplane is the configuration control plane of an AS2 server.

It loads partners and partnerships from an XML file, keeps them live while
the file changes, and lets operators inspect and edit them through a console,
an XML socket protocol, MCP tools and an admin HTTP endpoint.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "partnerplane version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		reportConfigError(os.Stderr, err)
		os.Exit(getExitCode(err))
	}
}

// reportConfigError prints the field and suggestions of a partnerplane.yaml
// error, which the one-line message cobra prints leaves out.
func reportConfigError(w io.Writer, err error) {
	var cec *config.ConfigurationErrorCollection
	if errors.As(err, &cec) && cec.HasErrors() {
		fmt.Fprintln(w, cec.GetDetailedReport())
		return
	}
	var cerr config.ConfigurationError
	if errors.As(err, &cerr) {
		fmt.Fprintln(w, cerr.DetailedError())
	}
}

// commandFailedError reports an ERROR result from a remote command. Its
// lines have already been printed.
type commandFailedError struct {
	command string
}

func (e *commandFailedError) Error() string {
	return fmt.Sprintf("command %q failed", e.command)
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var cerr config.ConfigurationError
	var cec *config.ConfigurationErrorCollection
	if errors.As(err, &cerr) || errors.As(err, &cec) {
		return ExitCodeConfig
	}

	if errors.Is(err, partnership.ErrParse) {
		return ExitCodeParse
	}

	var failed *commandFailedError
	if errors.As(err, &failed) {
		return ExitCodeCommandFailed
	}

	return ExitCodeError
}

// loadServerConfig loads the --config file, or the default one.
func loadServerConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadConfig(path)
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is ./partnerplane.yaml or $HOME/.config/partnerplane/partnerplane.yaml)")
}
