package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"partnerplane/internal/processor"
)

var (
	sendAddress  string
	sendUserID   string
	sendPassword string
	sendTLS      bool
	sendInsecure bool
	sendTimeout  time.Duration
)

// sendCmd runs one command on a running server through the socket processor.
var sendCmd = &cobra.Command{
	Use:   "send <command> [args...]",
	Short: "Send a command to a running server",
	Long: `Sends one command line to the socket processor of a running server and
prints the result. Address and credentials default to the socket section of
partnerplane.yaml.

Examples:
  partnerplane send partnership list
  partnerplane send partner view acme
  partnerplane send partnership add acme-to-globex acme globex "subject=Invoice run"
  partnerplane send --address 10.0.0.5:4321 partnership refresh

Exit codes: 0 OK, 4 the command returned ERROR, 1 connection failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}
	sock := cfg.Processors.Socket
	if !cmd.Flags().Changed("address") {
		sendAddress = sock.Address
	}
	if !cmd.Flags().Changed("user") {
		sendUserID = sock.UserID
	}
	if !cmd.Flags().Changed("password") {
		sendPassword = sock.Password
	}

	var tlsConfig *tls.Config
	if sendTLS || sock.TLS.Enabled() {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: sendInsecure,
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	line := joinCommandLine(args)
	res, err := processor.Send(ctx, sendAddress, sendUserID, sendPassword, line, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to send command to %s: %w", sendAddress, err)
	}

	if !res.IsOK() {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Text())
		return &commandFailedError{command: line}
	}
	if text := res.Text(); text != "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	return nil
}

// joinCommandLine rebuilds a command line from shell arguments, quoting
// arguments that contain spaces so the server tokenizes them back.
func joinCommandLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || (strings.Contains(a, " ") && !strings.Contains(a, `"`)) {
			a = `"` + a + `"`
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendAddress, "address", "", "Socket processor address (default from partnerplane.yaml)")
	sendCmd.Flags().StringVar(&sendUserID, "user", "", "User id (default from partnerplane.yaml)")
	sendCmd.Flags().StringVar(&sendPassword, "password", "", "Password (default from partnerplane.yaml)")
	sendCmd.Flags().BoolVar(&sendTLS, "tls", false, "Connect with TLS")
	sendCmd.Flags().BoolVar(&sendInsecure, "insecure-skip-verify", false, "Do not verify the server certificate")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "Time limit for the whole exchange")
}
