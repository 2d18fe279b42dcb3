package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"partnerplane/internal/formatting"
	"partnerplane/internal/partnership"
)

var (
	checkOutputFormat string
	checkColor        bool
	checkQuiet        bool
	checkWide         bool
)

// checkCmd validates a partnership file offline.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a partnership file and print its contents",
	Long: `Loads a partnership file with the same rules as the server and prints
its partners and partnerships. Without an argument the file configured in
partnerplane.yaml is checked. The server does not need to be running.

Exit codes: 0 valid, 3 invalid partnership file, 1 unreadable file.

Examples:
  partnerplane check
  partnerplane check config/partnerships.xml
  partnerplane check -o json config/partnerships.xml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseFormat(checkOutputFormat)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadServerConfig()
		if err != nil {
			return err
		}
		path = cfg.Partnerships.Filename
	}

	snap, err := partnership.LoadFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkQuiet {
		fmt.Fprintf(out, "%s: %d partners, %d partnerships\n", path, snap.Partners.Len(), snap.Partnerships.Len())
		return nil
	}

	f := formatting.New(formatting.Options{Format: format, Color: checkColor, Wide: checkWide}, out)
	if err := f.Partners(snap); err != nil {
		return err
	}
	return f.Partnerships(snap)
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format (table, plain, json, yaml)")
	checkCmd.Flags().BoolVar(&checkColor, "color", false, "Colorize table output")
	checkCmd.Flags().BoolVar(&checkWide, "wide", false, "Do not truncate long attribute lists")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Only print a one-line summary")
}
