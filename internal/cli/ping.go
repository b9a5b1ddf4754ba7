package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pingCmd)
}

// pingCmd is the no-op connectivity check: it exercises nothing but the
// command plumbing itself.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that hwmoni is responsive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(map[string]string{"status": "ok"})
	},
}
