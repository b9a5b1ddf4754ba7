package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print one CPU/memory/uptime snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		snap, err := s.source.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}
