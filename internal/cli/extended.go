package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extendedCmd)
}

var extendedCmd = &cobra.Command{
	Use:   "extended",
	Short: "Print a full snapshot (usage, temperature, load, boot time) as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		ext, err := s.composer.Extended(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(ext)
	},
}
