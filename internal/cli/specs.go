package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(specsCmd)
}

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Print the static hardware identity as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		id, err := s.reporter.Read()
		if err != nil {
			return err
		}
		return printJSON(id)
	},
}
