package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
)

func init() {
	rootCmd.AddCommand(tempCmd)
}

// tempResult keeps "no sensor found" distinguishable from 0°C in the output.
type tempResult struct {
	Reading *model.TemperatureReading `json:"reading"`
}

var tempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Resolve the CPU temperature and print it as JSON",
	Long: `Walks the temperature probe chain and prints the first plausible
reading with its provenance (measured or estimated). A null reading means no
probe produced a value; it does not mean zero degrees.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		return printJSON(tempResult{Reading: s.resolver.Resolve(cmd.Context())})
	},
}
