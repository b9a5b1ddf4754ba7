package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/hwmoni/internal/ui"
)

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "polling interval (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		interval := s.cfg.Sampling.Interval.Duration
		if watchInterval > 0 {
			interval = watchInterval
		}
		return ui.Run(s.composer, s.reporter, interval)
	},
}
