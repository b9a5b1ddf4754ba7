package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
)

var monitorInterval time.Duration

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "polling interval (overrides config)")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print a status block on a fixed cadence until interrupted",
	Long: `Headless mode: polls the measurement layer and prints a formatted
block to stdout every cycle, indefinitely. Per-cycle errors go to stderr and
do not stop the loop.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	interval := s.cfg.Sampling.Interval.Duration
	if monitorInterval > 0 {
		interval = monitorInterval
	}

	ctx := cmd.Context()
	fmt.Println("hwmoni — hardware monitor")
	fmt.Println("===============================")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ext, err := s.composer.Extended(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			printBlock(ext)
		}

		// The gap between cycles is the loop's only cancellation point.
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func printBlock(ext model.ExtendedSnapshot) {
	fmt.Println("\nSystem Status:")
	fmt.Printf("CPU Usage: %.1f%%\n", ext.CPUUsagePercent)
	fmt.Printf("Memory: %.1f%% (%d MB / %d MB)\n",
		ext.MemoryUsagePercent,
		ext.UsedMemoryBytes/1024/1024,
		ext.TotalMemoryBytes/1024/1024)
	if t := ext.CPUTemperature; t != nil {
		if t.Provenance == model.Estimated {
			fmt.Printf("CPU Temperature: %.1f°C (estimated from load)\n", t.Celsius)
		} else {
			fmt.Printf("CPU Temperature: %.1f°C\n", t.Celsius)
		}
	}
	if la := ext.LoadAverage; la != nil {
		fmt.Printf("Load Average: %.2f %.2f %.2f\n", la.Load1, la.Load5, la.Load15)
	}
	fmt.Printf("Uptime: %ds\n", ext.UptimeSeconds)
	fmt.Println("===============================")
}
