// Package cli implements the hwmoni command-line interface using Cobra.
// Each subcommand maps to one monitor operation (info, temp, specs, ...).
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/hwmoni/internal/config"
	"github.com/Dicklesworthstone/hwmoni/internal/monitor"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
	"github.com/Dicklesworthstone/hwmoni/internal/specs"
	"github.com/Dicklesworthstone/hwmoni/internal/thermal"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hwmoni",
	Short: "hwmoni — desktop hardware monitor",
	Long: `hwmoni samples CPU, memory, temperature, and load, and shows them
as a live dashboard, a headless polling loop, one-shot JSON commands, or an
HTTP endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// stack wires the measurement layer once per invocation.
type stack struct {
	cfg      config.Config
	source   *source.Source
	resolver *thermal.Resolver
	reporter *specs.Reporter
	composer *monitor.Composer
}

func buildStack() (*stack, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	backend := source.Gopsutil{}
	src := source.New(backend, cfg.Sampling.Settle.Duration)
	resolver := thermal.DefaultChain(backend, src.Usage, thermal.Options{
		Commands: cfg.Thermal.ProbeCommands,
		Estimate: cfg.Thermal.Estimate,
	})

	return &stack{
		cfg:      cfg,
		source:   src,
		resolver: resolver,
		reporter: specs.NewReporter(backend),
		composer: monitor.NewComposer(src, resolver, backend),
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
