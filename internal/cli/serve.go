package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/hwmoni/internal/api"
)

var (
	serveHost string
	servePort int
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve snapshots over HTTP (JSON, Prometheus, websocket stream)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		host := s.cfg.Server.Host
		if serveHost != "" {
			host = serveHost
		}
		port := s.cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}

		srv := api.NewServer(s.composer, s.resolver, s.reporter, s.cfg.Sampling.Interval.Duration)
		return srv.ListenAndServe(fmt.Sprintf("%s:%d", host, port))
	},
}
