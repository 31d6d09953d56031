package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/expat-events/internal/logger"
	"github.com/pfrederiksen/expat-events/internal/metrics"
	"github.com/pfrederiksen/expat-events/internal/pipeline"
	"github.com/pfrederiksen/expat-events/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr     string
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Refresh calendars on a schedule and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.prepare()
			if err != nil {
				return err
			}

			m := metrics.New()
			srv, err := server.New(server.Options{
				Run: func(ctx context.Context) (*pipeline.Report, error) {
					report, err := pipeline.Run(ctx, cfg, pipeline.Deps{Metrics: m})
					if opts.metricsFile != "" {
						if werr := m.WriteTextfile(opts.metricsFile); werr != nil {
							logger.Error("metrics not written", logger.Fields{"path": opts.metricsFile}, werr)
						}
					}
					return report, err
				},
				OutDir:    cfg.OutDir,
				Schedule:  schedule,
				Metrics:   m,
				Logger:    logger.Default(),
				AccessLog: os.Stderr,
			})
			if err != nil {
				return err
			}

			return srv.Start(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&schedule, "refresh", server.DefaultSchedule, "Cron schedule for refreshing calendars (empty disables)")
	return cmd
}
