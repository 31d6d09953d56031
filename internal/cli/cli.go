package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/expat-events/internal/config"
	"github.com/pfrederiksen/expat-events/internal/logger"
	"github.com/pfrederiksen/expat-events/internal/metrics"
	"github.com/pfrederiksen/expat-events/internal/pipeline"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath  string
	outDir      string
	timezone    string
	format      string
	metricsFile string
	verbose     bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "expat-events",
		Short: "Export expat event listings as iCalendar files",
		Long: `Scrapes event tables from the configured listing pages, resolves each
row's date to Europe/Amsterdam time and writes one .ics file per category.
Rows without a single resolvable date, such as recurring schedules, are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default: built-in sources)")
	flags.StringVar(&opts.outDir, "out-dir", "", "Output directory for calendar files (default \"docs\")")
	flags.StringVar(&opts.timezone, "timezone", "", "Timezone for dates without one (default \"Europe/Amsterdam\")")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newSourcesCmd(opts), newServeCmd(opts))
	return cmd
}

// prepare validates the output format, installs the logger and resolves the
// effective configuration.
func (o *options) prepare() (*config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return nil, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	level := logger.LevelInfo
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, "", err
	}
	return cfg, format, nil
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if o.outDir != "" {
		cfg.OutDir = o.outDir
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("effective config", logger.Fields{
		"config":   o.configPath,
		"out_dir":  cfg.OutDir,
		"timezone": cfg.Timezone,
		"sources":  len(cfg.Sources),
	})
	return cfg, nil
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, opts *options) error {
	cfg, format, err := opts.prepare()
	if err != nil {
		return err
	}

	m := metrics.New()
	report, runErr := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{Metrics: m})

	if err := WriteReport(cmd.OutOrStdout(), report, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			logger.Error("metrics not written", logger.Fields{"path": opts.metricsFile}, err)
		}
	}

	return runErr
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
