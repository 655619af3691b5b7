package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"host-snapshot/internal/config"
	"host-snapshot/internal/logging"
	"host-snapshot/internal/metrics"
	"host-snapshot/internal/report"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		format     string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "host-snapshot",
		Short:         "Print a snapshot of host CPU, memory and swap metrics",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			if err := logging.Init(cfg.LogLevel); err != nil {
				return err
			}

			return run(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (built-in defaults when empty)")
	cmd.Flags().StringVar(&format, "format", config.FormatText, "output format: text or yaml")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level written to stderr")
	cmd.SetVersionTemplate("host-snapshot v{{.Version}}\n")

	return cmd
}

func run(out io.Writer, cfg *config.Config) error {
	reader := metrics.NewReader(cfg.ReaderOptions())
	log := logging.WithComponent("cli")
	log.Debug().Str("format", cfg.Format).Dur("sample_interval", cfg.SampleInterval()).Msg("Reading host snapshot")

	if cfg.Format == config.FormatYAML {
		snap, err := reader.Collect()
		if err != nil {
			return err
		}
		return report.WriteYAML(out, snap)
	}

	return report.WriteText(out, reader)
}
