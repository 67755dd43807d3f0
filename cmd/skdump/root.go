package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bsm/sktable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands of a single invocation.
type app struct {
	logLevel  string
	logFormat string
	stats     bool

	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *sktable.Metrics
}

func (a *app) init(stderr io.Writer) error {
	var level slog.Level
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q", a.logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(a.logFormat) {
	case "text":
		a.logger = slog.New(slog.NewTextHandler(stderr, opts))
	case "json":
		a.logger = slog.New(slog.NewJSONHandler(stderr, opts))
	default:
		return fmt.Errorf("invalid log format %q", a.logFormat)
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = sktable.NewMetrics(a.registry)
	return nil
}

func (a *app) options() *sktable.Options {
	return &sktable.Options{Logger: a.logger, Metrics: a.metrics}
}

// logStats logs the value of every collected counter.
func (a *app) logStats() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName(), "value", m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			a.logger.Info("stats", attrs...)
		}
	}
	return nil
}

// NewRootCmd builds the skdump command tree.
func NewRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "skdump <command> [flags]",
		Short:         "Inspect and export Sk dictionary tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.stats {
				return nil
			}
			return a.logStats()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.PersistentFlags().BoolVar(&a.stats, "stats", false, "Log read statistics on completion")

	cmd.AddCommand(NewInfoCmd(a))
	cmd.AddCommand(NewRowsCmd(a))
	cmd.AddCommand(NewExportCmd(a))
	return cmd
}
