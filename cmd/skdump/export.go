package main

import (
	"github.com/bsm/sktable"
	"github.com/bsm/sktable/sink"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewExportCmd(a *app) *cobra.Command {
	var (
		manifest string
		table    ManifestTable
		target   ManifestSink
		strip    bool
	)

	cmd := &cobra.Command{
		Use:   "export [CONFIG]",
		Short: "Export tables into a sink",
		Long: `Export a single table, or every table listed in a YAML manifest,
into one of the supported sinks: text, sntable, leveldb, cdb, badger.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m *Manifest
			switch {
			case manifest != "" && len(args) != 0:
				return errors.New("either a CONFIG or --manifest is accepted, not both")
			case manifest != "":
				var err error
				if m, err = LoadManifest(manifest, a.logger); err != nil {
					return err
				}
			case len(args) == 1:
				table.Config = args[0]
				table.Strip = &strip
				m = &Manifest{Sink: target, Tables: []ManifestTable{table}}
				if err := m.Normalize(".", a.logger); err != nil {
					return err
				}
			default:
				return errors.New("a CONFIG or --manifest is required")
			}

			s, err := sink.Open(m.Sink.Kind, m.Sink.Path, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if err := a.export(m, s); err != nil {
				_ = s.Close()
				return err
			}
			return s.Close()
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "YAML manifest listing the tables to export")
	cmd.Flags().StringVar(&target.Kind, "sink", "text", "Sink kind (text, sntable, leveldb, cdb, badger)")
	cmd.Flags().StringVarP(&target.Path, "out", "o", "", "Sink path (file or directory)")
	cmd.Flags().StringVar(&table.Name, "name", "", "Exported table name (default: from config)")
	cmd.Flags().StringSliceVarP(&table.Columns, "columns", "c", nil, "Columns to export (default: all)")
	cmd.Flags().BoolVar(&strip, "strip", false, "Strip a trailing zero byte from variable items")
	return cmd
}

func (a *app) export(m *Manifest, s sktable.Sink) error {
	for _, mt := range m.Tables {
		t, err := sktable.LoadTable(mt.Config, a.options())
		if err != nil {
			return err
		}

		opts := &sktable.ExportOptions{Options: *a.options(), Strip: *mt.Strip}
		if err := sktable.Export(t, mt.Name, mt.Columns, s, opts); err != nil {
			return err
		}
		a.logger.Info("exported", "table", t.Name, "rows", t.RowCount, "sink", m.Sink.Kind)
	}
	return nil
}
