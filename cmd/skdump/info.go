package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/bsm/sktable"
	"github.com/spf13/cobra"
)

func NewInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info CONFIG",
		Short: "Show the layout of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := sktable.LoadTable(args[0], a.options())
			if err != nil {
				return err
			}

			r, err := sktable.Open(t, a.options())
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Table:   %s\n", t.Name)
			fmt.Fprintf(out, "Pages:   %s\n", t.PagePath)
			fmt.Fprintf(out, "Rows:    %d\n", t.RowCount)
			fmt.Fprintf(out, "Record:  %d bytes, format %s\n\n", t.Record.Size, t.Record.Format)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tTYPE\tSTORAGE\tPATH\tCOMPRESSION\tSIZE\tPAGES")
			for i := range t.Fields {
				f := &t.Fields[i]

				path, compression, size, pages := "-", "-", "-", "-"
				if store := r.Store(i); store != nil {
					path = f.Path
					compression = f.Compression.String()
					size = fmt.Sprint(store.Size())
					if bs, ok := store.(*sktable.BlobStore); ok {
						pages = fmt.Sprint(bs.Catalog().NumPages())
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", f.Name, f.TypeName, f.Type.Name, path, compression, size, pages)
			}
			return w.Flush()
		},
	}
}
