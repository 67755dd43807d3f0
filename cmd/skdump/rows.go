package main

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/bsm/sktable"
	"github.com/spf13/cobra"
)

func NewRowsCmd(a *app) *cobra.Command {
	var columns []string
	var opts sktable.RowOptions

	cmd := &cobra.Command{
		Use:   "rows CONFIG",
		Short: "Print table rows as tab-separated values",
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

			rows, err := r.Rows(columns, &opts)
			if err != nil {
				return err
			}
			defer rows.Release()

			fields := rows.Fields()
			names := make([]string, 0, len(fields))
			for _, f := range fields {
				names = append(names, f.Name)
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write([]byte(strings.Join(names, "\t") + "\n")); err != nil {
				return err
			}

			var line []byte
			for rows.Next() {
				line = line[:0]
				for i, v := range rows.Row() {
					if i != 0 {
						line = append(line, '\t')
					}
					line = appendValue(line, fields[i], v)
				}
				line = append(line, '\n')

				if _, err := out.Write(line); err != nil {
					return err
				}
			}
			return rows.Err()
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to print (default: all)")
	cmd.Flags().Int64Var(&opts.Start, "start", 0, "Index of the first row")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 0, "Maximum number of rows (0: unlimited)")
	cmd.Flags().BoolVar(&opts.Strip, "strip", false, "Strip a trailing zero byte from variable items")
	return cmd
}

// appendValue formats a value for display. Text items are quoted, other
// variable items are hex-encoded.
func appendValue(dst []byte, f *sktable.Field, v interface{}) []byte {
	switch x := v.(type) {
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case []byte:
		if kind, _ := f.ColumnKind(); kind == sktable.TextColumn {
			return strconv.AppendQuote(dst, string(x))
		}
		n := len(dst)
		dst = append(dst, make([]byte, hex.EncodedLen(len(x)))...)
		hex.Encode(dst[n:], x)
		return dst
	}
	return dst
}
