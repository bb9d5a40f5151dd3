package main

import (
	"encoding/json"
	"strings"
	"text/tabwriter"
)

type tableWriter struct {
	w *tabwriter.Writer
}

func (t *tableWriter) row(cells ...string) {
	_, _ = t.w.Write([]byte(strings.Join(cells, "\t") + "\n"))
}

// print writes v as a table on terminals, as indented JSON otherwise.
func (cli *commandLine) print(v interface{}, table func(w *tableWriter)) error {
	if !cli.table {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := &tableWriter{w: tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)}
	table(tw)
	return tw.w.Flush()
}
