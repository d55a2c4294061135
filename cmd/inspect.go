package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/rentcomp/internal/ingest"
	"github.com/sells-group/rentcomp/internal/pipeline"
	"github.com/sells-group/rentcomp/internal/table"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Parse a listing file and print its header and row count",
	Long: `Parses a listing file with the configured record separator and prints the
columns, the row count and which of the matching columns were found. Useful for
checking a file before running calc.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := cfg.IngestOptions()
		if err != nil {
			return err
		}

		t, err := ingest.LoadFile(inspectFile, opts)
		if err != nil && !eris.Is(err, table.ErrEmptyInput) {
			return eris.Wrap(err, "inspect: load file")
		}
		if t == nil {
			t = &table.Table{}
		}

		printInspect(cmd.OutOrStdout(), inspectFile, t, cfg.Policy())
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "path to a listing file (required)")
	_ = inspectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inspectCmd)
}

func printInspect(w io.Writer, path string, t *table.Table, policy pipeline.Policy) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "File:    %s\n", path)
	p.Fprintf(w, "Rows:    %d\n", t.Len())
	p.Fprintf(w, "Columns: %d\n", len(t.Columns))
	for i, c := range t.Columns {
		p.Fprintf(w, "  %3d  %s\n", i+1, c)
	}

	has := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		has[c] = true
	}
	p.Fprintf(w, "Matching columns:\n")
	p.Fprintf(w, "  beds:        %s\n", found(has, []string{policy.Keys.Beds}))
	p.Fprintf(w, "  subdivision: %s\n", found(has, policy.Keys.Subdivision))
	p.Fprintf(w, "  sqft:        %s\n", found(has, policy.Keys.SQFT))
	p.Fprintf(w, "  price:       %s\n", found(has, []string{policy.PriceField}))
}

// found names the first candidate column present in the header.
func found(has map[string]bool, candidates []string) string {
	for _, c := range candidates {
		if has[c] {
			return c
		}
	}
	return "missing"
}
