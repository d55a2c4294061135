package table

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// Write serializes t as comma-separated text with CRLF record endings, which
// Parse reads back under every Separator. columns selects and orders the output;
// nil means t.Columns. Absent cells are written empty, so after a round trip
// through Parse a cell that was absent reads back present with an empty string.
func Write(w io.Writer, t *Table, columns []string) error {
	if t == nil {
		return eris.New("table: write nil table")
	}
	if columns == nil {
		columns = t.Columns
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(columns); err != nil {
		return eris.Wrap(err, "table: write header")
	}

	record := make([]string, len(columns))
	for _, row := range t.Rows {
		for i, c := range columns {
			record[i] = ""
			if v, ok := row.Get(c); ok {
				record[i] = v.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "table: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "table: flush")
	}
	return nil
}
