// Package export writes pipeline results as CSV, JSON, or XLSX.
package export

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/rentcomp/internal/table"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "rentcomp"

// Type selects an output encoding.
type Type string

// Output encodings.
const (
	TypeCSV  Type = "csv"
	TypeJSON Type = "json"
	TypeXLSX Type = "xlsx"
)

// ParseType resolves a --format value.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeCSV, TypeJSON, TypeXLSX:
		return t, nil
	case "":
		return TypeCSV, nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

// TypeFromPath guesses the encoding from a file extension, falling back to CSV.
func TypeFromPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return TypeJSON
	case ".xlsx":
		return TypeXLSX
	default:
		return TypeCSV
	}
}

// Columns orders the output header: raw columns in first-seen order followed
// by every derived column in pipeline order.
func Columns(t *table.Table, derived []string) []string {
	skip := make(map[string]struct{}, len(derived))
	for _, c := range derived {
		skip[c] = struct{}{}
	}

	var cols []string
	if t != nil {
		for _, c := range t.Columns {
			if _, ok := skip[c]; !ok {
				cols = append(cols, c)
			}
		}
	}
	return append(cols, derived...)
}

// Format renders a cell. Absent cells are empty.
func Format(v table.Value, ok bool) string {
	if !ok {
		return ""
	}
	return v.String()
}

// Write encodes t to w.
func Write(w io.Writer, typ Type, t *table.Table, columns []string) error {
	if t == nil {
		return eris.New("export: nil table")
	}
	if columns == nil {
		columns = t.Columns
	}

	switch typ {
	case TypeCSV, "":
		return CSV(w, t, columns)
	case TypeJSON:
		return JSON(w, t, columns)
	case TypeXLSX:
		return XLSX(w, t, columns)
	default:
		return eris.Errorf("export: unknown format %q", typ)
	}
}

// WriteFile encodes t into a new file at path.
func WriteFile(path string, typ Type, t *table.Table, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}

	if err := Write(f, typ, t, columns); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "export: close file")
}

// CSV writes comma-separated text.
func CSV(w io.Writer, t *table.Table, columns []string) error {
	return eris.Wrap(table.Write(w, t, columns), "export: csv")
}

// JSON writes an array of objects whose keys follow columns. Finite numbers
// are JSON numbers, non-finite numbers are strings and absent cells are null.
func JSON(w io.Writer, t *table.Table, columns []string) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c)
			if err != nil {
				return eris.Wrap(err, "export: json key")
			}
			buf.Write(key)
			buf.WriteByte(':')

			val, err := jsonValue(row, c)
			if err != nil {
				return err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return eris.Wrap(err, "export: write json")
}

func jsonValue(row *table.Row, col string) ([]byte, error) {
	v, ok := row.Get(col)
	var raw any
	switch {
	case !ok:
		raw = nil
	case v.IsFinite():
		raw = v.Num
	default:
		raw = v.String()
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "export: json value %q", col)
	}
	return b, nil
}

// XLSX writes a single worksheet with a header row. Finite numbers become
// numeric cells; everything else is written as text.
func XLSX(w io.Writer, t *table.Table, columns []string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}

	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, c := range columns {
			cell := r.AddCell()
			v, ok := row.Get(c)
			if ok && v.IsFinite() {
				cell.SetFloat(v.Num)
				continue
			}
			cell.SetString(Format(v, ok))
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
