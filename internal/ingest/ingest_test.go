package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/rentcomp/internal/table"
)

func writeText(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func cell(t *testing.T, r *table.Row, col string) string {
	t.Helper()
	v, ok := r.Get(col)
	require.True(t, ok, "missing column %s", col)
	return v.String()
}

func TestLoadFile_Text(t *testing.T) {
	path := writeText(t, t.TempDir(), "subject.csv",
		"Beds,Current Price\r3,\"$200,000\"\r4,\"$310,500\"\r")

	tbl, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beds", "Current Price"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "$200,000", cell(t, tbl.Rows[0], "Current Price"))
	assert.Equal(t, "4", cell(t, tbl.Rows[1], "Beds"))
}

func TestLoadFile_TextSeparator(t *testing.T) {
	path := writeText(t, t.TempDir(), "subject.csv", "Beds,Baths\n3,2\n")

	tbl, err := LoadFile(path, Options{Parse: table.ParseOptions{RecordSeparator: table.SeparatorLF}})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "2", cell(t, tbl.Rows[0], "Baths"))
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeText(t, t.TempDir(), "empty.csv", "  \r\n")

	_, err := LoadFile(path, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrEmptyInput)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest: read file")
}

func TestLoadFile_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Listings": {
			{"Beds", " \"Legal Subdivision\" ", "Current Price"},
			{"3", "Oakwood", "$1,900"},
			{"2", "Maple Ridge", "$1,500"},
		},
	})

	tbl, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beds", "Legal Subdivision", "Current Price"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Oakwood", cell(t, tbl.Rows[0], "Legal Subdivision"))
	assert.Equal(t, "$1,500", cell(t, tbl.Rows[1], "Current Price"))
}

func TestLoadFile_XLSXNamedSheet(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Rentals": {
			{"Beds"},
			{"5"},
		},
	})

	tbl, err := LoadFile(path, Options{Sheet: "Rentals"})
	require.NoError(t, err)
	assert.Equal(t, "5", cell(t, tbl.Rows[0], "Beds"))

	_, err = LoadFile(path, Options{Sheet: "Sales"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Sales" not found`)
}

func TestLoadReferences_Order(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, content := range []string{
		"Beds,Current Price\r1,$1000\r",
		"Beds,Current Price,Legal Subdivision\r2,$2000,Oakwood\r3,$3000,Oakwood\r",
		"Beds\r4\r",
	} {
		paths = append(paths, writeText(t, dir, string(rune('a'+i))+".csv", content))
	}

	tbl, err := LoadReferences(context.Background(), paths, Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beds", "Current Price", "Legal Subdivision"}, tbl.Columns)
	require.Equal(t, 4, tbl.Len())
	for i, want := range []string{"1", "2", "3", "4"} {
		assert.Equal(t, want, cell(t, tbl.Rows[i], "Beds"))
	}
	assert.False(t, tbl.Rows[3].Has("Current Price"))
}

func TestLoadReferences_SkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeText(t, dir, "empty.csv", ""),
		writeText(t, dir, "rentals.csv", "Beds\r3\r"),
	}

	tbl, err := LoadReferences(context.Background(), paths, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoadReferences_MissingFile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeText(t, dir, "rentals.csv", "Beds\r3\r"),
		filepath.Join(dir, "missing.csv"),
	}

	_, err := LoadReferences(context.Background(), paths, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest: load references")
}

func TestLoadReferences_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeText(t, t.TempDir(), "rentals.csv", "Beds\r3\r")
	_, err := LoadReferences(ctx, []string{path}, Options{})
	assert.Error(t, err)
}

func TestLoadReferences_None(t *testing.T) {
	tbl, err := LoadReferences(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestRecordsOf_MissingRowKeepsPosition(t *testing.T) {
	sheet := newSheet(t)
	records := recordsOf([]*xlsx.Row{rowOf(sheet, "Beds"), rowOf(sheet, "3"), nil, rowOf(sheet, "4")})
	assert.Equal(t, [][]string{{"Beds"}, {"3"}, {""}, {"4"}}, records)
}

func TestRecordsOf_BlankRowMatchesText(t *testing.T) {
	fromText, err := LoadFile(writeText(t, t.TempDir(), "listings.csv", "Beds\r3\r\r4\r"), Options{})
	require.NoError(t, err)

	sheet := newSheet(t)
	fromSheet, err := table.FromRecords(recordsOf([]*xlsx.Row{rowOf(sheet, "Beds"), rowOf(sheet, "3"), nil, rowOf(sheet, "4")}))
	require.NoError(t, err)

	require.Equal(t, 3, fromText.Len())
	require.Equal(t, fromText.Len(), fromSheet.Len())
	for i := range fromText.Rows {
		assert.Equal(t, cell(t, fromText.Rows[i], "Beds"), cell(t, fromSheet.Rows[i], "Beds"), "row %d", i)
	}
}

func newSheet(t *testing.T) *xlsx.Sheet {
	t.Helper()
	sheet, err := xlsx.NewFile().AddSheet("Sheet1")
	require.NoError(t, err)
	return sheet
}

func rowOf(sheet *xlsx.Sheet, values ...string) *xlsx.Row {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
	return row
}
