package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInspect(t *testing.T, path string) (string, error) {
	t.Helper()
	inspectFile = path
	t.Cleanup(func() { inspectFile = "" })

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	t.Cleanup(func() { inspectCmd.SetOut(nil) })

	err := inspectCmd.RunE(inspectCmd, nil)
	return out.String(), err
}

func TestInspectCmd_Subject(t *testing.T) {
	useTestConfig(t)
	path := writeFile(t, t.TempDir(), "sales.csv", subjectCSV)

	out, err := runInspect(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:    2")
	assert.Contains(t, out, "Columns: 6")
	assert.Contains(t, out, "    6  Legal Subdivision")
	assert.Contains(t, out, "  subdivision: Legal Subdivision")
	assert.Contains(t, out, "  sqft:        Above Grade Finished SQFT")
	assert.Contains(t, out, "  price:       Current Price")
}

func TestInspectCmd_MissingColumns(t *testing.T) {
	useTestConfig(t)
	path := writeFile(t, t.TempDir(), "rentals.csv", "Beds,Total SQFT\r3,1200\r")

	out, err := runInspect(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "  sqft:        Total SQFT")
	assert.Contains(t, out, "  subdivision: missing")
}

func TestInspectCmd_LFFileIsOneHeader(t *testing.T) {
	useTestConfig(t)
	path := writeFile(t, t.TempDir(), "lf.csv", "Beds,Baths\n3,2\n")

	out, err := runInspect(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:    0")
}

func TestInspectCmd_Empty(t *testing.T) {
	useTestConfig(t)
	path := writeFile(t, t.TempDir(), "empty.csv", "")

	out, err := runInspect(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:    0")
	assert.Contains(t, out, "Columns: 0")
}

func TestInspectCmd_MissingFile(t *testing.T) {
	useTestConfig(t)

	_, err := runInspect(t, filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspect: load file")
}
