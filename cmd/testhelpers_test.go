package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rentcomp/internal/config"
)

const (
	subjectCSV = "MLS #,Current Price,Tax Annual Amount,Beds,Above Grade Finished SQFT,Legal Subdivision\r" +
		"S1,\"$200,000\",\"$2,400\",3,1500,Oakwood\r" +
		"S2,\"$150,000\",\"$1,200\",2,900,Nowhere\r"
	rentalsCSV = "Beds,Above Grade Finished SQFT,Legal Subdivision,Current Price\r" +
		"3,1300,Oakwood,\"$1,800\"\r" +
		"3,1650,Oakwood,\"$1,900\"\r" +
		"3,1700,Oakwood,\"$2,000\"\r"
)

// useTestConfig loads defaults from an empty directory into the global cfg.
func useTestConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(origDir)

	c, err := config.Load()
	require.NoError(t, err)
	cfg = c
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// setFlag sets a flag on cmd and clears it when the test ends.
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	require.NotNil(t, f)
	def := f.DefValue
	require.NoError(t, cmd.Flags().Set(name, value))
	t.Cleanup(func() {
		_ = f.Value.Set(def)
		f.Changed = false
	})
}
