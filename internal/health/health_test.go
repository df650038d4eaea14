package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChecksHealthy(t *testing.T) {
	dir := t.TempDir()
	results := RunChecks(context.Background(), Options{
		DBPath:    filepath.Join(dir, "roical.db"),
		Backend:   "sqlite",
		ExportDir: dir,
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, StatusOK, r.Status, "%s: %s", r.Name, r.Detail)
	}
	assert.False(t, HasFailure(results))
	assert.False(t, HasCriticalFailure(results))
}

func TestRunChecksBadExportDir(t *testing.T) {
	dir := t.TempDir()
	results := RunChecks(context.Background(), Options{
		DBPath:    filepath.Join(dir, "roical.db"),
		Backend:   "sqlite",
		ExportDir: filepath.Join(dir, "does-not-exist"),
	})

	assert.True(t, HasFailure(results))
	// Export dir is not a critical failure
	assert.False(t, HasCriticalFailure(results))
}

func TestRunChecksUnknownBackend(t *testing.T) {
	results := RunChecks(context.Background(), Options{
		Backend:   "mysql",
		ExportDir: t.TempDir(),
	})

	assert.True(t, HasCriticalFailure(results))
}

func TestRunChecksProfile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
version: "1.0"
name: probe
inputs:
  annual_revenue: 100
  cost_breakdown:
    labor: 50
  investment: 10
  horizon_years: 3
  discount_rate: 0.1
  tax_rate: 0.2
assumption_profile: moderate
`), 0644))

	results := RunChecks(context.Background(), Options{
		DBPath:      filepath.Join(dir, "roical.db"),
		Backend:     "sqlite",
		ExportDir:   dir,
		ProfilePath: good,
	})
	require.Len(t, results, 3)
	assert.Equal(t, StatusOK, results[2].Status)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: \"9.0\"\nname: x\n"), 0644))

	results = RunChecks(context.Background(), Options{
		DBPath:      filepath.Join(dir, "roical.db"),
		Backend:     "sqlite",
		ExportDir:   dir,
		ProfilePath: bad,
	})
	assert.Equal(t, StatusFail, results[2].Status)
}
