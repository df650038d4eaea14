package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roitools/roical/internal/types"
)

const validProfileYAML = `
version: "1.0"
name: warehouse-automation
industry: logistics
inputs:
  annual_revenue: 5000000
  cost_breakdown:
    labor: 1200000
    logistics: 800000
    overhead: 300000
  investment: 400000
  recurring_cost: 50000
  horizon_years: 5
  discount_rate: 0.08
  tax_rate: 0.21
assumptions:
  name: custom
  reductions:
    labor: 0.15
    logistics: 0.12
  ramp_factor: 0.5
  spread: 0.2
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(writeProfile(t, validProfileYAML))
	require.NoError(t, err)

	assert.Equal(t, "warehouse-automation", p.Name)
	assert.Equal(t, types.IndustryLogistics, p.Industry)
	assert.Equal(t, 5, p.Inputs.HorizonYears)
	require.NotNil(t, p.Assumptions)
	assert.InDelta(t, 0.15, p.Assumptions.Reductions[types.CostLabor], 1e-9)
}

func TestLoadProfileRejectsUnsupportedMajor(t *testing.T) {
	content := strings.Replace(validProfileYAML, `version: "1.0"`, `version: "2.0"`, 1)

	_, err := LoadProfile(writeProfile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestLoadProfileMissingVersion(t *testing.T) {
	_, err := LoadProfile(writeProfile(t, "name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version is required")
}

func TestLoadProfileRequiresAssumptions(t *testing.T) {
	content := `
version: "1.0"
name: bare
inputs:
  annual_revenue: 100
  cost_breakdown:
    labor: 50
  investment: 10
  horizon_years: 3
  discount_rate: 0.1
  tax_rate: 0.2
`
	_, err := LoadProfile(writeProfile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assumption")
}

func TestLoadProfileDefaultsIndustry(t *testing.T) {
	content := `
version: "1.0"
name: no-industry
inputs:
  annual_revenue: 100
  cost_breakdown:
    labor: 50
  investment: 10
  horizon_years: 3
  discount_rate: 0.1
  tax_rate: 0.2
assumption_profile: moderate
`
	p, err := LoadProfile(writeProfile(t, content))
	require.NoError(t, err)
	assert.Equal(t, types.IndustryOther, p.Industry)
	assert.Equal(t, "moderate", p.AssumptionProfile)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROICAL_DB", "/tmp/custom.db")
	t.Setenv("ROICAL_BACKEND", "postgres")
	t.Setenv("ROICAL_POSTGRES_URL", "postgres://localhost/roical")
	t.Setenv("ROICAL_ITERATIONS", "5000")

	cfg := LoadFromEnv()
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "postgres", cfg.Backend)
	assert.Equal(t, 5000, cfg.DefaultIterations)
	assert.NoError(t, cfg.Validate())
}

func TestAppConfigValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Backend = "mysql"
	assert.Error(t, cfg.Validate())

	cfg.Backend = "postgres"
	cfg.PostgresURL = ""
	assert.Error(t, cfg.Validate())
}
