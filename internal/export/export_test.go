package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roitools/roical/internal/types"
)

func exportScenario() *types.Scenario {
	now := time.Now().UTC()
	return &types.Scenario{
		ID:       "11111111-2222-3333-4444-555555555555",
		Name:     "dc-consolidation",
		Industry: types.IndustryLogistics,
		Inputs: types.FinancialInputs{
			AnnualRevenue: 3_000_000,
			CostBreakdown: map[types.CostCategory]float64{
				types.CostLogistics: 900_000,
			},
			Investment:   200_000,
			HorizonYears: 3,
			DiscountRate: 0.10,
			TaxRate:      0.25,
		},
		Assumptions: types.Assumptions{
			Name:       "moderate",
			Reductions: map[types.CostCategory]float64{types.CostLogistics: 0.10},
			RampFactor: 0.5,
		},
		Projection: &types.Projection{
			Years: []types.YearCashFlow{
				{Year: 1, GrossSavings: 45_000, NetBenefit: 45_000, AfterTaxBenefit: 33_750, Cumulative: -155_000, Discounted: 40_909.09},
				{Year: 2, GrossSavings: 90_000, NetBenefit: 90_000, AfterTaxBenefit: 67_500, Cumulative: -65_000, Discounted: 74_380.17},
				{Year: 3, GrossSavings: 90_000, NetBenefit: 90_000, AfterTaxBenefit: 67_500, Cumulative: 25_000, Discounted: 67_618.33},
			},
			TotalSavings:   225_000,
			NetBenefit:     25_000,
			ROIPercent:     12.5,
			PaybackMonths:  32.7,
			PaybackReached: true,
			NPV:            -17_092.41,
			IRR:            0.066,
			IRRValid:       true,
		},
		Simulation: &types.SimulationResult{
			Iterations: 1000,
			Seed:       42,
			ROI:        types.Distribution{Percentiles: types.Percentiles{P10: 5, P25: 9, P50: 12.5, P75: 16, P90: 20}},
			NPV:        types.Distribution{Percentiles: types.Percentiles{P10: -40_000, P25: -25_000, P50: -17_000, P75: -8_000, P90: 2_000}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteJSON(t *testing.T) {
	scenario := exportScenario()
	path := filepath.Join(t.TempDir(), "scenario.json")

	require.NoError(t, WriteJSON(scenario, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.Scenario
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, scenario.Name, got.Name)
	require.NotNil(t, got.Projection)
	assert.InDelta(t, 12.5, got.Projection.ROIPercent, 1e-9)
}

func TestWriteSummaryCSV(t *testing.T) {
	scenario := exportScenario()
	path := filepath.Join(t.TempDir(), "summary.csv")

	require.NoError(t, WriteSummaryCSV(scenario, path))

	records := readCSV(t, path)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"Metric", "Value", "Description"}, records[0])

	// Every metric row has the full three columns
	for _, row := range records[1:] {
		assert.Len(t, row, 3)
	}
}

func TestWriteCashFlowCSV(t *testing.T) {
	scenario := exportScenario()
	path := filepath.Join(t.TempDir(), "cashflow.csv")

	require.NoError(t, WriteCashFlowCSV(scenario, path))

	records := readCSV(t, path)
	require.Len(t, records, 4) // header + 3 years
	assert.Equal(t, "Year", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "90000.00", records[2][1])
}

func TestWritePercentileCSV(t *testing.T) {
	scenario := exportScenario()
	path := filepath.Join(t.TempDir(), "percentiles.csv")

	require.NoError(t, WritePercentileCSV(scenario, path))

	records := readCSV(t, path)
	require.Len(t, records, 6) // header + 5 percentiles
	assert.Equal(t, "50th (Median)", records[3][0])
	assert.Equal(t, "12.5%", records[3][1])
}

func TestWriteAllCSV(t *testing.T) {
	scenario := exportScenario()
	dir := filepath.Join(t.TempDir(), "reports")

	require.NoError(t, WriteAllCSV(scenario, dir))

	for _, suffix := range []string{"_summary.csv", "_cashflow.csv", "_percentiles.csv"} {
		_, err := os.Stat(filepath.Join(dir, scenario.Name+suffix))
		assert.NoError(t, err, "expected %s", suffix)
	}
}

func TestWriteAllCSVWithoutSimulation(t *testing.T) {
	scenario := exportScenario()
	scenario.Simulation = nil
	dir := filepath.Join(t.TempDir(), "reports")

	require.NoError(t, WriteAllCSV(scenario, dir))

	_, err := os.Stat(filepath.Join(dir, scenario.Name+"_percentiles.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryCSVRequiresProjection(t *testing.T) {
	scenario := exportScenario()
	scenario.Projection = nil

	err := WriteSummaryCSV(scenario, filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}
