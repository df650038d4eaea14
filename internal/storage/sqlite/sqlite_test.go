package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roitools/roical/internal/types"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testScenario() *types.Scenario {
	now := time.Now().UTC().Truncate(time.Second)
	return &types.Scenario{
		ID:       uuid.New().String(),
		Name:     "plant-retrofit",
		Industry: types.IndustryManufacturing,
		Notes:    "FY26 retrofit proposal",
		Inputs: types.FinancialInputs{
			AnnualRevenue: 2_000_000,
			CostBreakdown: map[types.CostCategory]float64{
				types.CostLabor:    800_000,
				types.CostOverhead: 150_000,
			},
			Investment:    250_000,
			RecurringCost: 20_000,
			HorizonYears:  5,
			DiscountRate:  0.09,
			TaxRate:       0.21,
		},
		Assumptions: types.Assumptions{
			Name: "moderate",
			Reductions: map[types.CostCategory]float64{
				types.CostLabor:    0.12,
				types.CostOverhead: 0.08,
			},
			RampFactor: 0.5,
			Spread:     0.25,
		},
		Projection: &types.Projection{
			ROIPercent:     42.5,
			NPV:            61_000,
			PaybackMonths:  31.2,
			PaybackReached: true,
			IRR:            0.18,
			IRRValid:       true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestScenarioRoundtrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	scenario := testScenario()
	require.NoError(t, store.SaveScenario(ctx, scenario))

	got, err := store.GetScenario(ctx, scenario.ID)
	require.NoError(t, err)

	assert.Equal(t, scenario.Name, got.Name)
	assert.Equal(t, scenario.Industry, got.Industry)
	assert.Equal(t, scenario.Notes, got.Notes)
	assert.InDelta(t, scenario.Inputs.Investment, got.Inputs.Investment, 1e-9)
	assert.InDelta(t, scenario.Assumptions.Reductions[types.CostLabor],
		got.Assumptions.Reductions[types.CostLabor], 1e-9)
	require.NotNil(t, got.Projection)
	assert.InDelta(t, 42.5, got.Projection.ROIPercent, 1e-9)
	assert.True(t, got.Projection.PaybackReached)
	assert.Nil(t, got.Simulation)
}

func TestGetScenarioByName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	scenario := testScenario()
	require.NoError(t, store.SaveScenario(ctx, scenario))

	got, err := store.GetScenarioByName(ctx, "plant-retrofit")
	require.NoError(t, err)
	assert.Equal(t, scenario.ID, got.ID)

	_, err = store.GetScenarioByName(ctx, "missing")
	assert.Error(t, err)
}

func TestSaveScenarioUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	scenario := testScenario()
	require.NoError(t, store.SaveScenario(ctx, scenario))

	scenario.Notes = "revised"
	scenario.Simulation = &types.SimulationResult{
		Iterations:         1000,
		Seed:               42,
		SuccessProbability: 0.93,
	}
	scenario.UpdatedAt = scenario.UpdatedAt.Add(time.Minute)
	require.NoError(t, store.SaveScenario(ctx, scenario))

	got, err := store.GetScenario(ctx, scenario.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Notes)
	require.NotNil(t, got.Simulation)
	assert.InDelta(t, 0.93, got.Simulation.SuccessProbability, 1e-9)

	scenarios, err := store.ListScenarios(ctx, types.ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, scenarios, 1)
}

func TestListScenariosFilterAndLimit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i, industry := range []types.Industry{
		types.IndustryManufacturing, types.IndustryRetail, types.IndustryRetail,
	} {
		s := testScenario()
		s.ID = uuid.New().String()
		s.Name = s.Name + "-" + string(industry) + "-" + string(rune('a'+i))
		s.Industry = industry
		s.CreatedAt = s.CreatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveScenario(ctx, s))
	}

	retail, err := store.ListScenarios(ctx, types.ScenarioFilter{Industry: types.IndustryRetail})
	require.NoError(t, err)
	assert.Len(t, retail, 2)

	limited, err := store.ListScenarios(ctx, types.ScenarioFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	// Newest first
	assert.Equal(t, types.IndustryRetail, limited[0].Industry)
}

func TestDeleteScenario(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	scenario := testScenario()
	require.NoError(t, store.SaveScenario(ctx, scenario))
	require.NoError(t, store.DeleteScenario(ctx, scenario.ID))

	_, err := store.GetScenario(ctx, scenario.ID)
	assert.Error(t, err)

	err = store.DeleteScenario(ctx, scenario.ID)
	assert.Error(t, err, "deleting a missing scenario should fail")
}

func TestSaveScenarioRejectsInvalid(t *testing.T) {
	store := newTestStorage(t)

	scenario := testScenario()
	scenario.Inputs.Investment = 0

	err := store.SaveScenario(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "investment")
}

func TestTemplateRoundtrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	template := &types.Template{
		Name:        "retail-moderate",
		Description: "Retail defaults tuned down",
		Assumptions: types.Assumptions{
			Name: "retail-moderate",
			Reductions: map[types.CostCategory]float64{
				types.CostInventory: 0.18,
			},
			RampFactor: 0.5,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, store.SaveTemplate(ctx, template))

	got, err := store.GetTemplate(ctx, "retail-moderate")
	require.NoError(t, err)
	assert.Equal(t, template.Description, got.Description)
	assert.InDelta(t, 0.18, got.Assumptions.Reductions[types.CostInventory], 1e-9)

	list, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeleteTemplate(ctx, "retail-moderate"))
	_, err = store.GetTemplate(ctx, "retail-moderate")
	assert.Error(t, err)
}

func TestConfigRoundtrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Schema version is written on open
	version, err := store.GetConfig(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	require.NoError(t, store.SetConfig(ctx, "default_profile", "moderate"))
	value, err := store.GetConfig(ctx, "default_profile")
	require.NoError(t, err)
	assert.Equal(t, "moderate", value)

	// Missing keys come back empty, not as an error
	value, err = store.GetConfig(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, value)

	// Overwrite
	require.NoError(t, store.SetConfig(ctx, "default_profile", "aggressive"))
	value, err = store.GetConfig(ctx, "default_profile")
	require.NoError(t, err)
	assert.Equal(t, "aggressive", value)
}
