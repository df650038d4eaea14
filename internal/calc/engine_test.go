package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roitools/roical/internal/types"
)

// testInputs returns a hand-checkable scenario:
// full-year savings = 500k*0.10 + 200k*0.20 + 100k*0.05 = 95,000
// year 1 net = 95,000*0.5 - 10,000 = 37,500
// years 2..3 net = 95,000 - 10,000 = 85,000
func testInputs() (types.FinancialInputs, types.Assumptions) {
	inputs := types.FinancialInputs{
		AnnualRevenue: 1_000_000,
		CostBreakdown: map[types.CostCategory]float64{
			types.CostLabor:     500_000,
			types.CostInventory: 200_000,
			types.CostOverhead:  100_000,
		},
		Investment:    150_000,
		RecurringCost: 10_000,
		HorizonYears:  3,
		DiscountRate:  0.10,
		TaxRate:       0.25,
	}
	assumptions := types.Assumptions{
		Name: "test",
		Reductions: map[types.CostCategory]float64{
			types.CostLabor:     0.10,
			types.CostInventory: 0.20,
			types.CostOverhead:  0.05,
		},
		RampFactor: 0.5,
	}
	return inputs, assumptions
}

func TestProjectKnownValues(t *testing.T) {
	inputs, assumptions := testInputs()

	proj, err := Project(inputs, assumptions)
	require.NoError(t, err)
	require.Len(t, proj.Years, 3)

	assert.InDelta(t, 37_500, proj.Years[0].NetBenefit, 0.01)
	assert.InDelta(t, 85_000, proj.Years[1].NetBenefit, 0.01)
	assert.InDelta(t, 85_000, proj.Years[2].NetBenefit, 0.01)

	// Total net = 207,500; minus 150k investment = 57,500
	assert.InDelta(t, 57_500, proj.NetBenefit, 0.01)
	assert.InDelta(t, 57_500.0/150_000*100, proj.ROIPercent, 0.001)

	// After-tax flows are 75% of pre-tax: 155,625 total
	assert.InDelta(t, (155_625.0-150_000)/150_000*100, proj.AfterTaxROIPercent, 0.001)

	// NPV = -150000 + 37500/1.1 + 85000/1.21 + 85000/1.331
	assert.InDelta(t, 18_200.601, proj.NPV, 0.01)
	assert.InDelta(t, 0.75*168_200.601-150_000, proj.AfterTaxNPV, 0.01)

	// Cumulative after year 2 is -27,500; year 3 inflow of 85,000 closes it
	// at 27,500/85,000 of the year: 24 + 3.88 months
	require.True(t, proj.PaybackReached)
	assert.InDelta(t, 12*(2+27_500.0/85_000), proj.PaybackMonths, 0.001)

	// NPV(0.15) > 0 and NPV(0.16) < 0, so the IRR sits between
	require.True(t, proj.IRRValid)
	assert.Greater(t, proj.IRR, 0.15)
	assert.Less(t, proj.IRR, 0.16)
}

func TestProjectDeterministic(t *testing.T) {
	inputs, assumptions := testInputs()

	first, err := Project(inputs, assumptions)
	require.NoError(t, err)
	second, err := Project(inputs, assumptions)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProjectPaybackNeverReached(t *testing.T) {
	inputs, assumptions := testInputs()
	inputs.Investment = 10_000_000

	proj, err := Project(inputs, assumptions)
	require.NoError(t, err)

	assert.False(t, proj.PaybackReached)
	assert.Zero(t, proj.PaybackMonths)
	assert.Negative(t, proj.ROIPercent)
	assert.Negative(t, proj.NPV)
}

func TestProjectIRRInvalidWhenAllFlowsNegative(t *testing.T) {
	inputs, assumptions := testInputs()
	// Recurring cost swamps savings in every year: no sign change, no IRR
	inputs.RecurringCost = 500_000

	proj, err := Project(inputs, assumptions)
	require.NoError(t, err)

	assert.False(t, proj.IRRValid)
	assert.Zero(t, proj.IRR)
}

func TestProjectZeroDiscountRate(t *testing.T) {
	inputs, assumptions := testInputs()
	inputs.DiscountRate = 0

	proj, err := Project(inputs, assumptions)
	require.NoError(t, err)

	// With no discounting, NPV equals the undiscounted net benefit
	assert.InDelta(t, proj.NetBenefit, proj.NPV, 0.001)
}

func TestProjectRejectsInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.FinancialInputs, *types.Assumptions)
	}{
		{"zero investment", func(f *types.FinancialInputs, _ *types.Assumptions) { f.Investment = 0 }},
		{"negative cost", func(f *types.FinancialInputs, _ *types.Assumptions) {
			f.CostBreakdown[types.CostLabor] = -1
		}},
		{"horizon too long", func(f *types.FinancialInputs, _ *types.Assumptions) { f.HorizonYears = 31 }},
		{"tax rate of 100%", func(f *types.FinancialInputs, _ *types.Assumptions) { f.TaxRate = 1.0 }},
		{"reduction above 100%", func(_ *types.FinancialInputs, a *types.Assumptions) {
			a.Reductions[types.CostLabor] = 1.5
		}},
		{"unnamed profile", func(_ *types.FinancialInputs, a *types.Assumptions) { a.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, assumptions := testInputs()
			tt.mutate(&inputs, &assumptions)
			_, err := Project(inputs, assumptions)
			assert.Error(t, err)
		})
	}
}

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()
	require.Len(t, profiles, 3)

	for _, p := range profiles {
		require.NoError(t, p.Validate(), "profile %s", p.Name)
	}

	// Profiles are ordered by aggressiveness of labor reduction
	assert.Less(t, profiles[0].Reductions[types.CostLabor], profiles[1].Reductions[types.CostLabor])
	assert.Less(t, profiles[1].Reductions[types.CostLabor], profiles[2].Reductions[types.CostLabor])
}

func TestProfileByName(t *testing.T) {
	p, err := ProfileByName("moderate")
	require.NoError(t, err)
	assert.Equal(t, "moderate", p.Name)

	_, err = ProfileByName("reckless")
	assert.Error(t, err)
}
