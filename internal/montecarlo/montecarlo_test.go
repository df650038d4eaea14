package montecarlo

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/types"
)

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
		Spread:     0.25,
	}
	return inputs, assumptions
}

func TestRunZeroSpreadMatchesDeterministic(t *testing.T) {
	inputs, assumptions := testInputs()
	assumptions.Spread = 0

	proj, err := calc.Project(inputs, assumptions)
	require.NoError(t, err)

	result, err := Run(context.Background(), inputs, assumptions, &Config{
		Iterations: 200,
		Seed:       42,
	})
	require.NoError(t, err)

	// Every draw collapses to the mode, so the distribution degenerates
	assert.InDelta(t, proj.ROIPercent, result.ROI.Mean, 1e-9)
	assert.InDelta(t, proj.ROIPercent, result.ROI.Percentiles.P10, 1e-9)
	assert.InDelta(t, proj.ROIPercent, result.ROI.Percentiles.P90, 1e-9)
	assert.InDelta(t, 0, result.ROI.StdDev, 1e-9)
	assert.InDelta(t, proj.NPV, result.NPV.Median, 1e-6)
}

func TestRunReproducibleWithSeed(t *testing.T) {
	inputs, assumptions := testInputs()
	cfg := &Config{Iterations: 500, Seed: 7, Workers: 4}

	first, err := Run(context.Background(), inputs, assumptions, cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), inputs, assumptions, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.ROI, second.ROI)
	assert.Equal(t, first.NPV, second.NPV)
	assert.Equal(t, first.SuccessProbability, second.SuccessProbability)
}

func TestRunPercentilesOrdered(t *testing.T) {
	inputs, assumptions := testInputs()

	result, err := Run(context.Background(), inputs, assumptions, &Config{
		Iterations: 2_000,
		Seed:       99,
	})
	require.NoError(t, err)

	p := result.ROI.Percentiles
	assert.LessOrEqual(t, p.P10, p.P25)
	assert.LessOrEqual(t, p.P25, p.P50)
	assert.LessOrEqual(t, p.P50, p.P75)
	assert.LessOrEqual(t, p.P75, p.P90)

	assert.GreaterOrEqual(t, result.SuccessProbability, 0.0)
	assert.LessOrEqual(t, result.SuccessProbability, 1.0)
	assert.Equal(t, 2_000, result.Iterations)
}

func TestRunCanceledContext(t *testing.T) {
	inputs, assumptions := testInputs()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, inputs, assumptions, &Config{Iterations: 100_000, Seed: 1})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"too few iterations", Config{Iterations: 50}, true},
		{"too many iterations", Config{Iterations: 2_000_000}, true},
		{"negative workers", Config{Iterations: 1000, Workers: -1}, true},
		{"spread above 1", Config{Iterations: 1000, Spread: 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTriangularBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mode, spread := 0.2, 0.25
	low, high := mode*(1-spread), mode*(1+spread)

	for i := 0; i < 10_000; i++ {
		v := triangular(rng, mode, spread)
		assert.GreaterOrEqual(t, v, low)
		assert.LessOrEqual(t, v, high)
	}
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	sort.Float64s(sorted)

	assert.InDelta(t, 30, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 10, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 50, percentile(sorted, 100), 1e-9)
	// Rank 0.4 between 10 and 20
	assert.InDelta(t, 14, percentile(sorted, 10), 1e-9)
}
