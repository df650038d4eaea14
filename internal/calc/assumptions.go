package calc

import (
	"fmt"

	"github.com/roitools/roical/internal/types"
)

// DefaultProfiles returns the predefined assumption profiles.
// Reductions are fractions of each category's annual spend.
func DefaultProfiles() []types.Assumptions {
	return []types.Assumptions{
		{
			Name:        "conservative",
			Description: "Lower-bound savings; assumes partial adoption and no revenue impact",
			Reductions: map[types.CostCategory]float64{
				types.CostLabor:     0.05,
				types.CostInventory: 0.08,
				types.CostOverhead:  0.03,
				types.CostLogistics: 0.04,
			},
			RevenueUplift: 0.0,
			RampFactor:    0.4,
			Spread:        0.30,
		},
		{
			Name:        "moderate",
			Description: "Mid-range savings observed across typical deployments",
			Reductions: map[types.CostCategory]float64{
				types.CostLabor:     0.12,
				types.CostInventory: 0.15,
				types.CostOverhead:  0.08,
				types.CostLogistics: 0.10,
			},
			RevenueUplift: 0.01,
			RampFactor:    0.5,
			Spread:        0.25,
		},
		{
			Name:        "aggressive",
			Description: "Upper-bound savings; assumes full adoption and measurable revenue lift",
			Reductions: map[types.CostCategory]float64{
				types.CostLabor:     0.20,
				types.CostInventory: 0.25,
				types.CostOverhead:  0.12,
				types.CostLogistics: 0.18,
			},
			RevenueUplift: 0.03,
			RampFactor:    0.6,
			Spread:        0.20,
		},
	}
}

// ProfileByName looks up a default profile by name
func ProfileByName(name string) (types.Assumptions, error) {
	for _, p := range DefaultProfiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return types.Assumptions{}, fmt.Errorf("unknown assumption profile: %s (expected conservative, moderate, or aggressive)", name)
}
