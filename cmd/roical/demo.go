package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/montecarlo"
	"github.com/roitools/roical/internal/types"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a canned demo scenario end to end",
	Long: `Compute and display a representative manufacturing scenario with both
the deterministic projection and a Monte Carlo simulation. Nothing is
persisted; useful for demos and for sanity-checking an installation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := types.FinancialInputs{
			AnnualRevenue: 12_000_000,
			CostBreakdown: map[types.CostCategory]float64{
				types.CostLabor:     3_500_000,
				types.CostInventory: 1_800_000,
				types.CostOverhead:  900_000,
				types.CostLogistics: 650_000,
			},
			Investment:    1_200_000,
			RecurringCost: 150_000,
			HorizonYears:  5,
			DiscountRate:  0.09,
			TaxRate:       0.21,
		}

		assumptions, err := calc.ProfileByName("moderate")
		if err != nil {
			return err
		}

		proj, err := calc.Project(inputs, assumptions)
		if err != nil {
			return err
		}

		sim, err := montecarlo.Run(cmd.Context(), inputs, assumptions, &montecarlo.Config{
			Iterations: 20_000,
			Seed:       20260824,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		scenario := &types.Scenario{
			ID:          uuid.New().String(),
			Name:        "demo-plant-modernization",
			Industry:    types.IndustryManufacturing,
			Inputs:      inputs,
			Assumptions: assumptions,
			Projection:  proj,
			Simulation:  sim,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		renderProjection(scenario)
		renderSimulation(scenario)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
