package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/config"
	"github.com/roitools/roical/internal/types"
)

var (
	calcInput      string
	calcName       string
	calcIndustry   string
	calcProfile    string
	calcRevenue    float64
	calcCosts      string
	calcInvestment float64
	calcRecurring  float64
	calcHorizon    int
	calcDiscount   float64
	calcTax        float64
	calcSave       bool
	calcJSON       bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute an ROI projection",
	Long: `Compute a deterministic ROI projection from financial inputs and a
fixed-percentage savings assumption profile.

Inputs come either from a YAML profile file (--input) or from flags:

  roical calc --input warehouse.yaml
  roical calc --name pilot --revenue 2000000 \
      --costs labor=800000,overhead=150000 \
      --investment 250000 --horizon 5 --profile moderate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		scenario, err := buildScenario(ctx)
		if err != nil {
			return err
		}

		proj, err := calc.Project(scenario.Inputs, scenario.Assumptions)
		if err != nil {
			return err
		}
		scenario.Projection = proj

		if calcSave {
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.SaveScenario(ctx, scenario); err != nil {
				return fmt.Errorf("failed to save scenario: %w", err)
			}
		}

		if calcJSON {
			data, err := json.MarshalIndent(scenario, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		renderProjection(scenario)
		if calcSave {
			color.Green("Saved scenario %q (%s)\n", scenario.Name, scenario.ID)
		}
		return nil
	},
}

func init() {
	calcCmd.Flags().StringVarP(&calcInput, "input", "i", "", "YAML profile file with inputs and assumptions")
	calcCmd.Flags().StringVar(&calcName, "name", "", "scenario name (required without --input)")
	calcCmd.Flags().StringVar(&calcIndustry, "industry", string(types.IndustryOther), "industry vertical")
	calcCmd.Flags().StringVar(&calcProfile, "profile", "moderate", "assumption profile: built-in name or saved template")
	calcCmd.Flags().Float64Var(&calcRevenue, "revenue", 0, "annual revenue")
	calcCmd.Flags().StringVar(&calcCosts, "costs", "", "cost breakdown, e.g. labor=500000,inventory=200000")
	calcCmd.Flags().Float64Var(&calcInvestment, "investment", 0, "one-time investment")
	calcCmd.Flags().Float64Var(&calcRecurring, "recurring", 0, "annual recurring program cost")
	calcCmd.Flags().IntVar(&calcHorizon, "horizon", 3, "projection horizon in years")
	calcCmd.Flags().Float64Var(&calcDiscount, "discount", 0.10, "annual discount rate as a fraction")
	calcCmd.Flags().Float64Var(&calcTax, "tax", 0.21, "tax rate as a fraction")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "persist the scenario")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the scenario as JSON instead of a report")
	rootCmd.AddCommand(calcCmd)
}

// buildScenario assembles a scenario from --input or from the individual
// flags. Shared by calc and simulate.
func buildScenario(ctx context.Context) (*types.Scenario, error) {
	now := time.Now().UTC()

	if calcInput != "" {
		profile, err := config.LoadProfile(calcInput)
		if err != nil {
			return nil, err
		}

		assumptions, err := resolveProfileAssumptions(ctx, profile)
		if err != nil {
			return nil, err
		}

		return &types.Scenario{
			ID:          uuid.New().String(),
			Name:        profile.Name,
			Industry:    profile.Industry,
			Notes:       profile.Notes,
			Inputs:      profile.Inputs,
			Assumptions: assumptions,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	}

	if calcName == "" {
		return nil, fmt.Errorf("--name is required without --input")
	}
	if calcCosts == "" {
		return nil, fmt.Errorf("--costs is required without --input")
	}

	breakdown, err := parseCostBreakdown(calcCosts)
	if err != nil {
		return nil, err
	}

	assumptions, err := lookupAssumptions(ctx, calcProfile)
	if err != nil {
		return nil, err
	}

	return &types.Scenario{
		ID:       uuid.New().String(),
		Name:     calcName,
		Industry: types.Industry(calcIndustry),
		Inputs: types.FinancialInputs{
			AnnualRevenue: calcRevenue,
			CostBreakdown: breakdown,
			Investment:    calcInvestment,
			RecurringCost: calcRecurring,
			HorizonYears:  calcHorizon,
			DiscountRate:  calcDiscount,
			TaxRate:       calcTax,
		},
		Assumptions: assumptions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// resolveProfileAssumptions picks a profile file's inline assumptions or
// resolves its named assumption_profile
func resolveProfileAssumptions(ctx context.Context, profile *config.Profile) (types.Assumptions, error) {
	if profile.Assumptions != nil {
		return *profile.Assumptions, nil
	}
	return lookupAssumptions(ctx, profile.AssumptionProfile)
}

// lookupAssumptions resolves a name against the built-in profiles first,
// then against saved templates
func lookupAssumptions(ctx context.Context, name string) (types.Assumptions, error) {
	if assumptions, err := calc.ProfileByName(name); err == nil {
		return assumptions, nil
	}

	store, err := openStore(ctx)
	if err != nil {
		return types.Assumptions{}, err
	}
	defer store.Close()

	template, err := store.GetTemplate(ctx, name)
	if err != nil {
		return types.Assumptions{}, fmt.Errorf("no built-in profile or saved template named %q", name)
	}
	return template.Assumptions, nil
}
