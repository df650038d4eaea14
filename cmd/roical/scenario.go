package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/types"
)

var (
	scenarioListIndustry string
	scenarioListLimit    int
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage saved scenarios",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		scenarios, err := store.ListScenarios(ctx, types.ScenarioFilter{
			Industry: types.Industry(scenarioListIndustry),
			Limit:    scenarioListLimit,
		})
		if err != nil {
			return err
		}

		if len(scenarios) == 0 {
			fmt.Println("No saved scenarios.")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s\n", bold(fmt.Sprintf("%-30s %-14s %-10s %-10s %s", "NAME", "INDUSTRY", "ROI", "SIMULATED", "CREATED")))
		for _, s := range scenarios {
			roi := "-"
			if s.Projection != nil {
				roi = fmt.Sprintf("%.1f%%", s.Projection.ROIPercent)
			}
			simulated := "no"
			if s.Simulation != nil {
				simulated = "yes"
			}
			fmt.Printf("%-30s %-14s %-10s %-10s %s\n",
				s.Name, s.Industry, roi, simulated, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved scenario's full report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		scenario, err := store.GetScenarioByName(ctx, args[0])
		if err != nil {
			return err
		}

		renderProjection(scenario)
		renderSimulation(scenario)
		if scenario.Notes != "" {
			fmt.Printf("Notes: %s\n", scenario.Notes)
		}
		return nil
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		scenario, err := store.GetScenarioByName(ctx, args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteScenario(ctx, scenario.ID); err != nil {
			return err
		}

		color.Green("Deleted scenario %q", scenario.Name)
		return nil
	},
}

func init() {
	scenarioListCmd.Flags().StringVar(&scenarioListIndustry, "industry", "", "filter by industry")
	scenarioListCmd.Flags().IntVar(&scenarioListLimit, "limit", 0, "maximum number of scenarios to list")

	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}
