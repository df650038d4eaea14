package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roitools/roical/internal/types"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage reusable assumption templates",
	Long: `Templates are named assumption profiles stored in the database and
usable anywhere a built-in profile name is accepted (--profile).`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		templates, err := store.ListTemplates(ctx)
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No saved templates.")
			return nil
		}

		for _, t := range templates {
			fmt.Printf("  %-24s %s\n", t.Name, t.Description)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's assumptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		template, err := store.GetTemplate(ctx, args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s  %s\n", bold(template.Name), template.Description)
		for _, cat := range types.AllCostCategories() {
			if pct, ok := template.Assumptions.Reductions[cat]; ok {
				fmt.Printf("  %-12s %5.1f%% reduction\n", cat, pct*100)
			}
		}
		if template.Assumptions.RevenueUplift > 0 {
			fmt.Printf("  %-12s %5.1f%%\n", "uplift", template.Assumptions.RevenueUplift*100)
		}
		fmt.Printf("  %-12s %5.1f%%\n", "year-1 ramp", template.Assumptions.RampFactor*100)
		fmt.Printf("  %-12s ±%.0f%%\n", "spread", template.Assumptions.Spread*100)
		return nil
	},
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <file.yaml>",
	Short: "Save a template from a YAML assumptions file",
	Long: `The file holds a single assumptions block:

  name: retail-lean
  description: Retail chains with lean ops already in place
  reductions:
    inventory: 0.12
    overhead: 0.05
  ramp_factor: 0.5
  spread: 0.2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}

		var assumptions types.Assumptions
		if err := yaml.Unmarshal(data, &assumptions); err != nil {
			return fmt.Errorf("failed to parse template file: %w", err)
		}

		now := time.Now().UTC()
		template := &types.Template{
			Name:        assumptions.Name,
			Description: assumptions.Description,
			Assumptions: assumptions,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveTemplate(ctx, template); err != nil {
			return err
		}
		color.Green("Saved template %q", template.Name)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteTemplate(ctx, args[0]); err != nil {
			return err
		}
		color.Green("Deleted template %q", args[0])
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
