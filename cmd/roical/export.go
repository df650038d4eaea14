package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <scenario-name>",
	Short: "Export a saved scenario to JSON or CSV",
	Long: `Export a saved scenario. JSON produces one file with the complete
scenario; CSV produces a summary, a cash flow table, and (when the
scenario was simulated) a percentile table.

  roical export warehouse-pilot --format csv --output ./reports
  roical export warehouse-pilot --format json --output pilot.json`,
	Args: cobra.ExactArgs(1),
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

		output := exportOutput
		if output == "" {
			output = appCfg.ExportDir
		}

		switch exportFormat {
		case "json":
			path := output
			if filepath.Ext(path) != ".json" {
				path = filepath.Join(output, scenario.Name+".json")
			}
			if err := export.WriteJSON(scenario, path); err != nil {
				return err
			}
			color.Green("Exported %s", path)
		case "csv":
			if err := export.WriteAllCSV(scenario, output); err != nil {
				return err
			}
			color.Green("Exported CSV reports to %s", output)
		default:
			return fmt.Errorf("unknown format: %s (expected json or csv)", exportFormat)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (json) or directory (csv)")
	rootCmd.AddCommand(exportCmd)
}
