// Package export renders computed scenarios to JSON and CSV files for
// downstream spreadsheets and reporting tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roitools/roical/internal/types"
)

// WriteJSON writes the full scenario (inputs, assumptions, results) as
// indented JSON
func WriteJSON(scenario *types.Scenario, outputPath string) error {
	data, err := json.MarshalIndent(scenario, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// WriteSummaryCSV writes the aggregate metrics as metric/value/description rows
func WriteSummaryCSV(scenario *types.Scenario, outputPath string) error {
	proj := scenario.Projection
	if proj == nil {
		return fmt.Errorf("scenario %s has no projection to export", scenario.Name)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Metric", "Value", "Description"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	payback := "not reached within horizon"
	if proj.PaybackReached {
		payback = fmt.Sprintf("%.1f months", proj.PaybackMonths)
	}
	irr := "not computable"
	if proj.IRRValid {
		irr = fmt.Sprintf("%.2f%%", proj.IRR*100)
	}

	rows := [][]string{
		{"Scenario", scenario.Name, "Scenario name"},
		{"Industry", string(scenario.Industry), "Business vertical"},
		{"Assumption Profile", scenario.Assumptions.Name, "Savings assumptions applied"},
		{"Total Investment", fmt.Sprintf("$%.0f", scenario.Inputs.Investment), "One-time up-front cost"},
		{"Total Savings", fmt.Sprintf("$%.0f", proj.TotalSavings), "Gross savings plus uplift over the horizon"},
		{"Net Benefit", fmt.Sprintf("$%.0f", proj.NetBenefit), "Pre-tax net of recurring costs and investment"},
		{"ROI", fmt.Sprintf("%.1f%%", proj.ROIPercent), "Net benefit over investment"},
		{"After-Tax ROI", fmt.Sprintf("%.1f%%", proj.AfterTaxROIPercent), "ROI on after-tax cash flows"},
		{"Payback Period", payback, "Time until the investment is recovered"},
		{"NPV", fmt.Sprintf("$%.0f", proj.NPV), fmt.Sprintf("Net present value at %.1f%% discount rate", scenario.Inputs.DiscountRate*100)},
		{"After-Tax NPV", fmt.Sprintf("$%.0f", proj.AfterTaxNPV), "NPV on after-tax cash flows"},
		{"IRR", irr, "Internal rate of return"},
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	return nil
}

// WriteCashFlowCSV writes the year-by-year cash flow table
func WriteCashFlowCSV(scenario *types.Scenario, outputPath string) error {
	proj := scenario.Projection
	if proj == nil {
		return fmt.Errorf("scenario %s has no projection to export", scenario.Name)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Year",
		"GrossSavings",
		"UpliftBenefit",
		"RecurringCost",
		"NetBenefit",
		"AfterTaxBenefit",
		"Cumulative",
		"Discounted",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, y := range proj.Years {
		row := []string{
			strconv.Itoa(y.Year),
			fmt.Sprintf("%.2f", y.GrossSavings),
			fmt.Sprintf("%.2f", y.UpliftBenefit),
			fmt.Sprintf("%.2f", y.RecurringCost),
			fmt.Sprintf("%.2f", y.NetBenefit),
			fmt.Sprintf("%.2f", y.AfterTaxBenefit),
			fmt.Sprintf("%.2f", y.Cumulative),
			fmt.Sprintf("%.2f", y.Discounted),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write cash flow row: %w", err)
		}
	}
	return nil
}

// WritePercentileCSV writes the Monte Carlo percentile analysis
func WritePercentileCSV(scenario *types.Scenario, outputPath string) error {
	sim := scenario.Simulation
	if sim == nil {
		return fmt.Errorf("scenario %s has no simulation to export", scenario.Name)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Percentile", "ROI", "NPV", "Interpretation"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rows := [][]string{
		{"10th", fmt.Sprintf("%.1f%%", sim.ROI.Percentiles.P10), fmt.Sprintf("$%.0f", sim.NPV.Percentiles.P10), "Worst 10% of outcomes"},
		{"25th", fmt.Sprintf("%.1f%%", sim.ROI.Percentiles.P25), fmt.Sprintf("$%.0f", sim.NPV.Percentiles.P25), "Below average outcomes"},
		{"50th (Median)", fmt.Sprintf("%.1f%%", sim.ROI.Percentiles.P50), fmt.Sprintf("$%.0f", sim.NPV.Percentiles.P50), "Typical outcome"},
		{"75th", fmt.Sprintf("%.1f%%", sim.ROI.Percentiles.P75), fmt.Sprintf("$%.0f", sim.NPV.Percentiles.P75), "Above average outcomes"},
		{"90th", fmt.Sprintf("%.1f%%", sim.ROI.Percentiles.P90), fmt.Sprintf("$%.0f", sim.NPV.Percentiles.P90), "Best 10% of outcomes"},
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write percentile row: %w", err)
		}
	}
	return nil
}

// WriteAllCSV writes every applicable CSV report into a directory, named
// after the scenario. The percentile report is skipped when the scenario
// was never simulated.
func WriteAllCSV(scenario *types.Scenario, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(outputDir, scenario.Name)

	if err := WriteSummaryCSV(scenario, base+"_summary.csv"); err != nil {
		return fmt.Errorf("failed to generate summary CSV: %w", err)
	}
	if err := WriteCashFlowCSV(scenario, base+"_cashflow.csv"); err != nil {
		return fmt.Errorf("failed to generate cash flow CSV: %w", err)
	}
	if scenario.Simulation != nil {
		if err := WritePercentileCSV(scenario, base+"_percentiles.csv"); err != nil {
			return fmt.Errorf("failed to generate percentile CSV: %w", err)
		}
	}
	return nil
}
