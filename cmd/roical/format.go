package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/roitools/roical/internal/types"
)

// formatMoney formats a dollar amount with thousands separators,
// e.g. 1234567.8 -> "$1,234,568"
func formatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := strconv.FormatInt(int64(amount+0.5), 10)
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// renderProbabilityBar renders a text-based bar for a 0..1 probability
func renderProbabilityBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	filled := int(p * float64(width))

	var barColor *color.Color
	switch {
	case p >= 0.8:
		barColor = color.New(color.FgGreen)
	case p >= 0.5:
		barColor = color.New(color.FgYellow)
	default:
		barColor = color.New(color.FgRed)
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += barColor.Sprint("█")
		} else {
			bar += color.New(color.FgHiBlack).Sprint("░")
		}
	}
	return fmt.Sprintf("[%s]", bar)
}

// parseCostBreakdown parses "labor=500000,inventory=200000" into a
// category map
func parseCostBreakdown(s string) (map[types.CostCategory]float64, error) {
	breakdown := make(map[types.CostCategory]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cost entry %q (expected category=amount)", pair)
		}
		cat := types.CostCategory(strings.TrimSpace(parts[0]))
		if !cat.IsValid() {
			return nil, fmt.Errorf("unknown cost category %q (expected one of %v)", parts[0], types.AllCostCategories())
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %w", cat, err)
		}
		breakdown[cat] = amount
	}
	if len(breakdown) == 0 {
		return nil, fmt.Errorf("no cost entries in %q", s)
	}
	return breakdown, nil
}

// renderProjection prints the full projection report
func renderProjection(scenario *types.Scenario) {
	proj := scenario.Projection
	if proj == nil {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== ROI Projection: "+scenario.Name+" ==="))

	fmt.Printf("%s\n", yellow("Inputs:"))
	fmt.Printf("  Revenue:      %s/yr\n", formatMoney(scenario.Inputs.AnnualRevenue))
	fmt.Printf("  Op. costs:    %s/yr\n", formatMoney(scenario.Inputs.TotalOperatingCost()))
	fmt.Printf("  Investment:   %s\n", formatMoney(scenario.Inputs.Investment))
	if scenario.Inputs.RecurringCost > 0 {
		fmt.Printf("  Recurring:    %s/yr\n", formatMoney(scenario.Inputs.RecurringCost))
	}
	fmt.Printf("  Horizon:      %d years   Discount: %.1f%%   Tax: %.1f%%\n",
		scenario.Inputs.HorizonYears,
		scenario.Inputs.DiscountRate*100,
		scenario.Inputs.TaxRate*100)
	fmt.Printf("  Assumptions:  %s\n\n", scenario.Assumptions.Name)

	fmt.Printf("%s\n", yellow("Cash flow:"))
	fmt.Printf("  %-6s %14s %14s %14s %14s\n", "Year", "Savings", "Net", "After-tax", "Cumulative")
	for _, y := range proj.Years {
		fmt.Printf("  %-6d %14s %14s %14s %14s\n",
			y.Year,
			formatMoney(y.GrossSavings+y.UpliftBenefit),
			formatMoney(y.NetBenefit),
			formatMoney(y.AfterTaxBenefit),
			formatMoney(y.Cumulative))
	}
	fmt.Println()

	fmt.Printf("%s\n", yellow("Results:"))
	roiColor := color.New(color.FgGreen)
	if proj.ROIPercent < 0 {
		roiColor = color.New(color.FgRed)
	}
	fmt.Printf("  ROI:          %s (after tax: %.1f%%)\n",
		roiColor.Sprintf("%.1f%%", proj.ROIPercent), proj.AfterTaxROIPercent)
	fmt.Printf("  Net benefit:  %s\n", formatMoney(proj.NetBenefit))
	fmt.Printf("  NPV:          %s (after tax: %s)\n", formatMoney(proj.NPV), formatMoney(proj.AfterTaxNPV))
	if proj.PaybackReached {
		fmt.Printf("  Payback:      %.1f months\n", proj.PaybackMonths)
	} else {
		fmt.Printf("  Payback:      not reached within %d years\n", scenario.Inputs.HorizonYears)
	}
	if proj.IRRValid {
		fmt.Printf("  IRR:          %.1f%%\n", proj.IRR*100)
	} else {
		fmt.Printf("  IRR:          not computable (no breakeven in range)\n")
	}
	fmt.Println()
}

// renderSimulation prints the Monte Carlo distribution report
func renderSimulation(scenario *types.Scenario) {
	sim := scenario.Simulation
	if sim == nil {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Monte Carlo: "+scenario.Name+" ==="))
	fmt.Printf("  Iterations: %d   Seed: %d   Spread: ±%.0f%%   (%d ms)\n\n",
		sim.Iterations, sim.Seed, sim.Spread*100, sim.DurationMs)

	fmt.Printf("%s\n", yellow("ROI distribution:"))
	fmt.Printf("  Mean: %.1f%%   Median: %.1f%%   StdDev: %.1f\n",
		sim.ROI.Mean, sim.ROI.Median, sim.ROI.StdDev)
	fmt.Printf("  P10: %.1f%%   P25: %.1f%%   P50: %.1f%%   P75: %.1f%%   P90: %.1f%%\n\n",
		sim.ROI.Percentiles.P10, sim.ROI.Percentiles.P25, sim.ROI.Percentiles.P50,
		sim.ROI.Percentiles.P75, sim.ROI.Percentiles.P90)

	fmt.Printf("%s\n", yellow("NPV distribution:"))
	fmt.Printf("  Mean: %s   Median: %s\n", formatMoney(sim.NPV.Mean), formatMoney(sim.NPV.Median))
	fmt.Printf("  P10: %s   P90: %s\n\n", formatMoney(sim.NPV.Percentiles.P10), formatMoney(sim.NPV.Percentiles.P90))

	fmt.Printf("  Positive ROI:   %5.1f%%  %s\n",
		sim.SuccessProbability*100, renderProbabilityBar(sim.SuccessProbability, 30))
	fmt.Printf("  Payback within: %5.1f%%  %s\n",
		sim.PaybackReachedRate*100, renderProbabilityBar(sim.PaybackReachedRate, 30))
	if sim.PaybackReachedRate > 0 {
		fmt.Printf("  Median payback: %.1f months\n", sim.PaybackMonths.Median)
	}
	fmt.Println()
}
