// Package calc implements the deterministic savings model: fixed-percentage
// cost reductions over a multi-year horizon, with ROI, payback, NPV, IRR and
// tax-adjusted figures derived from the resulting cash flows.
package calc

import (
	"fmt"
	"math"

	"github.com/roitools/roical/internal/types"
)

const (
	// irrLow / irrHigh bracket the bisection search for IRR.
	// -99% to 1000% annual covers every projection worth reporting.
	irrLow  = -0.99
	irrHigh = 10.0

	irrTolerance     = 1e-7
	irrMaxIterations = 200
)

// Project runs the savings model and returns the full projection.
// The computation is pure: identical inputs produce identical output.
func Project(inputs types.FinancialInputs, assumptions types.Assumptions) (*types.Projection, error) {
	if err := inputs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}
	if err := assumptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assumptions: %w", err)
	}

	// Full-year savings: reduction percentage applied to each category's
	// current spend. Categories without a configured reduction save nothing.
	var fullSavings float64
	for cat, cost := range inputs.CostBreakdown {
		fullSavings += cost * assumptions.Reductions[cat]
	}
	fullUplift := inputs.AnnualRevenue * assumptions.RevenueUplift

	proj := &types.Projection{
		Years: make([]types.YearCashFlow, 0, inputs.HorizonYears),
	}

	cumulative := -inputs.Investment
	var totalNet, totalAfterTax, npv, afterTaxNPV float64

	for year := 1; year <= inputs.HorizonYears; year++ {
		ramp := 1.0
		if year == 1 {
			ramp = assumptions.RampFactor
		}

		gross := fullSavings * ramp
		uplift := fullUplift * ramp
		net := gross + uplift - inputs.RecurringCost
		afterTax := net * (1 - inputs.TaxRate)

		cumulative += net
		discount := math.Pow(1+inputs.DiscountRate, float64(year))
		discounted := net / discount

		npv += discounted
		afterTaxNPV += afterTax / discount
		totalNet += net
		totalAfterTax += afterTax
		proj.TotalSavings += gross + uplift

		proj.Years = append(proj.Years, types.YearCashFlow{
			Year:            year,
			GrossSavings:    gross,
			UpliftBenefit:   uplift,
			RecurringCost:   inputs.RecurringCost,
			NetBenefit:      net,
			AfterTaxBenefit: afterTax,
			Cumulative:      cumulative,
			Discounted:      discounted,
		})
	}

	proj.NetBenefit = totalNet - inputs.Investment
	proj.ROIPercent = proj.NetBenefit / inputs.Investment * 100
	proj.AfterTaxROIPercent = (totalAfterTax - inputs.Investment) / inputs.Investment * 100
	proj.NPV = npv - inputs.Investment
	proj.AfterTaxNPV = afterTaxNPV - inputs.Investment
	proj.PaybackMonths, proj.PaybackReached = paybackMonths(inputs.Investment, proj.Years)
	proj.IRR, proj.IRRValid = irr(inputs.Investment, proj.Years)

	return proj, nil
}

// paybackMonths returns the number of months until the cumulative pre-tax
// net benefit recovers the investment, interpolating linearly within the
// breakeven year. Payback is conventionally computed on pre-tax operating
// flows.
func paybackMonths(investment float64, years []types.YearCashFlow) (float64, bool) {
	remaining := investment
	for _, y := range years {
		if y.NetBenefit >= remaining && y.NetBenefit > 0 {
			fraction := remaining / y.NetBenefit
			return 12 * (float64(y.Year-1) + fraction), true
		}
		remaining -= y.NetBenefit
	}
	return 0, false
}

// irr finds the annual internal rate of return of the cash flow series by
// bisection. Returns (0, false) when the NPV function has no sign change
// in the bracket, which happens when every flow is positive or every flow
// is negative. Zero rather than NaN keeps projections JSON-serializable.
func irr(investment float64, years []types.YearCashFlow) (float64, bool) {
	npvAt := func(rate float64) float64 {
		v := -investment
		for _, y := range years {
			v += y.NetBenefit / math.Pow(1+rate, float64(y.Year))
		}
		return v
	}

	lo, hi := irrLow, irrHigh
	fLo, fHi := npvAt(lo), npvAt(hi)
	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if fLo*fHi > 0 {
		return 0, false
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(mid)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, true
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}

	return (lo + hi) / 2, true
}
