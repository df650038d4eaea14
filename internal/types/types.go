package types

import (
	"fmt"
	"time"
)

// Industry categorizes the business vertical a scenario belongs to.
// It selects which default assumption profile applies.
type Industry string

const (
	IndustryManufacturing Industry = "manufacturing"
	IndustryRetail        Industry = "retail"
	IndustryHealthcare    Industry = "healthcare"
	IndustryLogistics     Industry = "logistics"
	IndustryServices      Industry = "services"
	IndustryOther         Industry = "other"
)

// IsValid checks if the industry value is valid
func (i Industry) IsValid() bool {
	switch i {
	case IndustryManufacturing, IndustryRetail, IndustryHealthcare,
		IndustryLogistics, IndustryServices, IndustryOther:
		return true
	}
	return false
}

// CostCategory names an operating cost bucket that reduction
// assumptions apply to.
type CostCategory string

const (
	CostLabor     CostCategory = "labor"
	CostInventory CostCategory = "inventory"
	CostOverhead  CostCategory = "overhead"
	CostLogistics CostCategory = "logistics"
	CostOther     CostCategory = "other"
)

// AllCostCategories returns the known categories in display order
func AllCostCategories() []CostCategory {
	return []CostCategory{CostLabor, CostInventory, CostOverhead, CostLogistics, CostOther}
}

// IsValid checks if the cost category is one of the known buckets
func (c CostCategory) IsValid() bool {
	switch c {
	case CostLabor, CostInventory, CostOverhead, CostLogistics, CostOther:
		return true
	}
	return false
}

// FinancialInputs holds the raw financial figures a projection is
// computed from. All monetary values are annual USD unless noted.
type FinancialInputs struct {
	// AnnualRevenue is the current top-line revenue
	AnnualRevenue float64 `json:"annual_revenue" yaml:"annual_revenue"`

	// CostBreakdown maps each cost category to its current annual spend
	CostBreakdown map[CostCategory]float64 `json:"cost_breakdown" yaml:"cost_breakdown"`

	// Investment is the one-time up-front cost of the initiative
	Investment float64 `json:"investment" yaml:"investment"`

	// RecurringCost is the ongoing annual cost of running the initiative
	// (licenses, support, program staff). Netted against savings each year.
	RecurringCost float64 `json:"recurring_cost" yaml:"recurring_cost"`

	// HorizonYears is the projection horizon. 1-30.
	HorizonYears int `json:"horizon_years" yaml:"horizon_years"`

	// DiscountRate is the annual rate used for NPV, as a fraction (0.10 = 10%)
	DiscountRate float64 `json:"discount_rate" yaml:"discount_rate"`

	// TaxRate is the marginal tax rate applied to benefits, as a fraction
	TaxRate float64 `json:"tax_rate" yaml:"tax_rate"`
}

// TotalOperatingCost sums the cost breakdown
func (f *FinancialInputs) TotalOperatingCost() float64 {
	var total float64
	for _, cost := range f.CostBreakdown {
		total += cost
	}
	return total
}

// Validate checks if the inputs have valid field values
func (f *FinancialInputs) Validate() error {
	if f.AnnualRevenue < 0 {
		return fmt.Errorf("annual_revenue cannot be negative (got %.2f)", f.AnnualRevenue)
	}
	if len(f.CostBreakdown) == 0 {
		return fmt.Errorf("cost_breakdown is required")
	}
	for cat, cost := range f.CostBreakdown {
		if !cat.IsValid() {
			return fmt.Errorf("unknown cost category: %s", cat)
		}
		if cost < 0 {
			return fmt.Errorf("cost for category %s cannot be negative (got %.2f)", cat, cost)
		}
	}
	if f.Investment <= 0 {
		return fmt.Errorf("investment must be positive (got %.2f): ROI is undefined without an investment", f.Investment)
	}
	if f.RecurringCost < 0 {
		return fmt.Errorf("recurring_cost cannot be negative (got %.2f)", f.RecurringCost)
	}
	if f.HorizonYears < 1 || f.HorizonYears > 30 {
		return fmt.Errorf("horizon_years must be between 1 and 30 (got %d)", f.HorizonYears)
	}
	if f.DiscountRate < 0 || f.DiscountRate > 1 {
		return fmt.Errorf("discount_rate must be a fraction between 0 and 1 (got %.4f)", f.DiscountRate)
	}
	if f.TaxRate < 0 || f.TaxRate >= 1 {
		return fmt.Errorf("tax_rate must be a fraction in [0, 1) (got %.4f)", f.TaxRate)
	}
	return nil
}

// Assumptions holds the fixed-percentage savings model parameters.
// All percentages are fractions: 0.15 means 15%.
type Assumptions struct {
	// Name identifies the profile (e.g. "moderate")
	Name string `json:"name" yaml:"name"`

	// Description is a one-line summary of what the profile models
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Reductions maps each cost category to the fraction of its annual
	// spend the initiative is assumed to eliminate
	Reductions map[CostCategory]float64 `json:"reductions" yaml:"reductions"`

	// RevenueUplift is the fraction of annual revenue gained per year
	RevenueUplift float64 `json:"revenue_uplift" yaml:"revenue_uplift"`

	// RampFactor is the fraction of full savings realized in year 1.
	// Later years realize the full amount.
	RampFactor float64 `json:"ramp_factor" yaml:"ramp_factor"`

	// Spread is the relative half-width of the triangular distribution
	// used when sampling reductions in a Monte Carlo run. 0.25 means
	// each draw falls in [mode*0.75, mode*1.25].
	Spread float64 `json:"spread" yaml:"spread"`
}

// Validate checks if the assumptions have valid field values
func (a *Assumptions) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("assumption profile name is required")
	}
	if len(a.Reductions) == 0 {
		return fmt.Errorf("at least one cost reduction is required")
	}
	for cat, pct := range a.Reductions {
		if !cat.IsValid() {
			return fmt.Errorf("unknown cost category in reductions: %s", cat)
		}
		if pct < 0 || pct > 1 {
			return fmt.Errorf("reduction for %s must be a fraction between 0 and 1 (got %.4f)", cat, pct)
		}
	}
	if a.RevenueUplift < 0 || a.RevenueUplift > 5 {
		return fmt.Errorf("revenue_uplift must be between 0 and 5 (got %.4f)", a.RevenueUplift)
	}
	if a.RampFactor < 0 || a.RampFactor > 1 {
		return fmt.Errorf("ramp_factor must be a fraction between 0 and 1 (got %.4f)", a.RampFactor)
	}
	if a.Spread < 0 || a.Spread > 1 {
		return fmt.Errorf("spread must be a fraction between 0 and 1 (got %.4f)", a.Spread)
	}
	return nil
}

// YearCashFlow is one year of the projection
type YearCashFlow struct {
	Year            int     `json:"year"`
	GrossSavings    float64 `json:"gross_savings"`     // cost reductions realized this year
	UpliftBenefit   float64 `json:"uplift_benefit"`    // revenue uplift realized this year
	RecurringCost   float64 `json:"recurring_cost"`    // annual program cost
	NetBenefit      float64 `json:"net_benefit"`       // pre-tax net inflow
	AfterTaxBenefit float64 `json:"after_tax_benefit"` // net inflow after tax
	Cumulative      float64 `json:"cumulative"`        // running pre-tax net, investment subtracted at t=0
	Discounted      float64 `json:"discounted"`        // pre-tax net discounted to present value
}

// Projection is the deterministic output of the savings model
type Projection struct {
	Years []YearCashFlow `json:"years"`

	TotalSavings       float64 `json:"total_savings"`         // gross savings + uplift over the horizon
	NetBenefit         float64 `json:"net_benefit"`           // pre-tax, net of recurring costs and investment
	ROIPercent         float64 `json:"roi_percent"`           // NetBenefit / Investment * 100
	AfterTaxROIPercent float64 `json:"after_tax_roi_percent"` // same, on after-tax flows
	PaybackMonths      float64 `json:"payback_months"`        // months until cumulative pre-tax net turns positive
	PaybackReached     bool    `json:"payback_reached"`       // false when investment never recovered in the horizon
	NPV                float64 `json:"npv"`                   // pre-tax, at the configured discount rate
	AfterTaxNPV        float64 `json:"after_tax_npv"`
	IRR                float64 `json:"irr"`       // annual internal rate of return, as a fraction
	IRRValid           bool    `json:"irr_valid"` // false when no sign change exists in the bracket
}

// Percentiles holds the standard reporting percentiles of a sampled metric
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Distribution summarizes the samples of one metric across a Monte Carlo run
type Distribution struct {
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	StdDev      float64     `json:"std_dev"`
	Percentiles Percentiles `json:"percentiles"`
}

// SimulationResult is the output of a Monte Carlo run over the savings model
type SimulationResult struct {
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
	Spread     float64 `json:"spread"`

	ROI           Distribution `json:"roi"`            // ROI percent samples
	NPV           Distribution `json:"npv"`            // pre-tax NPV samples
	PaybackMonths Distribution `json:"payback_months"` // only iterations that reached payback

	// SuccessProbability is the fraction of iterations with positive net benefit
	SuccessProbability float64 `json:"success_probability"`

	// PaybackReachedRate is the fraction of iterations that recovered the
	// investment within the horizon
	PaybackReachedRate float64 `json:"payback_reached_rate"`

	DurationMs int64 `json:"duration_ms"`
}

// Scenario is a persisted assessment: the inputs, the assumptions used,
// and the computed results
type Scenario struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Industry    Industry          `json:"industry"`
	Notes       string            `json:"notes,omitempty"`
	Inputs      FinancialInputs   `json:"inputs"`
	Assumptions Assumptions       `json:"assumptions"`
	Projection  *Projection       `json:"projection,omitempty"`
	Simulation  *SimulationResult `json:"simulation,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Validate checks if the scenario has valid field values
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Name) > 200 {
		return fmt.Errorf("scenario name must be 200 characters or less (got %d)", len(s.Name))
	}
	if !s.Industry.IsValid() {
		return fmt.Errorf("invalid industry: %s", s.Industry)
	}
	if err := s.Inputs.Validate(); err != nil {
		return fmt.Errorf("invalid inputs: %w", err)
	}
	if err := s.Assumptions.Validate(); err != nil {
		return fmt.Errorf("invalid assumptions: %w", err)
	}
	return nil
}

// Template is a named, reusable assumption profile
type Template struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Assumptions Assumptions `json:"assumptions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate checks if the template has valid field values
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if err := t.Assumptions.Validate(); err != nil {
		return fmt.Errorf("invalid assumptions: %w", err)
	}
	return nil
}

// ScenarioFilter narrows ListScenarios results
type ScenarioFilter struct {
	Industry Industry // empty matches all
	Limit    int      // 0 means no limit
}
