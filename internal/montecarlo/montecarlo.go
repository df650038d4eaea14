// Package montecarlo wraps the deterministic savings model with repeated
// sampling of the reduction assumptions, producing confidence intervals
// for ROI, NPV and payback instead of single point estimates.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/types"
)

// Config controls a Monte Carlo run
type Config struct {
	// Iterations is the number of samples to draw. 100 - 1,000,000.
	Iterations int

	// Seed makes the run reproducible. 0 means seed from the clock.
	Seed int64

	// Spread overrides the profile's spread when positive
	Spread float64

	// Workers caps the number of concurrent workers. 0 means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Iterations: 10_000,
	}
}

// Validate checks if the config has valid field values
func (c *Config) Validate() error {
	if c.Iterations < 100 || c.Iterations > 1_000_000 {
		return fmt.Errorf("iterations must be between 100 and 1000000 (got %d)", c.Iterations)
	}
	if c.Spread < 0 || c.Spread > 1 {
		return fmt.Errorf("spread must be a fraction between 0 and 1 (got %.4f)", c.Spread)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative (got %d)", c.Workers)
	}
	return nil
}

// sample holds the metrics of one iteration
type sample struct {
	roi            float64
	npv            float64
	paybackMonths  float64
	paybackReached bool
}

// Run executes the Monte Carlo simulation. Each iteration perturbs the
// reduction percentages (and revenue uplift) with a triangular draw around
// the profile's value, then runs the deterministic projection. The work is
// split into contiguous chunks, one goroutine per chunk, each with its own
// RNG derived from the seed and chunk index, so a given seed and worker
// count reproduces the run exactly.
func Run(ctx context.Context, inputs types.FinancialInputs, assumptions types.Assumptions, cfg *Config) (*types.SimulationResult, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if err := inputs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}
	if err := assumptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assumptions: %w", err)
	}

	spread := assumptions.Spread
	if cfg.Spread > 0 {
		spread = cfg.Spread
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Iterations {
		workers = cfg.Iterations
	}

	start := time.Now()
	samples := make([]sample, cfg.Iterations)

	g, ctx := errgroup.WithContext(ctx)
	chunkSize := (cfg.Iterations + workers - 1) / workers

	for chunk := 0; chunk < workers; chunk++ {
		lo := chunk * chunkSize
		hi := lo + chunkSize
		if hi > cfg.Iterations {
			hi = cfg.Iterations
		}
		if lo >= hi {
			break
		}

		// Per-chunk RNG keyed by chunk index, not worker scheduling,
		// so the sample sequence is stable for a given seed.
		rng := rand.New(rand.NewSource(seed + int64(chunk)*0x9E3779B9))

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				drawn := perturb(rng, assumptions, spread)
				proj, err := calc.Project(inputs, drawn)
				if err != nil {
					return fmt.Errorf("iteration %d: %w", i, err)
				}

				samples[i] = sample{
					roi:            proj.ROIPercent,
					npv:            proj.NPV,
					paybackMonths:  proj.PaybackMonths,
					paybackReached: proj.PaybackReached,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(samples, cfg.Iterations, seed, spread, time.Since(start)), nil
}

// perturb returns a copy of the assumptions with each reduction (and the
// revenue uplift) replaced by a triangular draw centered on its configured
// value. Draws are clamped to valid fractions.
func perturb(rng *rand.Rand, assumptions types.Assumptions, spread float64) types.Assumptions {
	drawn := assumptions
	drawn.Reductions = make(map[types.CostCategory]float64, len(assumptions.Reductions))

	// Stable iteration order keeps the draw sequence reproducible
	for _, cat := range types.AllCostCategories() {
		mode, ok := assumptions.Reductions[cat]
		if !ok {
			continue
		}
		drawn.Reductions[cat] = clamp(triangular(rng, mode, spread), 0, 1)
	}

	if assumptions.RevenueUplift > 0 {
		drawn.RevenueUplift = clamp(triangular(rng, assumptions.RevenueUplift, spread), 0, 5)
	}

	return drawn
}

// triangular draws from a triangular distribution over
// [mode*(1-spread), mode*(1+spread)] peaked at mode.
func triangular(rng *rand.Rand, mode, spread float64) float64 {
	low := mode * (1 - spread)
	high := mode * (1 + spread)
	if high <= low {
		return mode
	}

	u := rng.Float64()
	c := (mode - low) / (high - low)
	if u < c {
		return low + math.Sqrt(u*(high-low)*(mode-low))
	}
	return high - math.Sqrt((1-u)*(high-low)*(high-mode))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// aggregate reduces the raw samples to reporting statistics
func aggregate(samples []sample, iterations int, seed int64, spread float64, elapsed time.Duration) *types.SimulationResult {
	rois := make([]float64, 0, iterations)
	npvs := make([]float64, 0, iterations)
	paybacks := make([]float64, 0, iterations)

	var successes, reached int
	for _, s := range samples {
		rois = append(rois, s.roi)
		npvs = append(npvs, s.npv)
		if s.roi > 0 {
			successes++
		}
		if s.paybackReached {
			reached++
			paybacks = append(paybacks, s.paybackMonths)
		}
	}

	return &types.SimulationResult{
		Iterations:         iterations,
		Seed:               seed,
		Spread:             spread,
		ROI:                summarize(rois),
		NPV:                summarize(npvs),
		PaybackMonths:      summarize(paybacks),
		SuccessProbability: float64(successes) / float64(iterations),
		PaybackReachedRate: float64(reached) / float64(iterations),
		DurationMs:         elapsed.Milliseconds(),
	}
}

// summarize computes mean, median, standard deviation and the reporting
// percentiles of a sample set. An empty set yields a zero distribution.
func summarize(values []float64) types.Distribution {
	if len(values) == 0 {
		return types.Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	return types.Distribution{
		Mean:   mean,
		Median: percentile(sorted, 50),
		StdDev: math.Sqrt(variance),
		Percentiles: types.Percentiles{
			P10: percentile(sorted, 10),
			P25: percentile(sorted, 25),
			P50: percentile(sorted, 50),
			P75: percentile(sorted, 75),
			P90: percentile(sorted, 90),
		},
	}
}

// percentile interpolates linearly between the closest ranks of a sorted
// sample set
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
