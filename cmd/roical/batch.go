package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/config"
	"github.com/roitools/roical/internal/types"
)

var (
	batchDir       string
	batchParallel  int
	batchWriteRate float64
	batchSave      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a directory of scenario profiles",
	Long: `Load every *.yaml profile in a directory, compute its projection
concurrently, and print a one-line result per scenario. With --save the
results are persisted; writes are rate-limited so a large batch doesn't
hammer a shared database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entries, err := os.ReadDir(batchDir)
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}

		var paths []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
				paths = append(paths, filepath.Join(batchDir, e.Name()))
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("no profile files in %s", batchDir)
		}
		sort.Strings(paths)

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		limiter := rate.NewLimiter(rate.Limit(batchWriteRate), 1)

		type outcome struct {
			path     string
			scenario *types.Scenario
			err      error
		}
		results := make([]outcome, len(paths))
		var mu sync.Mutex

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(batchParallel)

		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				scenario, err := evaluateProfile(path)
				if err == nil && batchSave {
					if werr := limiter.Wait(ctx); werr != nil {
						return werr
					}
					err = store.SaveScenario(ctx, scenario)
				}

				mu.Lock()
				results[i] = outcome{path: path, scenario: scenario, err: err}
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		var failures int
		for _, r := range results {
			name := strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))
			if r.err != nil {
				failures++
				color.Red("✗ %-30s %v", name, r.err)
				continue
			}
			p := r.scenario.Projection
			payback := "payback not reached"
			if p.PaybackReached {
				payback = fmt.Sprintf("payback %.1f mo", p.PaybackMonths)
			}
			fmt.Printf("✓ %-30s ROI %7.1f%%  NPV %12s  %s\n",
				r.scenario.Name, p.ROIPercent, formatMoney(p.NPV), payback)
		}

		fmt.Printf("\n%d evaluated, %d failed\n", len(paths), failures)
		if failures > 0 {
			return fmt.Errorf("%d of %d profiles failed", failures, len(paths))
		}
		return nil
	},
}

// evaluateProfile loads one profile file and computes its projection
func evaluateProfile(path string) (*types.Scenario, error) {
	profile, err := config.LoadProfile(path)
	if err != nil {
		return nil, err
	}

	assumptions := types.Assumptions{}
	if profile.Assumptions != nil {
		assumptions = *profile.Assumptions
	} else {
		assumptions, err = calc.ProfileByName(profile.AssumptionProfile)
		if err != nil {
			return nil, err
		}
	}

	proj, err := calc.Project(profile.Inputs, assumptions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &types.Scenario{
		ID:          uuid.New().String(),
		Name:        profile.Name,
		Industry:    profile.Industry,
		Notes:       profile.Notes,
		Inputs:      profile.Inputs,
		Assumptions: assumptions,
		Projection:  proj,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", ".", "directory of profile YAML files")
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "concurrent evaluations")
	batchCmd.Flags().Float64Var(&batchWriteRate, "write-rate", 50, "maximum scenario saves per second")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist every successful scenario")
	rootCmd.AddCommand(batchCmd)
}
