// Command roical is a business-case ROI calculator: it takes revenue,
// operating costs and a one-time investment, applies fixed-percentage
// reduction assumptions, and produces financial projections (ROI, payback,
// NPV/IRR, tax-adjusted figures) with optional Monte Carlo confidence
// intervals. Scenarios persist to SQLite (or PostgreSQL) and export to
// JSON/CSV.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/config"
	"github.com/roitools/roical/internal/storage"
)

var (
	appCfg *config.AppConfig

	// Flags that override environment configuration
	dbPath  string
	backend string
)

var rootCmd = &cobra.Command{
	Use:   "roical",
	Short: "Business-case ROI calculator",
	Long: `roical computes financial projections for cost-reduction initiatives:
ROI, payback period, NPV, IRR and tax-adjusted figures, from a small set
of inputs and fixed-percentage savings assumptions. Results can be
simulated (Monte Carlo), saved as scenarios, and exported to JSON/CSV.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appCfg = config.LoadFromEnv()
		if dbPath != "" {
			appCfg.DBPath = dbPath
		}
		if backend != "" {
			appCfg.Backend = backend
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default .roical/roical.db, env ROICAL_DB)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: sqlite or postgres (env ROICAL_BACKEND)")
}

// openStore opens the configured storage backend
func openStore(ctx context.Context) (storage.Storage, error) {
	if err := appCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return storage.NewStorage(ctx, &storage.Config{
		Backend:     appCfg.Backend,
		Path:        appCfg.DBPath,
		PostgresURL: appCfg.PostgresURL,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
