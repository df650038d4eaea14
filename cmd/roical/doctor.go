package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/health"
)

var doctorProfile string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check installation and environment health",
	Long: `Run health checks to diagnose common configuration issues.

This command checks:
- Database accessibility and schema version
- Export directory writability
- Profile file validity (with --profile-file)

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Critical failures that prevent roical from running`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("Running roical health checks...\n\n")

		results := health.RunChecks(cmd.Context(), health.Options{
			DBPath:      appCfg.DBPath,
			Backend:     appCfg.Backend,
			PostgresURL: appCfg.PostgresURL,
			ExportDir:   appCfg.ExportDir,
			ProfilePath: doctorProfile,
		})

		for _, r := range results {
			switch r.Status {
			case health.StatusOK:
				fmt.Printf("  %s %-18s %s\n", green("✓"), r.Name, r.Detail)
			case health.StatusWarn:
				fmt.Printf("  %s %-18s %s\n", yellow("⚠"), r.Name, r.Detail)
			case health.StatusFail:
				fmt.Printf("  %s %-18s %s\n", red("✗"), r.Name, r.Detail)
			}
		}
		fmt.Println()

		if health.HasCriticalFailure(results) {
			fmt.Printf("%s Critical failures prevent roical from running\n", red("✗"))
			os.Exit(2)
		}
		if health.HasFailure(results) {
			fmt.Printf("%s Some checks failed\n", yellow("⚠"))
			os.Exit(1)
		}
		fmt.Printf("%s All checks passed\n", green("✓"))
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorProfile, "profile-file", "", "also validate a profile YAML file")
	rootCmd.AddCommand(doctorCmd)
}
