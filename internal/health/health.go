// Package health implements the checks behind the doctor command:
// database accessibility, schema compatibility, and export destination
// sanity.
package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roitools/roical/internal/config"
	"github.com/roitools/roical/internal/storage"
)

// Status classifies a check outcome
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult is the outcome of one health check
type CheckResult struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Detail   string `json:"detail"`
	Critical bool   `json:"critical"` // true when failure prevents the tool from running
}

// Options configures which checks run and against what
type Options struct {
	DBPath      string
	Backend     string
	PostgresURL string
	ExportDir   string
	ProfilePath string // optional: validate a profile file as part of the check
}

// RunChecks executes every applicable check and returns the results in
// display order. It never returns an error; failures are results.
func RunChecks(ctx context.Context, opts Options) []CheckResult {
	var results []CheckResult

	results = append(results, checkDatabase(ctx, opts))
	results = append(results, checkExportDir(opts.ExportDir))
	if opts.ProfilePath != "" {
		results = append(results, checkProfile(opts.ProfilePath))
	}

	return results
}

// HasCriticalFailure reports whether any critical check failed
func HasCriticalFailure(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail && r.Critical {
			return true
		}
	}
	return false
}

// HasFailure reports whether any check failed
func HasFailure(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func checkDatabase(ctx context.Context, opts Options) CheckResult {
	result := CheckResult{Name: "database", Critical: true}

	store, err := storage.NewStorage(ctx, &storage.Config{
		Backend:     opts.Backend,
		Path:        opts.DBPath,
		PostgresURL: opts.PostgresURL,
	})
	if err != nil {
		result.Status = StatusFail
		result.Detail = fmt.Sprintf("cannot open storage: %v", err)
		return result
	}
	defer store.Close()

	version, err := store.GetConfig(ctx, "schema_version")
	if err != nil {
		result.Status = StatusFail
		result.Detail = fmt.Sprintf("cannot read schema version: %v", err)
		return result
	}

	result.Status = StatusOK
	result.Detail = fmt.Sprintf("reachable, schema version %s", version)
	if version == "" {
		// Postgres backend has no version row until first write; not fatal
		result.Status = StatusWarn
		result.Detail = "reachable, schema version not recorded"
	}
	return result
}

func checkExportDir(dir string) CheckResult {
	result := CheckResult{Name: "export directory"}
	if dir == "" {
		dir = "."
	}

	info, err := os.Stat(dir)
	if err != nil {
		result.Status = StatusFail
		result.Detail = fmt.Sprintf("cannot stat %s: %v", dir, err)
		return result
	}
	if !info.IsDir() {
		result.Status = StatusFail
		result.Detail = fmt.Sprintf("%s is not a directory", dir)
		return result
	}

	// Probe writability directly; permission bits lie on some filesystems
	probe := filepath.Join(dir, ".roical-doctor-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		result.Status = StatusFail
		result.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return result
	}
	os.Remove(probe)

	result.Status = StatusOK
	result.Detail = fmt.Sprintf("%s is writable", dir)
	return result
}

func checkProfile(path string) CheckResult {
	result := CheckResult{Name: "profile file"}

	if _, err := config.LoadProfile(path); err != nil {
		result.Status = StatusFail
		result.Detail = err.Error()
		return result
	}

	result.Status = StatusOK
	result.Detail = fmt.Sprintf("%s parses and validates", path)
	return result
}
