// Package repl implements the interactive shell: load a profile, run the
// projection, inspect and manage saved scenarios without re-invoking the
// CLI for every step.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/roitools/roical/internal/calc"
	"github.com/roitools/roical/internal/config"
	"github.com/roitools/roical/internal/storage"
	"github.com/roitools/roical/internal/types"
)

// REPL represents the interactive shell
type REPL struct {
	store    storage.Storage
	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler

	// last holds the most recent projection so "save" can persist it
	last *types.Scenario
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Store storage.Storage
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}

	r := &REPL{
		store:    cfg.Store,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("roical> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	fmt.Println("roical interactive mode. Type 'help' for commands, 'quit' to exit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		handler, ok := r.commands[cmd]
		if !ok {
			fmt.Printf("Unknown command: %s (try 'help')\n", cmd)
			continue
		}
		if err := handler(args); err != nil {
			color.Red("Error: %v", err)
		}
	}
}

func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["calc"] = r.cmdCalc
	r.commands["save"] = r.cmdSave
	r.commands["list"] = r.cmdList
	r.commands["show"] = r.cmdShow
	r.commands["delete"] = r.cmdDelete
}

func (r *REPL) cmdHelp(args []string) error {
	fmt.Println(`Commands:
  calc <profile.yaml>   Run a projection from a profile file
  save [name]           Persist the last projection as a scenario
  list                  List saved scenarios
  show <name>           Show a saved scenario's headline metrics
  delete <name>         Delete a saved scenario
  help                  Show this help
  quit                  Exit`)
	return nil
}

func (r *REPL) cmdCalc(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: calc <profile.yaml>")
	}

	profile, err := config.LoadProfile(args[0])
	if err != nil {
		return err
	}

	assumptions, err := resolveAssumptions(profile)
	if err != nil {
		return err
	}

	proj, err := calc.Project(profile.Inputs, assumptions)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	r.last = &types.Scenario{
		ID:          uuid.New().String(),
		Name:        profile.Name,
		Industry:    profile.Industry,
		Notes:       profile.Notes,
		Inputs:      profile.Inputs,
		Assumptions: assumptions,
		Projection:  proj,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	printHeadline(r.last)
	fmt.Println("Use 'save' to persist this scenario.")
	return nil
}

func (r *REPL) cmdSave(args []string) error {
	if r.last == nil {
		return fmt.Errorf("nothing to save: run 'calc' first")
	}
	if len(args) > 0 {
		r.last.Name = strings.Join(args, " ")
	}
	if err := r.store.SaveScenario(r.ctx, r.last); err != nil {
		return err
	}
	color.Green("Saved scenario %q (%s)", r.last.Name, r.last.ID)
	return nil
}

func (r *REPL) cmdList(args []string) error {
	scenarios, err := r.store.ListScenarios(r.ctx, types.ScenarioFilter{})
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		fmt.Println("No saved scenarios.")
		return nil
	}
	for _, s := range scenarios {
		roi := "-"
		if s.Projection != nil {
			roi = fmt.Sprintf("%.1f%%", s.Projection.ROIPercent)
		}
		fmt.Printf("  %-30s %-14s ROI %-8s %s\n",
			s.Name, s.Industry, roi, s.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (r *REPL) cmdShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <name>")
	}
	scenario, err := r.store.GetScenarioByName(r.ctx, args[0])
	if err != nil {
		return err
	}
	printHeadline(scenario)
	return nil
}

func (r *REPL) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}
	scenario, err := r.store.GetScenarioByName(r.ctx, args[0])
	if err != nil {
		return err
	}
	if err := r.store.DeleteScenario(r.ctx, scenario.ID); err != nil {
		return err
	}
	color.Green("Deleted scenario %q", scenario.Name)
	return nil
}

// resolveAssumptions picks the profile's inline assumptions or the named
// built-in default
func resolveAssumptions(profile *config.Profile) (types.Assumptions, error) {
	if profile.Assumptions != nil {
		return *profile.Assumptions, nil
	}
	return calc.ProfileByName(profile.AssumptionProfile)
}

// printHeadline prints the scenario's headline metrics
func printHeadline(s *types.Scenario) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("\n%s (%s, %s assumptions)\n", bold(s.Name), s.Industry, s.Assumptions.Name)

	p := s.Projection
	if p == nil {
		fmt.Println("  no projection computed")
		return
	}

	fmt.Printf("  ROI:       %.1f%% (after tax: %.1f%%)\n", p.ROIPercent, p.AfterTaxROIPercent)
	fmt.Printf("  NPV:       $%.0f (after tax: $%.0f)\n", p.NPV, p.AfterTaxNPV)
	if p.PaybackReached {
		fmt.Printf("  Payback:   %.1f months\n", p.PaybackMonths)
	} else {
		fmt.Printf("  Payback:   not reached within %d years\n", s.Inputs.HorizonYears)
	}
	if p.IRRValid {
		fmt.Printf("  IRR:       %.1f%%\n", p.IRR*100)
	}
	fmt.Println()
}
