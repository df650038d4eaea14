package main

import (
	"github.com/spf13/cobra"

	"github.com/roitools/roical/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive shell",
	Long: `Start an interactive shell for iterating on scenarios: load a profile,
inspect the projection, tweak, save, compare against history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := repl.New(&repl.Config{Store: store})
		if err != nil {
			return err
		}
		return r.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
