package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/madeeas/meetingprep/internal/config"
)

var runForce bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batch pass now",
	Long: `Run one batch pass over all active users.

Only users whose local hour matches their preferred send time are processed;
pass --force to process every active user regardless of the schedule gate.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "Bypass the per-user schedule gate")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Database: %s\n", cfg.Database.Path)
		fmt.Printf("Model: %s\n", cfg.OpenAI.Model)
	}

	runner, st, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	stats, err := runner.Run(ctx, runForce)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d/%d users\n", stats.Processed, stats.TotalUsers)
	return nil
}
