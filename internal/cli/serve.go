package cli

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/madeeas/meetingprep/internal/config"
	"github.com/madeeas/meetingprep/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hourly scheduler and the HTTP trigger server",
	Long: `Run prepd as a long-lived service: a batch pass fires at the top of
every hour, and the HTTP API exposes an on-demand trigger, a health probe,
and recent run logs.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runner, st, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	go hourlyTicks(cmd.Context(), runner.Run)

	server := web.NewServer(runner.Run, st)
	log.Printf("listening on %s", cfg.HTTP.Addr)
	return server.Run(cfg.HTTP.Addr)
}

// hourlyTicks fires run at the top of every hour until ctx is done. Each
// pass gets its own bounded deadline so a stuck backend cannot block the
// next tick.
func hourlyTicks(ctx context.Context, run web.RunFunc) {
	for {
		next := time.Now().Truncate(time.Hour).Add(time.Hour)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		tickCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		if _, err := run(tickCtx, false); err != nil {
			log.Printf("batch tick failed: %v", err)
		}
		cancel()
	}
}
