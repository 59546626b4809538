package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/restaurant"
	"github.com/underfried/underfried/pkg/telemetry"
)

func newRunCommand() *cobra.Command {
	var (
		duration    time.Duration
		pacing      float64
		seed        int64
		printEvents bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the kitchen simulation",
		Long: `Open the restaurant and run the full actor pipeline until interrupted.

The order taker samples orders and empty-plate pickups on a fixed round,
the cook works through order batches ingredient by ingredient, the
assembler plates dishes as their ingredients complete, and the washer
turns the dirty pile back into clean plates. Hazards (fires, pests,
burned food) are injected at random and resolved by the responsible
actor before it continues its work.`,
		Example: `  # Run with defaults until interrupted
  underfried run

  # Run a fast two-minute service with a fixed seed
  underfried run --pacing 0.1 --seed 42 --duration 2m

  # Run from a config file, streaming pipeline events
  underfried run --config underfried.yaml --events`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pacing") {
				cfg.Restaurant.Pacing = pacing
			}
			if cmd.Flags().Changed("seed") {
				cfg.Restaurant.Seed = seed
			}
			if verbose {
				cfg.Telemetry.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tel, err := telemetry.NewTelemetry(cfg.TelemetryConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}

			if printEvents && tel.Events != nil {
				tel.Events.Subscribe(func(e telemetry.Event) {
					fmt.Printf("%s [%s] %s %s\n",
						e.Timestamp.Format(time.TimeOnly), e.Source, e.Type, e.Message)
				}, telemetry.FilterByLevel(telemetry.EventLevelInfo))
			}

			if cfg.Telemetry.Metrics.Enabled {
				if err := tel.StartMetricsServer(); err != nil {
					return fmt.Errorf("failed to start metrics server: %w", err)
				}
			}

			menu := catalog.NewMenu()
			knowledge := catalog.NewKnowledge()
			ledger := restaurant.NewLedger(menu, cfg.LedgerConfig())
			sim := restaurant.New(ledger, menu, knowledge, nil, cfg.Params(), tel,
				restaurant.NewEventPresenter(tel.Events))

			ctx := cmd.Context()
			runCtx := ctx
			var cancel context.CancelFunc
			if duration > 0 {
				runCtx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			sim.Start(runCtx)
			<-runCtx.Done()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			if err := sim.Stop(stopCtx); err != nil {
				return err
			}

			s := ledger.Snapshot()
			tel.Logger.WithFields(map[string]interface{}{
				"clean":          s.Clean,
				"in_use":         s.InUse,
				"dirty":          s.Dirty,
				"assembled":      s.Assembled,
				"pending_orders": s.PendingOrders,
				"ready_dishes":   s.ReadyDishes,
				"active_hazards": s.ActiveHazards,
			}).Info("Closing state")

			return tel.Shutdown(stopCtx)
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "how long to run (0 = until interrupted)")
	cmd.Flags().Float64Var(&pacing, "pacing", 1.0, "duration scale factor (0.1 = 10x faster)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = seed from the clock)")
	cmd.Flags().BoolVar(&printEvents, "events", false, "print pipeline events to stdout")

	return cmd
}
