package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/blockflow"
	"github.com/petrijr/blockflow/internal/config"
	"github.com/petrijr/blockflow/internal/journal"
)

func simulateCmd(g *globals) *cobra.Command {
	var (
		speed       float64
		journalPath string
	)

	cmd := &cobra.Command{
		Use:   "simulate KIND...",
		Short: "Build a sequence from the given kinds and run every step in order",
		Example: `  blockflow simulate SAMPLE_PREP CENTRIFUGE ANALYSIS --speed 10
  blockflow simulate MEASUREMENT REPORT --journal runs.db`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *g.cfg
			if cmd.Flags().Changed("speed") {
				cfg.Speed = speed
			}
			if journalPath != "" {
				cfg.JournalPath = journalPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cat, err := loadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := simulate(ctx, simulation{
				Kinds:   args,
				Config:  &cfg,
				Catalog: cat,
				Out:     cmd.OutOrStdout(),
				InPlace: !g.plain && isInteractive(),
				Logger:  slog.Default(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary(res))
			return nil
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "Run this many times faster than the estimates")
	cmd.Flags().StringVar(&journalPath, "journal", "", "Record step events in this SQLite database")
	return cmd
}

type simulation struct {
	Kinds   []string
	Config  *config.Config
	Catalog *blockflow.Catalog
	Out     io.Writer
	InPlace bool
	Logger  *slog.Logger
}

type simulationResult struct {
	Steps    []blockflow.Step
	Progress blockflow.AggregateProgress
	Metrics  blockflow.BasicMetricsSnapshot
	Journal  []blockflow.StepEvent
	Elapsed  time.Duration
}

// simulate runs the steps on a virtual clock advanced by a wall-clock ticker,
// so simulated durations match the estimates while the run itself takes
// Config.Speed times less.
func simulate(ctx context.Context, sim simulation) (*simulationResult, error) {
	cfg := sim.Config
	start := time.Now()
	clk := blockflow.NewVirtualClock(start)

	metrics := &blockflow.BasicMetrics{}
	observers := []blockflow.Observer{
		blockflow.NewLoggingObserver(sim.Logger),
		metrics,
	}

	var store journal.Store = journal.NoopStore{}
	if cfg.JournalPath != "" {
		db, err := sql.Open("sqlite", cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		sqlStore, err := journal.NewSQLiteStore(db)
		if err != nil {
			return nil, fmt.Errorf("init journal: %w", err)
		}
		store = sqlStore

		obs := journal.NewObserver(store, sim.Logger)
		obs.Now = clk.Now
		observers = append(observers, obs)
	}

	wb := blockflow.NewWorkbench(blockflow.Options{
		Catalog:      sim.Catalog,
		Clock:        clk,
		Observer:     blockflow.NewCompositeObserver(observers...),
		TickInterval: cfg.TickInterval,
	})
	defer wb.Close()

	seq := blockflow.NewSequence()
	for _, k := range sim.Kinds {
		seq.Step(k)
	}
	steps, err := seq.Apply(wb)
	if err != nil {
		return nil, err
	}

	changes, unsubscribe := wb.Subscribe()
	defer unsubscribe()

	runErr := make(chan error, 1)
	go func() { runErr <- wb.RunAll(ctx) }()

	ticker := time.NewTicker(cfg.ScaledTick())
	defer ticker.Stop()

	b := &board{out: sim.Out, inPlace: sim.InPlace}
	b.render(wb.Steps())

	for {
		select {
		case <-ticker.C:
			clk.Advance(cfg.TickInterval)
		case <-changes:
			b.render(wb.Steps())
		case err := <-runErr:
			b.render(wb.Steps())
			if err != nil {
				return nil, err
			}

			res := &simulationResult{
				Steps:    wb.Steps(),
				Progress: wb.Progress(),
				Metrics:  metrics.Snapshot(),
				Elapsed:  time.Since(start),
			}
			for _, s := range steps {
				events, err := store.ListEvents(ctx, s.ID)
				if err != nil {
					return nil, fmt.Errorf("read journal: %w", err)
				}
				res.Journal = append(res.Journal, events...)
			}
			return res, nil
		}
	}
}

func summary(res *simulationResult) string {
	var rows [][]string
	for _, s := range res.Steps {
		actual := "-"
		if s.ActualDuration != nil {
			actual = s.ActualDuration.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{s.Kind, string(s.Status), s.EstimatedDuration.String(), actual})
	}

	out := Table([]string{"KIND", "STATUS", "ESTIMATE", "ACTUAL"}, rows)
	out += fmt.Sprintf("\n%d/%d steps complete in %s",
		res.Progress.Completed, res.Progress.Total, res.Elapsed.Round(time.Millisecond))
	if len(res.Journal) > 0 {
		out += fmt.Sprintf(", %d events journaled", len(res.Journal))
	}
	return out
}
