package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/engine"
	"github.com/flightworks/derive/internal/graph"
	"github.com/flightworks/derive/internal/planner"
	"github.com/flightworks/derive/internal/signal"
	"github.com/flightworks/derive/internal/store"
)

// Run processes one flight end to end and writes a JSON summary of the
// outputs to the app's writer.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	container, err := store.OpenBadger(store.Config{
		Path:   appConfig.ContainerPath,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}
	defer container.Close()

	results, err := a.Process(ctx, container, appConfig.FlightID, appConfig.DotPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Process runs the derivation pipeline for one flight against any container
// implementation. It is the seam the integration tests drive directly.
func (a *App) Process(ctx context.Context, container store.Container, flightID, dotPath string) (*engine.Results, error) {
	recorded, err := container.ListChannelNames(flightID)
	if err != nil {
		return nil, fmt.Errorf("reading channel inventory: %w", err)
	}
	a.logger.Debug("Channel inventory read.", "count", len(recorded))

	g, err := graph.Build(ctx, recorded, a.catalog, a.profile.Requested, a.profile.Aircraft)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", len(g.Nodes))

	if dotPath != "" {
		// Diagnostic rendering only: a failure here must never block the
		// flight.
		if err := os.WriteFile(dotPath, []byte(planner.Dot(g)), 0o644); err != nil {
			a.logger.Warn("Failed to write graph rendering.", "path", dotPath, "error", err)
		}
	}

	plan, err := planner.Plan(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule execution plan: %w", err)
	}
	a.logger.Info("Execution plan fixed.", "entries", len(plan.Entries))

	var hook engine.PostProcessFunc
	if a.profile.Hooks.PostProcessSignal {
		hook = defaultPostProcess
	}

	eng := engine.New(container, engine.Options{
		PostProcessSignal: hook,
		Aircraft:          a.profile.Aircraft,
	})
	results, err := eng.Execute(ctx, plan, flightID)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	return results, nil
}

// defaultPostProcess is the stock derived-signal hook: round values to a
// sensible storage precision before write-back.
func defaultPostProcess(s *signal.Signal) *signal.Signal {
	return signal.Map(s.Name, s, func(v float64) float64 {
		return math.Round(v*1000) / 1000
	})
}
