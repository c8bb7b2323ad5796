// Package testutil provides the shared harness for engine tests: in-memory
// flight construction, log capture, and a one-call pipeline runner.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/engine"
	"github.com/flightworks/derive/internal/graph"
	"github.com/flightworks/derive/internal/planner"
	"github.com/flightworks/derive/internal/signal"
	"github.com/flightworks/derive/internal/store"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Flight is an in-memory test flight.
type Flight struct {
	ID        string
	Container *store.Mem
}

// NewFlight creates a flight with the given duration in seconds.
func NewFlight(id string, duration float64) *Flight {
	m := store.NewMem()
	m.AddFlight(id, duration)
	return &Flight{ID: id, Container: m}
}

// AddChannel records a raw channel on the flight. A nil mask marks every
// sample valid.
func (f *Flight) AddChannel(name string, hz, offset float64, values []float64, valid []bool) *Flight {
	if err := f.Container.SetChannel(f.ID, signal.New(name, hz, offset, values, valid)); err != nil {
		panic(err)
	}
	return f
}

// Const returns n copies of v.
func Const(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Ramp returns n values linearly spaced from start to stop inclusive.
func Ramp(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// RunResult holds the outcomes of a harness run.
type RunResult struct {
	Plan      *planner.ExecutionPlan
	Results   *engine.Results
	Err       error
	LogOutput string
}

// RunFlight drives the whole pipeline for one in-memory flight: graph build,
// plan, execute. Build and plan failures surface in Err with a nil Results.
func RunFlight(t *testing.T, f *Flight, cat *catalog.Catalog, requested []string, opts engine.Options) *RunResult {
	t.Helper()

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	out := &RunResult{}
	recorded, err := f.Container.ListChannelNames(f.ID)
	if err != nil {
		out.Err = err
		out.LogOutput = logBuffer.String()
		return out
	}

	g, err := graph.Build(ctx, recorded, cat, requested, opts.Aircraft)
	if err != nil {
		out.Err = err
		out.LogOutput = logBuffer.String()
		return out
	}

	plan, err := planner.Plan(ctx, g)
	if err != nil {
		out.Err = err
		out.LogOutput = logBuffer.String()
		return out
	}
	out.Plan = plan

	eng := engine.New(f.Container, opts)
	out.Results, out.Err = eng.Execute(ctx, plan, f.ID)
	out.LogOutput = logBuffer.String()
	return out
}
