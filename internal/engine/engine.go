// Package engine walks an execution plan in order, gathers and aligns each
// node's resolved dependency data, invokes the node, and dispatches the
// result by kind: continuous signals back into the flight-data container,
// events and phases into the flight-level output collections.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/node"
	"github.com/flightworks/derive/internal/planner"
	"github.com/flightworks/derive/internal/signal"
	"github.com/flightworks/derive/internal/store"
)

// PostProcessFunc is an optional hook applied to every derived continuous
// signal before it is length-checked and written back.
type PostProcessFunc func(s *signal.Signal) *signal.Signal

// Options configures an Engine. There is no ambient global state: hooks are
// carried here explicitly.
type Options struct {
	// PostProcessSignal, when non-nil, runs on every derived signal.
	PostProcessSignal PostProcessFunc
	// Aircraft is the flight's aircraft type, handed to nodes that care.
	Aircraft string
}

// Engine executes plans against one flight-data container. One Engine
// processes one flight at a time; processing different flights in different
// Engines is safe because runs share no mutable state.
type Engine struct {
	container store.Container
	opts      Options
}

// New creates an Engine bound to a container.
func New(container store.Container, opts Options) *Engine {
	return &Engine{container: container, opts: opts}
}

// Execute runs the plan for one flight start to finish. Node-local compute
// failures are logged and skipped; an empty resolved dependency set or a
// mis-shaped derived signal aborts the whole flight.
func (e *Engine) Execute(ctx context.Context, plan *planner.ExecutionPlan, flightID string) (*Results, error) {
	logger := ctxlog.FromContext(ctx).With("flight", flightID, "run_id", uuid.NewString())
	logger.Info("Starting derivation run.", "entries", len(plan.Entries))

	duration, err := e.container.Duration(flightID)
	if err != nil {
		return nil, fmt.Errorf("reading flight duration: %w", err)
	}

	resultStore := make(map[string]node.Result)
	results := &Results{}

	for _, spec := range plan.Entries {
		nodeLogger := logger.With("node", spec.Output, "kind", spec.Kind.String())

		inputs, err := e.gather(flightID, spec, resultStore, duration)
		if err != nil {
			return nil, err
		}
		if len(inputs.Resolved()) == 0 {
			nodeLogger.Error("No dependency data could be gathered for planned node.")
			return nil, &InsufficientDataError{Output: spec.Output}
		}

		result, nodeErr := e.invoke(ctx, spec, inputs, resultStore)
		if nodeErr != nil {
			nodeLogger.Error("Node compute failed, skipping node.", "error", nodeErr)
			results.Skipped = append(results.Skipped, SkippedNode{Output: spec.Output, Reason: nodeErr.Error()})
			continue
		}

		if err := e.dispatch(flightID, spec, result, duration, results, resultStore); err != nil {
			return nil, err
		}
		nodeLogger.Debug("Node completed.")
	}

	logger.Info("Derivation run finished.",
		"kpvs", len(results.KPVs), "ktis", len(results.KTIs), "phases", len(results.Phases),
		"derived", len(results.Derived), "skipped", len(results.Skipped))
	return results, nil
}

// gather fetches every mentioned dependency that is present, preferring
// previously computed results over the raw container, and aligns signal
// dependencies onto a common grid. Absent names are simply not bound: a
// partially available set (an upstream node was skipped) is the downstream
// node's problem to handle node-locally, only a fully empty gather aborts
// the flight.
func (e *Engine) gather(flightID string, spec *node.Spec, resultStore map[string]node.Result, duration float64) (*node.Inputs, error) {
	available := make(map[string]struct{}, len(resultStore))
	for name := range resultStore {
		available[name] = struct{}{}
	}
	recorded, err := e.container.ListChannelNames(flightID)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	for _, name := range recorded {
		available[name] = struct{}{}
	}

	inputs := node.NewInputs(duration, e.opts.Aircraft)
	var signals []*signal.Signal
	for _, dep := range spec.Requires.Names() {
		if _, present := available[dep]; !present {
			continue
		}
		if r, ok := resultStore[dep]; ok {
			if r.Kind == node.KindSignal && r.Signal != nil {
				signals = append(signals, r.Signal)
			} else {
				inputs.AddResult(dep, r)
			}
			continue
		}
		s, err := e.container.Channel(flightID, dep)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetching channel %q: %w", dep, err)
		}
		signals = append(signals, s)
	}

	for _, s := range signal.AlignAll(signals) {
		inputs.AddSignal(s)
	}
	return inputs, nil
}

// invoke runs the node's compute step, once per flight or once per interval
// of the declared window output, recovering panics as node-local failures.
func (e *Engine) invoke(ctx context.Context, spec *node.Spec, inputs *node.Inputs, resultStore map[string]node.Result) (node.Result, error) {
	if spec.PerInterval == "" {
		return e.derive(ctx, spec, inputs)
	}

	// Per-interval nodes run once per span of the named interval output,
	// with the node's own accumulated results threaded back in so the node
	// can deduplicate against what it already emitted this flight.
	accumulated := node.Result{Kind: spec.Kind}
	for _, window := range resultStore[spec.PerInterval].Intervals {
		inputs.SetWindow(window)
		inputs.SetPrior(accumulated)
		r, err := e.derive(ctx, spec, inputs)
		if err != nil {
			return node.Result{}, err
		}
		accumulated.Scalars = append(accumulated.Scalars, r.Scalars...)
		accumulated.Instants = append(accumulated.Instants, r.Instants...)
		accumulated.Intervals = append(accumulated.Intervals, r.Intervals...)
	}
	return accumulated, nil
}

// derive calls a single compute step with panic recovery. A panicking
// formula must not take down the several hundred other nodes of the flight.
func (e *Engine) derive(ctx context.Context, spec *node.Spec, inputs *node.Inputs) (result node.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = node.Result{}
			err = fmt.Errorf("node %q panicked: %v", spec.Output, r)
		}
	}()

	result, err = spec.Derive(ctx, inputs)
	if err != nil {
		return node.Result{}, fmt.Errorf("node %q: %w", spec.Output, err)
	}
	if result.Kind != spec.Kind {
		return node.Result{}, fmt.Errorf("node %q returned %s result, spec declares %s",
			spec.Output, result.Kind, spec.Kind)
	}
	if err := result.Validate(); err != nil {
		return node.Result{}, fmt.Errorf("node %q: %w", spec.Output, err)
	}
	return result, nil
}

// dispatch routes a completed result by kind and records it in the result
// store under the node's output name so later nodes of any kind can depend
// on it. A mis-shaped signal is fatal for the flight.
func (e *Engine) dispatch(flightID string, spec *node.Spec, result node.Result, duration float64, results *Results, resultStore map[string]node.Result) error {
	switch result.Kind {
	case node.KindSignal:
		s := result.Signal
		if e.opts.PostProcessSignal != nil {
			s = e.opts.PostProcessSignal(s)
		}
		want := int(math.Round(duration * s.Hz))
		if s.Len() != want {
			return &ShapeError{Output: spec.Output, Got: s.Len(), Want: want}
		}
		if err := e.container.SetChannel(flightID, s); err != nil {
			return fmt.Errorf("writing derived channel %q: %w", spec.Output, err)
		}
		results.Derived = append(results.Derived, spec.Output)
		result.Signal = s
	case node.KindScalarEvent:
		results.KPVs = append(results.KPVs, result.Scalars...)
	case node.KindInstantEvent:
		results.KTIs = append(results.KTIs, result.Instants...)
	case node.KindInterval:
		results.Phases = append(results.Phases, result.Intervals...)
	}

	resultStore[spec.Output] = result
	return nil
}
