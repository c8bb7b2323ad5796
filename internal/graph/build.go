package graph

import (
	"context"
	"fmt"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/node"
)

// Build constructs a validated dependency graph for one flight.
//
// recorded is the flight's raw channel inventory (names only). requested
// lists the output names the caller wants; an empty list means every operable
// output. aircraft is the flight's aircraft type, used to arbitrate between
// variant specs.
//
// The build runs in four passes: validate the request against the catalog,
// reject cyclic catalogue declarations, resolve operability to a fixpoint
// (a node becomes operable once its requirement is satisfiable from the raw
// channels plus the outputs already known operable), and finally link the
// pruned graph.
func Build(ctx context.Context, recorded []string, cat *catalog.Catalog, requested []string, aircraft string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.",
		"recorded_channels", len(recorded), "requested_outputs", len(requested))

	for _, name := range requested {
		if err := cat.Lookup(name); err != nil {
			return nil, err
		}
	}

	if err := detectCatalogCycles(cat); err != nil {
		return nil, fmt.Errorf("error validating node catalog: %w", err)
	}
	logger.Debug("Build: catalogue cycle detection passed.")

	available := make(map[string]struct{}, len(recorded))
	for _, name := range recorded {
		available[name] = struct{}{}
	}

	selected := resolveOperable(cat, available, aircraft)
	logger.Debug("Build: operability fixpoint reached.", "operable_nodes", len(selected))

	graph := link(recorded, selected, available)

	if len(requested) > 0 {
		prune(graph, requested)
		logger.Debug("Build: pruned to requested outputs.", "node_count", len(graph.Nodes))
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	logger.Debug("Build: graph construction successful.", "node_count", len(graph.Nodes))
	return graph, nil
}

// detectCatalogCycles checks the declared spec-to-spec dependencies,
// ignoring availability. A cycle here reflects a catalogue bug regardless of
// what any particular flight recorded.
func detectCatalogCycles(cat *catalog.Catalog) error {
	g := newGraph()
	for _, output := range cat.Outputs() {
		g.addNode(output, SpecNode, nil)
	}
	for _, output := range cat.Outputs() {
		for _, spec := range cat.Variants(output) {
			for _, dep := range spec.Requires.Names() {
				if _, isSpec := g.Nodes[dep]; !isSpec {
					continue
				}
				if dep == output {
					return fmt.Errorf("%w: node %q depends on itself", ErrCycle, output)
				}
				if err := g.addEdge(dep, output); err != nil {
					return err
				}
			}
		}
	}
	return g.detectCycles()
}

// resolveOperable grows the available set to its fixpoint, picking exactly
// one variant per output name. Outputs whose every variant stays
// unsatisfiable are silently absent.
func resolveOperable(cat *catalog.Catalog, available map[string]struct{}, aircraft string) map[string]*node.Spec {
	selected := make(map[string]*node.Spec)
	for {
		progress := false
		for _, output := range cat.Outputs() {
			if _, done := selected[output]; done {
				continue
			}
			spec := cat.Select(output, available, aircraft)
			if spec == nil {
				continue
			}
			selected[output] = spec
			available[output] = struct{}{}
			progress = true
		}
		if !progress {
			return selected
		}
	}
}

// link materializes the graph: one vertex per raw channel and per selected
// spec, one edge per resolved dependency.
func link(recorded []string, selected map[string]*node.Spec, available map[string]struct{}) *Graph {
	g := newGraph()
	for _, name := range recorded {
		g.addNode(name, ChannelNode, nil)
	}
	for output, spec := range selected {
		g.addNode(output, SpecNode, spec)
	}
	for output, spec := range selected {
		for _, dep := range spec.Requires.Resolve(available) {
			// Resolve only names the requirement bound; anything it bound
			// is either a recorded channel or a selected output, both of
			// which already have vertices.
			_ = g.addEdge(dep, output)
		}
	}
	return g
}

// prune drops every vertex not reachable, following dependency edges, from a
// requested output.
func prune(g *Graph, requested []string) {
	keep := make(map[string]struct{})
	var walk func(name string)
	walk = func(name string) {
		if _, ok := keep[name]; ok {
			return
		}
		n, ok := g.Nodes[name]
		if !ok {
			return
		}
		keep[name] = struct{}{}
		for dep := range n.Deps {
			walk(dep)
		}
	}
	for _, name := range requested {
		walk(name)
	}

	for name, n := range g.Nodes {
		if _, ok := keep[name]; ok {
			continue
		}
		for _, dep := range n.Deps {
			delete(dep.Dependents, name)
		}
		for _, dependent := range n.Dependents {
			delete(dependent.Deps, name)
		}
		delete(g.Nodes, name)
	}
}
