// Package planner turns a pruned dependency graph into one canonical
// execution order. Two runs over identical input produce byte-identical
// plans: ties between ready nodes are broken by lexical name, which keeps
// regression runs diffable.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/graph"
	"github.com/flightworks/derive/internal/node"
)

// ExecutionPlan is an ordered list of node specs such that every dependency
// of an entry is either a raw channel or an earlier entry.
type ExecutionPlan struct {
	Entries  []*node.Spec
	Channels []string
}

// Plan produces the canonical topological order of the graph's spec nodes.
// Raw channel vertices are sources: they appear in Channels, never in
// Entries.
func Plan(ctx context.Context, g *graph.Graph) (*ExecutionPlan, error) {
	logger := ctxlog.FromContext(ctx)

	indegree := make(map[string]int)
	var channels, ready []string
	for name, n := range g.Nodes {
		if n.Kind == graph.ChannelNode {
			channels = append(channels, name)
			continue
		}
		indegree[name] = 0
		for _, dep := range n.Deps {
			if dep.Kind == graph.SpecNode {
				indegree[name]++
			}
		}
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(channels)
	sort.Strings(ready)

	plan := &ExecutionPlan{Channels: channels}
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		n := g.Nodes[name]
		plan.Entries = append(plan.Entries, n.Spec)

		unlocked := false
		for _, depName := range sortedNames(n.Dependents) {
			indegree[depName]--
			if indegree[depName] == 0 {
				ready = append(ready, depName)
				unlocked = true
			}
		}
		if unlocked {
			sort.Strings(ready)
		}
	}

	if len(plan.Entries) != len(indegree) {
		// Build already rejects cycles; reaching this means the graph was
		// mutated after validation.
		return nil, fmt.Errorf("%w: %d of %d nodes unschedulable", graph.ErrCycle,
			len(indegree)-len(plan.Entries), len(indegree))
	}

	logger.Debug("Plan: execution order fixed.",
		"entries", len(plan.Entries), "raw_channels", len(plan.Channels))
	return plan, nil
}

// Names returns the ordered output names of the plan entries.
func (p *ExecutionPlan) Names() []string {
	out := make([]string, len(p.Entries))
	for i, spec := range p.Entries {
		out[i] = spec.Output
	}
	return out
}

// String renders the plan one output name per line, suitable for golden
// files and diffs.
func (p *ExecutionPlan) String() string {
	var b strings.Builder
	for _, spec := range p.Entries {
		b.WriteString(spec.Output)
		b.WriteByte('\n')
	}
	return b.String()
}

func sortedNames(m map[string]*graph.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
