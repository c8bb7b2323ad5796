// Package graph builds the directed dependency graph between a flight's raw
// recorded channels and the operable node specs, pruning anything that can
// never be satisfied and rejecting cyclic catalogues.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/flightworks/derive/internal/node"
)

// ErrCycle marks a cyclic dependency among node specs. A cycle is a
// catalogue bug, fatal before any flight is processed.
var ErrCycle = errors.New("dependency cycle")

// NodeKind distinguishes raw recorded channels from derived computations.
type NodeKind int

const (
	// ChannelNode is a raw recorded channel; it has no dependencies.
	ChannelNode NodeKind = iota
	// SpecNode is a derived computation selected from the catalog.
	SpecNode
)

// Node is a single vertex in the dependency graph.
type Node struct {
	Name       string
	Kind       NodeKind
	Spec       *node.Spec
	Deps       map[string]*Node
	Dependents map[string]*Node
}

// Graph is the pruned dependency graph for one flight.
type Graph struct {
	Nodes map[string]*Node
}

// newGraph creates an empty graph.
func newGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// addNode inserts a vertex if it does not already exist and returns it.
func (g *Graph) addNode(name string, kind NodeKind, spec *node.Spec) *Node {
	if n, ok := g.Nodes[name]; ok {
		return n
	}
	n := &Node{
		Name:       name,
		Kind:       kind,
		Spec:       spec,
		Deps:       make(map[string]*Node),
		Dependents: make(map[string]*Node),
	}
	g.Nodes[name] = n
	return n
}

// addEdge records that `to` depends on `from`.
func (g *Graph) addEdge(fromName, toName string) error {
	if fromName == toName {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromName, fromName)
	}
	from, ok := g.Nodes[fromName]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromName)
	}
	to, ok := g.Nodes[toName]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toName)
	}
	to.Deps[fromName] = from
	from.Dependents[toName] = to
	return nil
}

// Dependencies returns the sorted names of the nodes the given node depends
// on.
func (g *Graph) Dependencies(name string) ([]string, error) {
	n, ok := g.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return sortedKeys(n.Deps), nil
}

// Dependents returns the sorted names of the nodes that depend on the given
// node.
func (g *Graph) Dependents(name string) ([]string, error) {
	n, ok := g.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return sortedKeys(n.Dependents), nil
}

// detectCycles runs a classic three-color depth-first search over the graph
// and returns an ErrCycle-wrapped error naming a node on the first cycle
// found.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.Name] {
			return nil
		}
		if temporary[n.Name] {
			return fmt.Errorf("%w involving node %q", ErrCycle, n.Name)
		}
		temporary[n.Name] = true
		for _, name := range sortedKeys(n.Dependents) {
			if err := visit(n.Dependents[name]); err != nil {
				return err
			}
		}
		delete(temporary, n.Name)
		permanent[n.Name] = true
		return nil
	}

	for _, name := range sortedKeys(g.Nodes) {
		if !permanent[name] {
			if err := visit(g.Nodes[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
