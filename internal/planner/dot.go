package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flightworks/derive/internal/graph"
)

// Dot renders the graph as Graphviz source for diagnostics. Raw channels are
// drawn as boxes, derived nodes as ellipses. Rendering is best-effort
// tooling: callers log failures to write the output and carry on, it never
// blocks processing.
func Dot(g *graph.Graph) string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("digraph derivations {\n")
	b.WriteString("  rankdir=BT;\n")
	for _, name := range names {
		n := g.Nodes[name]
		shape := "ellipse"
		if n.Kind == graph.ChannelNode {
			shape = "box"
		}
		fmt.Fprintf(&b, "  %q [shape=%s];\n", name, shape)
	}
	for _, name := range names {
		n := g.Nodes[name]
		deps := make([]string, 0, len(n.Deps))
		for dep := range n.Deps {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			fmt.Fprintf(&b, "  %q -> %q;\n", name, dep)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
