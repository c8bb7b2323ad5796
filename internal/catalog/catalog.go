// Package catalog holds the registered node specifications and decides, per
// flight, which of several competing variants of the same output is actually
// used.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/flightworks/derive/internal/node"
)

// ErrUnknownOutput is returned when a requested output name has no spec in
// the catalog at all. This is a configuration error, fatal before any flight
// data is touched.
var ErrUnknownOutput = errors.New("no node spec registered for output")

// Catalog is the registry of node specs for one application instance.
type Catalog struct {
	specs    []*node.Spec
	byOutput map[string][]*node.Spec
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byOutput: make(map[string][]*node.Spec)}
}

// Register adds a spec to the catalog. Registering a spec with no output
// name or no derive function is a programmer error and panics.
func (c *Catalog) Register(spec *node.Spec) {
	if spec.Output == "" {
		panic("catalog: spec with empty output name")
	}
	if spec.Derive == nil {
		panic(fmt.Sprintf("catalog: spec %q has no derive function", spec.Output))
	}
	if spec.Requires == nil {
		panic(fmt.Sprintf("catalog: spec %q declares no dependencies", spec.Output))
	}
	slog.Debug("Registering node spec.", "output", spec.Output, "kind", spec.Kind.String())
	c.specs = append(c.specs, spec)
	c.byOutput[spec.Output] = append(c.byOutput[spec.Output], spec)
}

// Variants returns every registered spec for an output name, in registration
// order.
func (c *Catalog) Variants(output string) []*node.Spec {
	return c.byOutput[output]
}

// Outputs returns every distinct output name, sorted, so that iteration over
// the catalog is deterministic.
func (c *Catalog) Outputs() []string {
	out := make([]string, 0, len(c.byOutput))
	for name := range c.byOutput {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Specs returns every registered spec in registration order.
func (c *Catalog) Specs() []*node.Spec {
	return c.specs
}

// Lookup verifies that an output name is known to the catalog.
func (c *Catalog) Lookup(output string) error {
	if _, ok := c.byOutput[output]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
	return nil
}

// Select picks, for one output name, the variant to use for this flight: the
// spec whose requirement is satisfiable from the available set, preferring a
// variant whose aircraft guard matches the flight's aircraft type, then the
// highest declared priority, then registration order. It returns nil when no
// variant is operable — the output is simply absent for this flight, which
// is not an error.
func (c *Catalog) Select(output string, available map[string]struct{}, aircraft string) *node.Spec {
	var best *node.Spec
	for _, spec := range c.byOutput[output] {
		if spec.Aircraft != "" && spec.Aircraft != aircraft {
			continue
		}
		if !spec.Requires.Satisfied(available) {
			continue
		}
		if best == nil || preferred(spec, best, aircraft) {
			best = spec
		}
	}
	return best
}

// preferred reports whether a beats the current best variant.
func preferred(a, b *node.Spec, aircraft string) bool {
	aGuard := a.Aircraft != "" && a.Aircraft == aircraft
	bGuard := b.Aircraft != "" && b.Aircraft == aircraft
	if aGuard != bGuard {
		return aGuard
	}
	return a.Priority > b.Priority
}
