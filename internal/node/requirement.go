package node

// Requirement declares what a node needs before it can operate. The two
// combinators mirror how the catalogue selects sensors: AllOf for hard
// dependencies, AnyOf for interchangeable alternatives (a recorded flap lever
// or its synthetic substitute).
type Requirement interface {
	// Satisfied reports whether the requirement can be met from the given
	// set of available names.
	Satisfied(available map[string]struct{}) bool
	// Resolve returns the concrete names this requirement binds to, in
	// declaration order: every name of a satisfied AllOf, every *present*
	// alternative of an AnyOf. Unsatisfiable branches resolve to nothing.
	Resolve(available map[string]struct{}) []string
	// Names returns every name the requirement mentions, in declaration
	// order, regardless of availability.
	Names() []string
}

type nameReq string

// Name requires a single channel or node output by name.
func Name(n string) Requirement { return nameReq(n) }

func (r nameReq) Satisfied(available map[string]struct{}) bool {
	_, ok := available[string(r)]
	return ok
}

func (r nameReq) Resolve(available map[string]struct{}) []string {
	if _, ok := available[string(r)]; ok {
		return []string{string(r)}
	}
	return nil
}

func (r nameReq) Names() []string { return []string{string(r)} }

type allOf []Requirement

// AllOf requires every child requirement to be satisfiable. Strings are
// accepted as shorthand for Name.
func AllOf(reqs ...any) Requirement { return allOf(coerce(reqs)) }

func (r allOf) Satisfied(available map[string]struct{}) bool {
	for _, c := range r {
		if !c.Satisfied(available) {
			return false
		}
	}
	return true
}

func (r allOf) Resolve(available map[string]struct{}) []string {
	if !r.Satisfied(available) {
		return nil
	}
	var out []string
	for _, c := range r {
		out = append(out, c.Resolve(available)...)
	}
	return dedup(out)
}

func (r allOf) Names() []string {
	var out []string
	for _, c := range r {
		out = append(out, c.Names()...)
	}
	return dedup(out)
}

type anyOf []Requirement

// AnyOf requires at least one child requirement to be satisfiable. Strings
// are accepted as shorthand for Name.
func AnyOf(reqs ...any) Requirement { return anyOf(coerce(reqs)) }

func (r anyOf) Satisfied(available map[string]struct{}) bool {
	for _, c := range r {
		if c.Satisfied(available) {
			return true
		}
	}
	return false
}

func (r anyOf) Resolve(available map[string]struct{}) []string {
	var out []string
	for _, c := range r {
		if c.Satisfied(available) {
			out = append(out, c.Resolve(available)...)
		}
	}
	return dedup(out)
}

func (r anyOf) Names() []string {
	var out []string
	for _, c := range r {
		out = append(out, c.Names()...)
	}
	return dedup(out)
}

func coerce(reqs []any) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		switch v := r.(type) {
		case Requirement:
			out = append(out, v)
		case string:
			out = append(out, Name(v))
		default:
			panic("requirement must be a Requirement or a string")
		}
	}
	return out
}

func dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
