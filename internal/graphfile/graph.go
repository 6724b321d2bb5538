package graphfile

import (
	"sort"

	"stabl/internal/cascade"
	"stabl/internal/typemodel"
)

// Graph is the in-memory analyzable form of a graph document: a type
// snapshot plus callables with their deduplicating call edges. Read-only
// once built.
type Graph struct {
	Snapshot *typemodel.Snapshot

	callables map[string]*typemodel.Callable
	edges     map[string][]string
}

// Callable returns the callable with the given id.
func (g *Graph) Callable(id string) (*typemodel.Callable, bool) {
	c, ok := g.callables[id]
	return c, ok
}

// CallableIDs returns all callable ids in sorted order.
func (g *Graph) CallableIDs() []string {
	ids := make([]string, 0, len(g.callables))
	for id := range g.callables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Callees implements cascade.CallGraphQuery.
func (g *Graph) Callees(id cascade.CallableID) []cascade.CallableID {
	targets := g.edges[string(id)]
	out := make([]cascade.CallableID, 0, len(targets))
	for _, t := range targets {
		out = append(out, cascade.CallableID(t))
	}
	return out
}
