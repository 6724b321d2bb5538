// Package cascade walks the transitive set of callables reachable from a
// root callable via direct calls, annotating every node with the stability
// summary of its parameters. The walk is bounded by depth, rejects true
// cycles while allowing diamonds, and is cancellable between node visits.
package cascade

import (
	"context"

	"stabl/internal/errors"
	"stabl/internal/logging"
	"stabl/internal/stability"
)

// CallableID identifies a callable in the call graph.
type CallableID string

// CallGraphQuery enumerates the direct call sites of a callable that
// target statically resolvable, analyzable callables. Unresolvable calls
// are simply omitted by the implementation, never errors.
type CallGraphQuery interface {
	Callees(id CallableID) []CallableID
}

// ParameterClassification pairs a parameter with its type's verdict.
type ParameterClassification struct {
	Name   string                   `json:"name"`
	Result stability.Classification `json:"result"`
}

// NodeStability is the per-callable stability summary attached to a node.
type NodeStability struct {
	// Skippable is true when every parameter classification is stable, or
	// the policy mode treats non-stable parameters as identity-comparable.
	Skippable  bool                      `json:"skippable"`
	Parameters []ParameterClassification `json:"parameters,omitempty"`
}

// StabilityProvider supplies the stability summary for a callable. A
// failed lookup for one node must not abort the walk; the walker
// substitutes a conservative placeholder and continues.
type StabilityProvider interface {
	CallableStability(id CallableID) (*NodeStability, error)
}

// Truncation reasons attached to branches the walker did not descend into.
const (
	TruncatedMaxDepth = "max depth reached"
	TruncatedCycle    = "cycle detected"
)

// Node is one callable in the cascade tree.
type Node struct {
	ID        CallableID     `json:"id"`
	Depth     int            `json:"depth"`
	Stability *NodeStability `json:"stability,omitempty"`
	// Truncated carries the reason this branch was cut, empty otherwise.
	Truncated string  `json:"truncated,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Summary aggregates the tree in one pass.
type Summary struct {
	TotalNodes   int  `json:"totalNodes"`
	Skippable    int  `json:"skippable"`
	NonSkippable int  `json:"nonSkippable"`
	MaxDepth     int  `json:"maxDepth"`
	Truncated    bool `json:"truncated"`
}

// Tree is the walk result. Incomplete marks a partial tree returned after
// cancellation.
type Tree struct {
	Root       *Node   `json:"root"`
	Summary    Summary `json:"summary"`
	Incomplete bool    `json:"incomplete,omitempty"`
}

// Walker performs the bounded DFS. It holds no mutable state between
// walks; each Walk call owns its own path set.
type Walker struct {
	graph    CallGraphQuery
	provider StabilityProvider
	maxDepth int
	logger   *logging.Logger
}

// DefaultMaxDepth bounds walks when the caller does not say otherwise.
const DefaultMaxDepth = 8

// NewWalker creates a walker over the given call graph and stability
// provider. maxDepth <= 0 selects DefaultMaxDepth; a nil logger discards.
func NewWalker(graph CallGraphQuery, provider StabilityProvider, maxDepth int, logger *logging.Logger) *Walker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Walker{
		graph:    graph,
		provider: provider,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Walk builds the cascade tree rooted at root. On cancellation it returns
// the partial tree marked incomplete together with a WALK_CANCELLED error
// so callers can distinguish the two outcomes.
func (w *Walker) Walk(ctx context.Context, root CallableID) (*Tree, error) {
	tree := &Tree{}
	rootNode, cancelled := w.visit(ctx, root, 0, make(map[CallableID]bool))
	tree.Root = rootNode
	if rootNode != nil {
		tree.Summary = summarize(rootNode)
	}
	if cancelled {
		tree.Incomplete = true
		return tree, errors.New(errors.WalkCancelled, "cascade walk cancelled", ctx.Err())
	}
	return tree, nil
}

// visit builds the subtree for one callable. The path set is branch-local:
// entries are added on descent and removed on return, so the same callee
// may appear in sibling branches while a callee calling back into one of
// its ancestors truncates.
func (w *Walker) visit(ctx context.Context, id CallableID, depth int, onPath map[CallableID]bool) (*Node, bool) {
	if ctx.Err() != nil {
		return nil, true
	}

	node := &Node{
		ID:        id,
		Depth:     depth,
		Stability: w.stabilityFor(id),
	}

	onPath[id] = true
	defer delete(onPath, id)

	for _, callee := range dedupe(w.graph.Callees(id)) {
		if ctx.Err() != nil {
			return node, true
		}

		childDepth := depth + 1
		switch {
		case childDepth >= w.maxDepth:
			node.Children = append(node.Children, w.truncated(callee, childDepth, TruncatedMaxDepth))
		case onPath[callee]:
			node.Children = append(node.Children, w.truncated(callee, childDepth, TruncatedCycle))
		default:
			child, cancelled := w.visit(ctx, callee, childDepth, onPath)
			if child != nil {
				node.Children = append(node.Children, child)
			}
			if cancelled {
				return node, true
			}
		}
	}
	return node, false
}

func (w *Walker) truncated(id CallableID, depth int, reason string) *Node {
	return &Node{
		ID:        id,
		Depth:     depth,
		Stability: w.stabilityFor(id),
		Truncated: reason,
	}
}

// stabilityFor asks the provider, degrading to a conservative
// non-skippable, no-parameter placeholder on failure.
func (w *Walker) stabilityFor(id CallableID) *NodeStability {
	ns, err := w.provider.CallableStability(id)
	if err != nil || ns == nil {
		w.logger.Debug("stability lookup failed, using placeholder", logging.Fields{
			"callable": string(id),
		})
		return &NodeStability{Skippable: false}
	}
	return ns
}

// dedupe removes repeated call sites targeting the same callee within one
// caller body, preserving first-seen order.
func dedupe(ids []CallableID) []CallableID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[CallableID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// summarize aggregates the whole tree in a single traversal.
func summarize(root *Node) Summary {
	var s Summary
	var walk func(n *Node)
	walk = func(n *Node) {
		s.TotalNodes++
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
		if n.Truncated != "" {
			s.Truncated = true
		}
		if n.Stability != nil && n.Stability.Skippable {
			s.Skippable++
		} else {
			s.NonSkippable++
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return s
}
