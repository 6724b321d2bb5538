// Package engine orchestrates one analysis request: it owns the facade,
// policy and classifier, answers type classification queries, derives the
// skippable flag for callables, and runs cascade walks.
package engine

import (
	"context"

	"stabl/internal/cascade"
	"stabl/internal/errors"
	"stabl/internal/logging"
	"stabl/internal/policy"
	"stabl/internal/stability"
	"stabl/internal/typemodel"
)

// CallableSource resolves callable ids to their declarations.
type CallableSource interface {
	Callable(id string) (*typemodel.Callable, bool)
}

// Engine is the request-scoped analysis surface consumed by the CLI.
type Engine struct {
	source     CallableSource
	graph      cascade.CallGraphQuery
	classifier *stability.Classifier
	pol        policy.Policy
	logger     *logging.Logger
}

// New creates an engine over the given collaborators. A nil logger
// discards output.
func New(facade typemodel.Facade, source CallableSource, graph cascade.CallGraphQuery, pol policy.Policy, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Engine{
		source:     source,
		graph:      graph,
		classifier: stability.New(facade, pol, logger),
		pol:        pol,
		logger:     logger,
	}
}

// ClassifyType parses and classifies a textual type reference.
func (e *Engine) ClassifyType(name string) (stability.Classification, error) {
	ref, err := typemodel.ParseTypeRef(name, nil)
	if err != nil {
		return stability.Classification{}, errors.New(errors.GraphInvalid, "invalid type reference", err)
	}
	return e.classifier.Classify(ref), nil
}

// CallableStability implements cascade.StabilityProvider: every parameter
// type is classified, and the skippable flag derived. The classifier
// always reports a type's intrinsic classification; the policy mode only
// affects the derived flag.
func (e *Engine) CallableStability(id cascade.CallableID) (*cascade.NodeStability, error) {
	callable, ok := e.source.Callable(string(id))
	if !ok {
		return nil, errors.New(errors.CallableNotFound, "callable "+string(id)+" not in graph", nil)
	}

	ns := &cascade.NodeStability{Skippable: true}
	for _, param := range callable.Params {
		result := e.classifier.Classify(param.Type)
		if !result.IsStable() && !e.pol.TreatUnstableAsIdentityComparable {
			ns.Skippable = false
		}
		ns.Parameters = append(ns.Parameters, cascade.ParameterClassification{
			Name:   param.Name,
			Result: result,
		})
	}
	return ns, nil
}

// Cascade walks the call graph from root, annotating nodes with stability
// summaries. The context cancels the walk between node visits.
func (e *Engine) Cascade(ctx context.Context, root string, maxDepth int) (*cascade.Tree, error) {
	if _, ok := e.source.Callable(root); !ok {
		return nil, errors.New(errors.CallableNotFound, "callable "+root+" not in graph", nil)
	}
	walker := cascade.NewWalker(e.graph, e, maxDepth, e.logger)
	return walker.Walk(ctx, cascade.CallableID(root))
}
