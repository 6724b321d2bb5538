// Package graphfile loads and saves stabl graph documents: YAML files
// describing a nominal type graph (declarations, aliases) and a call graph
// (callables with parameters and callees). Documents are the interchange
// format between the extractor, the SQLite store, and the analysis engine.
package graphfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stabl/internal/errors"
	"stabl/internal/typemodel"
)

// Document is the on-disk schema of a graph file.
type Document struct {
	Version   int               `yaml:"version"`
	Types     []TypeDoc         `yaml:"types,omitempty"`
	Aliases   map[string]string `yaml:"aliases,omitempty"`
	Callables []CallableDoc     `yaml:"callables,omitempty"`
}

// CurrentVersion is the document schema version this build reads/writes.
const CurrentVersion = 1

// TypeDoc describes one declaration.
type TypeDoc struct {
	Name               string        `yaml:"name"`
	Kind               string        `yaml:"kind,omitempty"`     // default: class
	Modality           string        `yaml:"modality,omitempty"` // default: final
	Annotations        []string      `yaml:"annotations,omitempty"`
	TypeParams         []string      `yaml:"typeParams,omitempty"`
	Properties         []PropertyDoc `yaml:"properties,omitempty"`
	Supertypes         []string      `yaml:"supertypes,omitempty"`
	Wrapped            *PropertyDoc  `yaml:"wrapped,omitempty"`
	InferredParamCount *int          `yaml:"inferredParamCount,omitempty"`
}

// PropertyDoc describes one declared property.
type PropertyDoc struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Mutable bool   `yaml:"mutable,omitempty"`
}

// CallableDoc describes one callable and its direct callees.
type CallableDoc struct {
	ID         string     `yaml:"id"`
	TypeParams []string   `yaml:"typeParams,omitempty"`
	Params     []ParamDoc `yaml:"params,omitempty"`
	Callees    []string   `yaml:"callees,omitempty"`
}

// ParamDoc describes one callable parameter.
type ParamDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads and parses a graph document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.GraphInvalid, "cannot read graph document", err)
	}
	return Parse(data)
}

// Parse parses a graph document from bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.GraphInvalid, "cannot parse graph document", err)
	}
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if doc.Version != CurrentVersion {
		return nil, errors.New(errors.GraphInvalid,
			fmt.Sprintf("unsupported graph document version %d", doc.Version), nil)
	}
	return &doc, nil
}

// Save writes a document to disk as YAML.
func Save(path string, doc *Document) error {
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.New(errors.InternalError, "cannot marshal graph document", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.GraphInvalid, "cannot write graph document", err)
	}
	return nil
}

var validKinds = map[string]typemodel.ClassKind{
	"":            typemodel.KindClass,
	"class":       typemodel.KindClass,
	"interface":   typemodel.KindInterface,
	"enum":        typemodel.KindEnum,
	"value_class": typemodel.KindValueClass,
	"unknown":     typemodel.KindUnknown,
}

var validModalities = map[string]typemodel.Modality{
	"":         typemodel.ModalityFinal,
	"final":    typemodel.ModalityFinal,
	"open":     typemodel.ModalityOpen,
	"abstract": typemodel.ModalityAbstract,
	"sealed":   typemodel.ModalitySealed,
}

// Build converts a document into an analyzable Graph layered over the
// given base snapshot (usually the standard-library prelude). Callee
// references to callables not present in the document are dropped, not
// errors: unresolvable calls are simply omitted from the call graph.
func (d *Document) Build(base *typemodel.Snapshot) (*Graph, error) {
	if base == nil {
		base = typemodel.NewSnapshot()
	}

	seen := make(map[string]bool, len(d.Types))
	for _, td := range d.Types {
		if td.Name == "" {
			return nil, errors.New(errors.GraphInvalid, "type with empty name", nil)
		}
		if seen[td.Name] {
			return nil, errors.New(errors.GraphInvalid, "duplicate type "+td.Name, nil)
		}
		seen[td.Name] = true

		decl, err := td.toDecl()
		if err != nil {
			return nil, err
		}
		base.AddClass(decl)
	}

	for name, target := range d.Aliases {
		ref, err := typemodel.ParseTypeRef(target, nil)
		if err != nil {
			return nil, errors.New(errors.GraphInvalid, "invalid alias target for "+name, err)
		}
		base.AddAlias(name, ref)
	}

	g := &Graph{
		Snapshot:  base,
		callables: make(map[string]*typemodel.Callable, len(d.Callables)),
		edges:     make(map[string][]string, len(d.Callables)),
	}
	for _, cd := range d.Callables {
		if cd.ID == "" {
			return nil, errors.New(errors.GraphInvalid, "callable with empty id", nil)
		}
		if _, dup := g.callables[cd.ID]; dup {
			return nil, errors.New(errors.GraphInvalid, "duplicate callable "+cd.ID, nil)
		}
		callable, err := cd.toCallable()
		if err != nil {
			return nil, err
		}
		g.callables[cd.ID] = callable
	}
	for _, cd := range d.Callables {
		for _, callee := range cd.Callees {
			if _, ok := g.callables[callee]; !ok {
				continue // unresolvable target, omitted
			}
			g.edges[cd.ID] = append(g.edges[cd.ID], callee)
		}
	}
	return g, nil
}

func (td *TypeDoc) toDecl() (*typemodel.ClassDecl, error) {
	kind, ok := validKinds[td.Kind]
	if !ok {
		return nil, errors.New(errors.GraphInvalid,
			fmt.Sprintf("type %s: invalid kind %q", td.Name, td.Kind), nil)
	}
	modality, ok := validModalities[td.Modality]
	if !ok {
		return nil, errors.New(errors.GraphInvalid,
			fmt.Sprintf("type %s: invalid modality %q", td.Name, td.Modality), nil)
	}

	scope := paramScope(td.TypeParams)
	decl := &typemodel.ClassDecl{
		QualifiedName:     td.Name,
		Kind:              kind,
		Modality:          modality,
		TypeParams:        td.TypeParams,
		Annotations:       td.Annotations,
		InferredStability: td.InferredParamCount,
	}
	for _, pd := range td.Properties {
		prop, err := pd.toProperty(td.Name, scope)
		if err != nil {
			return nil, err
		}
		decl.Properties = append(decl.Properties, prop)
	}
	for _, st := range td.Supertypes {
		ref, err := typemodel.ParseTypeRef(st, scope)
		if err != nil {
			return nil, errors.New(errors.GraphInvalid,
				fmt.Sprintf("type %s: invalid supertype %q", td.Name, st), err)
		}
		decl.Supertypes = append(decl.Supertypes, ref)
	}
	if td.Wrapped != nil {
		prop, err := td.Wrapped.toProperty(td.Name, scope)
		if err != nil {
			return nil, err
		}
		decl.Wrapped = &prop
	}
	return decl, nil
}

func (pd *PropertyDoc) toProperty(owner string, scope map[string]bool) (typemodel.PropertyDecl, error) {
	ref, err := typemodel.ParseTypeRef(pd.Type, scope)
	if err != nil {
		return typemodel.PropertyDecl{}, errors.New(errors.GraphInvalid,
			fmt.Sprintf("type %s: property %s has invalid type %q", owner, pd.Name, pd.Type), err)
	}
	return typemodel.PropertyDecl{Name: pd.Name, Type: ref, Mutable: pd.Mutable}, nil
}

func (cd *CallableDoc) toCallable() (*typemodel.Callable, error) {
	scope := paramScope(cd.TypeParams)
	callable := &typemodel.Callable{ID: cd.ID, TypeParams: cd.TypeParams}
	for _, pd := range cd.Params {
		ref, err := typemodel.ParseTypeRef(pd.Type, scope)
		if err != nil {
			return nil, errors.New(errors.GraphInvalid,
				fmt.Sprintf("callable %s: param %s has invalid type %q", cd.ID, pd.Name, pd.Type), err)
		}
		callable.Params = append(callable.Params, typemodel.CallableParam{Name: pd.Name, Type: ref})
	}
	return callable, nil
}

func paramScope(params []string) map[string]bool {
	if len(params) == 0 {
		return nil
	}
	scope := make(map[string]bool, len(params))
	for _, p := range params {
		scope[p] = true
	}
	return scope
}
