package typemodel

import "sort"

// maxAliasDepth caps alias chain expansion. Chains longer than this (which
// in practice means a cycle) stop expanding; the unresolved tail then
// degrades to a runtime verdict downstream.
const maxAliasDepth = 16

// Snapshot is an in-memory Facade over a fixed set of declarations and
// aliases. It backs tests, the YAML graph loader, and embedders that build
// their type facts programmatically. Register everything up front; the
// snapshot is read-only once handed to a classifier.
type Snapshot struct {
	decls   map[string]*ClassDecl
	aliases map[string]TypeRef
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		decls:   make(map[string]*ClassDecl),
		aliases: make(map[string]TypeRef),
	}
}

// AddClass registers a declaration under its qualified name, filling the
// simple name when absent. Returns the snapshot for chaining.
func (s *Snapshot) AddClass(decl *ClassDecl) *Snapshot {
	if decl.SimpleName == "" {
		decl.SimpleName = SimpleNameOf(decl.QualifiedName)
	}
	if decl.Kind == "" {
		decl.Kind = KindClass
	}
	if decl.Modality == "" {
		decl.Modality = ModalityFinal
	}
	s.decls[decl.QualifiedName] = decl
	return s
}

// AddAlias registers a type alias from name to target.
func (s *Snapshot) AddAlias(name string, target TypeRef) *Snapshot {
	s.aliases[name] = target
	return s
}

// Resolve implements Facade.
func (s *Snapshot) Resolve(ref TypeRef) (*ClassDecl, bool) {
	decl, ok := s.decls[ref.Name]
	return decl, ok
}

// ExpandAlias implements Facade. It follows both inline alias targets and
// the registered alias table, preserving the outermost nullability so that
// `AliasName?` stays nullable after expansion.
func (s *Snapshot) ExpandAlias(ref TypeRef) TypeRef {
	nullable := ref.Nullable
	for i := 0; i < maxAliasDepth; i++ {
		if ref.Alias != nil {
			ref = *ref.Alias
			continue
		}
		target, ok := s.aliases[ref.Name]
		if !ok {
			break
		}
		ref = target
	}
	if nullable {
		ref.Nullable = true
	}
	return ref
}

// Len returns the number of registered declarations.
func (s *Snapshot) Len() int {
	return len(s.decls)
}

// Decls returns all registered declarations sorted by qualified name.
func (s *Snapshot) Decls() []*ClassDecl {
	out := make([]*ClassDecl, 0, len(s.decls))
	for _, d := range s.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName < out[j].QualifiedName })
	return out
}

// Aliases returns a copy of the registered alias table.
func (s *Snapshot) Aliases() map[string]TypeRef {
	out := make(map[string]TypeRef, len(s.aliases))
	for name, target := range s.aliases {
		out[name] = target
	}
	return out
}
