package typemodel

// Layer combines two facades: lookups try primary first and fall back to
// fallback. Used to put user graphs in front of the standard-library
// prelude without merging them.
func Layer(primary, fallback Facade) Facade {
	return layered{primary: primary, fallback: fallback}
}

type layered struct {
	primary  Facade
	fallback Facade
}

func (l layered) Resolve(ref TypeRef) (*ClassDecl, bool) {
	if decl, ok := l.primary.Resolve(ref); ok {
		return decl, true
	}
	return l.fallback.Resolve(ref)
}

func (l layered) ExpandAlias(ref TypeRef) TypeRef {
	expanded := l.primary.ExpandAlias(ref)
	if Render(expanded) != Render(ref) {
		return expanded
	}
	return l.fallback.ExpandAlias(ref)
}
