package stability

// MaxRecursionDepth bounds classification recursion for pathological but
// non-cyclic inputs (deeply nested generics). Beyond it the classifier
// degrades to a runtime verdict instead of risking stack exhaustion.
const MaxRecursionDepth = 64

// Guard tracks the recursion state of a single top-level classification
// request. It owns both cycle-detection mechanisms:
//
//   - the signature guard, keyed by the canonical rendering of the type
//     currently being classified; re-entry means a self- or mutually-
//     referential type and yields a runtime verdict,
//   - the symbol guard, keyed by declaration identity inside class
//     analysis; re-entry yields a stable verdict.
//
// A Guard belongs to exactly one request. Allocate a fresh one per
// top-level call; never share across concurrent requests.
type Guard struct {
	stack      []string
	signatures map[string]int
	symbols    map[string]bool
}

// NewGuard creates an empty guard for one classification request.
func NewGuard() *Guard {
	return &Guard{
		signatures: make(map[string]int),
		symbols:    make(map[string]bool),
	}
}

// Depth returns the current classification recursion depth.
func (g *Guard) Depth() int {
	return len(g.stack)
}

// EnterType pushes a type signature onto the analysis stack. It returns
// false when the signature is already on the stack, i.e. re-entrant
// analysis of the same type along the current path.
func (g *Guard) EnterType(signature string) bool {
	if g.signatures[signature] > 0 {
		return false
	}
	g.signatures[signature]++
	g.stack = append(g.stack, signature)
	return true
}

// LeaveType pops a type signature. Callers must pair every successful
// EnterType with exactly one LeaveType on every exit path.
func (g *Guard) LeaveType(signature string) {
	if n := len(g.stack); n > 0 && g.stack[n-1] == signature {
		g.stack = g.stack[:n-1]
	}
	if g.signatures[signature] > 0 {
		g.signatures[signature]--
	}
}

// EnterSymbol marks a declaration as currently under class analysis. It
// returns false on re-entry.
func (g *Guard) EnterSymbol(qualifiedName string) bool {
	if g.symbols[qualifiedName] {
		return false
	}
	g.symbols[qualifiedName] = true
	return true
}

// LeaveSymbol unmarks a declaration.
func (g *Guard) LeaveSymbol(qualifiedName string) {
	delete(g.symbols, qualifiedName)
}
