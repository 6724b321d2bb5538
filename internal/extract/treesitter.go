//go:build cgo

package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"stabl/internal/graphfile"
	"stabl/internal/logging"
)

// Extractor builds graph documents from Kotlin sources using tree-sitter.
type Extractor struct {
	parser *sitter.Parser
	logger *logging.Logger
}

// NewExtractor creates a new extractor. A nil logger discards output.
func NewExtractor(logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	parser := sitter.NewParser()
	parser.SetLanguage(kotlin.GetLanguage())
	return &Extractor{
		parser: parser,
		logger: logger,
	}
}

// ExtractFile extracts declarations and callables from a single file.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*graphfile.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.ExtractSource(ctx, source)
}

// ExtractDirectory walks root, extracts every .kt file and merges the
// results into one document. Files that fail to parse are skipped with a
// warning.
func (e *Extractor) ExtractDirectory(ctx context.Context, root string) (*graphfile.Document, error) {
	merged := &graphfile.Document{Version: graphfile.CurrentVersion}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "build" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".kt") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		doc, err := e.ExtractFile(ctx, path)
		if err != nil {
			e.logger.Warn("skipping unparseable file", logging.Fields{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		merged.Types = append(merged.Types, doc.Types...)
		merged.Callables = append(merged.Callables, doc.Callables...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resolveCallees(merged)
	return merged, nil
}

// ExtractSource extracts declarations and callables from Kotlin source
// bytes.
func (e *Extractor) ExtractSource(ctx context.Context, source []byte) (*graphfile.Document, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()

	fx := &fileExtraction{
		source: source,
		pkg:    packageName(root, source),
		logger: e.logger,
	}
	fx.walkTopLevel(root)

	doc := &graphfile.Document{
		Version:   graphfile.CurrentVersion,
		Types:     fx.types,
		Callables: fx.callables,
	}
	resolveCallees(doc)
	return doc, nil
}

// fileExtraction accumulates the declarations of one file. Call edges
// are collected as raw simple names and resolved after the walk.
type fileExtraction struct {
	source []byte
	pkg    string
	logger *logging.Logger

	types     []graphfile.TypeDoc
	callables []graphfile.CallableDoc
}

func (fx *fileExtraction) walkTopLevel(root *sitter.Node) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "class_declaration", "interface_declaration", "object_declaration":
			fx.extractClass(child)
		case "function_declaration":
			if c := fx.extractFunction(child, ""); c != nil {
				fx.callables = append(fx.callables, *c)
			}
		}
	}
}

func (fx *fileExtraction) extractClass(node *sitter.Node) {
	name := fx.childText(node, "type_identifier")
	if name == "" {
		name = fx.childText(node, "simple_identifier") // object declarations
	}
	if name == "" {
		return
	}
	qualified := QualifyName(name, fx.pkg)

	mods := classModifiers(node, fx.source)
	td := graphfile.TypeDoc{
		Name:        qualified,
		Kind:        classKind(node, mods),
		Modality:    classModality(mods),
		Annotations: annotations(node, fx.source),
		TypeParams:  typeParamNames(node, fx.source),
	}
	scope := paramScope(td.TypeParams)

	for _, spec := range childrenOfType(node, "delegation_specifier") {
		text := baseTypeText(fx.text(spec))
		mapped, err := MapTypeText(text, fx.pkg, scope)
		if err != nil {
			fx.warnType(qualified, text, err)
			continue
		}
		td.Supertypes = append(td.Supertypes, mapped)
	}

	if ctor := firstChildOfType(node, "primary_constructor"); ctor != nil {
		for _, param := range childrenOfType(ctor, "class_parameter") {
			prop, ok := fx.constructorProperty(param, qualified, scope)
			if !ok {
				continue
			}
			td.Properties = append(td.Properties, prop)
		}
	}

	if body := firstChildOfType(node, "class_body"); body != nil {
		for _, decl := range childrenOfType(body, "property_declaration") {
			prop, ok := fx.bodyProperty(decl, qualified, scope)
			if ok {
				td.Properties = append(td.Properties, prop)
			}
		}
		for _, fn := range childrenOfType(body, "function_declaration") {
			if c := fx.extractFunction(fn, qualified); c != nil {
				fx.callables = append(fx.callables, *c)
			}
		}
	}

	if td.Kind == "value_class" && len(td.Properties) > 0 {
		wrapped := td.Properties[0]
		td.Wrapped = &wrapped
		td.Properties = nil
	}

	fx.types = append(fx.types, td)
}

// constructorProperty converts a `val`/`var` constructor parameter into a
// property. Plain parameters without a binding keyword declare no state
// and are skipped.
func (fx *fileExtraction) constructorProperty(param *sitter.Node, owner string, scope map[string]bool) (graphfile.PropertyDoc, bool) {
	binding := bindingKeyword(param, fx.source)
	if binding == "" {
		return graphfile.PropertyDoc{}, false
	}
	name := fx.childText(param, "simple_identifier")
	typeNode := typeChild(param)
	if name == "" || typeNode == nil {
		return graphfile.PropertyDoc{}, false
	}
	mapped, err := MapTypeText(stripSpace(fx.text(typeNode)), fx.pkg, scope)
	if err != nil {
		fx.warnType(owner, fx.text(typeNode), err)
		return graphfile.PropertyDoc{}, false
	}
	return graphfile.PropertyDoc{
		Name:    name,
		Type:    mapped,
		Mutable: binding == "var",
	}, true
}

func (fx *fileExtraction) bodyProperty(decl *sitter.Node, owner string, scope map[string]bool) (graphfile.PropertyDoc, bool) {
	binding := bindingKeyword(decl, fx.source)
	if binding == "" {
		return graphfile.PropertyDoc{}, false
	}
	varDecl := firstChildOfType(decl, "variable_declaration")
	if varDecl == nil {
		return graphfile.PropertyDoc{}, false
	}
	name := fx.childText(varDecl, "simple_identifier")
	typeNode := typeChild(varDecl)
	if name == "" || typeNode == nil {
		// Inferred property types need the compiler; skipped, the
		// classifier treats the class by its declared members only.
		return graphfile.PropertyDoc{}, false
	}
	mapped, err := MapTypeText(stripSpace(fx.text(typeNode)), fx.pkg, scope)
	if err != nil {
		fx.warnType(owner, fx.text(typeNode), err)
		return graphfile.PropertyDoc{}, false
	}
	return graphfile.PropertyDoc{
		Name:    name,
		Type:    mapped,
		Mutable: binding == "var",
	}, true
}

// extractFunction converts a function declaration into a callable.
// container is the owning class's qualified name, empty for top-level
// functions. Call edges are recorded as raw simple names for the
// post-walk resolution pass.
func (fx *fileExtraction) extractFunction(node *sitter.Node, container string) *graphfile.CallableDoc {
	name := fx.childText(node, "simple_identifier")
	if name == "" {
		return nil
	}
	id := QualifyName(name, fx.pkg)
	if container != "" {
		id = container + "." + name
	}

	cd := &graphfile.CallableDoc{
		ID:         id,
		TypeParams: typeParamNames(node, fx.source),
	}
	scope := paramScope(cd.TypeParams)

	if params := firstChildOfType(node, "function_value_parameters"); params != nil {
		for _, param := range childrenOfType(params, "parameter") {
			pname := fx.childText(param, "simple_identifier")
			typeNode := typeChild(param)
			if pname == "" || typeNode == nil {
				continue
			}
			text := stripSpace(fx.text(typeNode))
			mapped, err := fx.mapParamType(text, scope)
			if err != nil {
				fx.warnType(id, text, err)
				continue
			}
			cd.Params = append(cd.Params, graphfile.ParamDoc{Name: pname, Type: mapped})
		}
	}

	for _, call := range descendantsOfType(node, "call_expression") {
		if callee := fx.calleeName(call); callee != "" {
			cd.Callees = append(cd.Callees, callee)
		}
	}
	return cd
}

// mapParamType maps a parameter type, lowering Kotlin function-type
// syntax to the synthetic FunctionN names the classifier recognizes.
func (fx *fileExtraction) mapParamType(text string, scope map[string]bool) (string, error) {
	if name, ok := lowerFunctionType(text); ok {
		return name, nil
	}
	return MapTypeText(text, fx.pkg, scope)
}

// calleeName returns the simple name a call expression targets, or ""
// for calls the extractor cannot attribute (receivers, lambdas).
func (fx *fileExtraction) calleeName(call *sitter.Node) string {
	target := call.Child(0)
	if target == nil {
		return ""
	}
	switch target.Type() {
	case "simple_identifier":
		return fx.text(target)
	case "navigation_expression":
		// obj.method(...): take the trailing identifier
		last := target.Child(int(target.ChildCount()) - 1)
		if last != nil && last.Type() == "navigation_suffix" {
			if id := firstChildOfType(last, "simple_identifier"); id != nil {
				return fx.text(id)
			}
		}
	}
	return ""
}

func (fx *fileExtraction) warnType(owner, text string, err error) {
	fx.logger.Warn("skipping unmappable type", logging.Fields{
		"owner": owner,
		"type":  text,
		"error": err.Error(),
	})
}

func (fx *fileExtraction) text(node *sitter.Node) string {
	return string(fx.source[node.StartByte():node.EndByte()])
}

func (fx *fileExtraction) childText(node *sitter.Node, nodeType string) string {
	if child := firstChildOfType(node, nodeType); child != nil {
		return fx.text(child)
	}
	return ""
}

// resolveCallees rewrites the raw simple-name callees recorded during
// the walk into qualified callable ids. A simple name that matches
// exactly one extracted callable resolves to it; everything else is
// dropped as unresolvable.
func resolveCallees(doc *graphfile.Document) {
	bySimpleName := make(map[string][]string)
	for _, cd := range doc.Callables {
		simple := cd.ID
		if i := strings.LastIndex(simple, "."); i >= 0 {
			simple = simple[i+1:]
		}
		bySimpleName[simple] = append(bySimpleName[simple], cd.ID)
	}

	for i := range doc.Callables {
		var resolved []string
		seen := make(map[string]bool)
		for _, raw := range doc.Callables[i].Callees {
			targets := bySimpleName[raw]
			if len(targets) != 1 {
				continue // unknown or ambiguous, dropped
			}
			if seen[targets[0]] {
				continue
			}
			seen[targets[0]] = true
			resolved = append(resolved, targets[0])
		}
		doc.Callables[i].Callees = resolved
	}
}

func packageName(root *sitter.Node, source []byte) string {
	header := firstChildOfType(root, "package_header")
	if header == nil {
		return ""
	}
	if id := firstChildOfType(header, "identifier"); id != nil {
		return stripSpace(string(source[id.StartByte():id.EndByte()]))
	}
	return ""
}

func classKind(node *sitter.Node, mods []string) string {
	if node.Type() == "interface_declaration" {
		return "interface"
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil && child.Type() == "interface" {
			return "interface"
		}
	}
	for _, m := range mods {
		switch m {
		case "enum":
			return "enum"
		case "value", "inline":
			return "value_class"
		}
	}
	return "class"
}

func classModality(mods []string) string {
	for _, m := range mods {
		switch m {
		case "abstract", "sealed", "open":
			return m
		}
	}
	return "final"
}

func classModifiers(node *sitter.Node, source []byte) []string {
	mods := firstChildOfType(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child == nil || child.Type() == "annotation" {
			continue
		}
		out = append(out, stripSpace(string(source[child.StartByte():child.EndByte()])))
	}
	return out
}

// annotations collects the annotation names attached to a declaration,
// without the @ sigil or constructor arguments.
func annotations(node *sitter.Node, source []byte) []string {
	mods := firstChildOfType(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for _, ann := range childrenOfType(mods, "annotation") {
		text := string(source[ann.StartByte():ann.EndByte()])
		text = strings.TrimPrefix(text, "@")
		if i := strings.IndexByte(text, '('); i >= 0 {
			text = text[:i]
		}
		out = append(out, stripSpace(text))
	}
	return out
}

func typeParamNames(node *sitter.Node, source []byte) []string {
	params := firstChildOfType(node, "type_parameters")
	if params == nil {
		return nil
	}
	var out []string
	for _, tp := range childrenOfType(params, "type_parameter") {
		if id := firstChildOfType(tp, "type_identifier"); id != nil {
			out = append(out, string(source[id.StartByte():id.EndByte()]))
		}
	}
	return out
}

// bindingKeyword returns "val", "var" or "" for a parameter or property
// node.
func bindingKeyword(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "val", "var":
			return child.Type()
		case "binding_pattern_kind":
			return stripSpace(string(source[child.StartByte():child.EndByte()]))
		}
	}
	return ""
}

// typeChild returns the type annotation node of a parameter or variable
// declaration.
func typeChild(node *sitter.Node) *sitter.Node {
	for _, t := range []string{"user_type", "nullable_type", "type_reference", "function_type"} {
		if child := firstChildOfType(node, t); child != nil {
			return child
		}
	}
	return nil
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

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func childrenOfType(node *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == nodeType {
			out = append(out, child)
		}
	}
	return out
}

func descendantsOfType(node *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == nodeType {
			out = append(out, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(node)
	return out
}
