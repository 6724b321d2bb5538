package typemodel

import (
	"fmt"
	"strings"
)

// ParseTypeRef parses the textual type reference syntax used by graph
// documents: `Name<Arg, Arg>?`. Names whose base appears in typeParams are
// marked as unbound type parameters. Nesting is allowed; whitespace around
// names and commas is ignored.
func ParseTypeRef(s string, typeParams map[string]bool) (TypeRef, error) {
	p := &refParser{input: s, typeParams: typeParams}
	ref, err := p.parseRef()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return TypeRef{}, fmt.Errorf("unexpected trailing input at offset %d in %q", p.pos, s)
	}
	return ref, nil
}

type refParser struct {
	input      string
	pos        int
	typeParams map[string]bool
}

func (p *refParser) parseRef() (TypeRef, error) {
	p.skipSpace()
	name := p.readName()
	if name == "" {
		return TypeRef{}, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.input)
	}

	ref := TypeRef{Name: name}
	if p.typeParams[name] {
		ref.TypeParam = true
	}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseRef()
			if err != nil {
				return TypeRef{}, err
			}
			ref.Arguments = append(ref.Arguments, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return TypeRef{}, fmt.Errorf("expected ',' or '>' at offset %d in %q", p.pos, p.input)
			}
			break
		}
	}

	p.skipSpace()
	if p.peek() == '?' {
		p.pos++
		ref.Nullable = true
	}
	return ref, nil
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *refParser) readName() string {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("<>,? \t", rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}
