package wgsl

import "sort"

// DeclKind identifies the kind of a top-level declaration.
type DeclKind uint8

const (
	DeclFn DeclKind = iota
	DeclStruct
	DeclVar
	DeclConst
	DeclOverride
	DeclAlias
)

// String returns the WGSL keyword for the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclFn:
		return "fn"
	case DeclStruct:
		return "struct"
	case DeclVar:
		return "var"
	case DeclConst:
		return "const"
	case DeclOverride:
		return "override"
	case DeclAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Ref is a name referenced by a declaration: a type in a member, parameter,
// or return position, or the callee of a call expression.
type Ref struct {
	Name string
	Span Span
}

// Decl is a top-level declaration extracted from a translation unit.
type Decl struct {
	Kind DeclKind
	Name string
	Span Span
	Refs []Ref
}

// Module is the module-level structure of one WGSL translation unit.
type Module struct {
	Decls []Decl
}

// Names returns the sorted set of declared top-level names.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Decls))
	for _, d := range m.Decls {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a declaration by name. With duplicate declarations the first
// one wins; Validate reports the duplicates.
func (m *Module) Lookup(name string) (Decl, bool) {
	for _, d := range m.Decls {
		if d.Name == name {
			return d, true
		}
	}
	return Decl{}, false
}

// attrsWithConstArgs are the attributes whose arguments are const
// expressions that may reference module-scope declarations, e.g.
// @workgroup_size(BLOCK). Other attribute arguments (@builtin(position),
// @interpolate(flat)) are enumerants, not references.
var attrsWithConstArgs = map[string]bool{
	"align":          true,
	"binding":        true,
	"blend_src":      true,
	"group":          true,
	"id":             true,
	"location":       true,
	"size":           true,
	"workgroup_size": true,
}

// ScanModule extracts the top-level declarations of a WGSL translation
// unit. It is a structural scan, not a parse: bodies and initializers are
// walked only to find their extent and to collect referenced names.
func ScanModule(source string) (*Module, *SourceError) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	ms := &moduleScanner{tokens: tokens, source: source}
	return ms.scan()
}

type moduleScanner struct {
	tokens []Token
	source string
	i      int
}

func (ms *moduleScanner) scan() (*Module, *SourceError) {
	module := &Module{}
	for {
		tok := ms.cur()
		if tok.Kind == TokenEOF {
			return module, nil
		}

		// Leading attributes belong to the declaration that follows.
		attrRefs, err := ms.attributes()
		if err != nil {
			return nil, err
		}

		tok = ms.cur()
		if tok.Kind != TokenIdent {
			return nil, NewSourceErrorf(tok.Span, ms.source, "expected declaration, found %q", tok.Lexeme)
		}

		switch tok.Lexeme {
		case "enable", "requires", "diagnostic", "const_assert":
			if err := ms.skipToSemicolon(tok); err != nil {
				return nil, err
			}
		case "fn":
			decl, err := ms.fnDecl(attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		case "struct":
			decl, err := ms.structDecl(attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		case "var":
			decl, err := ms.statementDecl(DeclVar, attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		case "const", "let":
			decl, err := ms.statementDecl(DeclConst, attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		case "override":
			decl, err := ms.statementDecl(DeclOverride, attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		case "alias":
			decl, err := ms.aliasDecl(attrRefs)
			if err != nil {
				return nil, err
			}
			module.Decls = append(module.Decls, decl)
		default:
			return nil, NewSourceErrorf(tok.Span, ms.source, "expected declaration, found %q", tok.Lexeme)
		}
	}
}

// attributes consumes a run of @attr or @attr(args) and returns references
// found in const-expression argument lists.
func (ms *moduleScanner) attributes() ([]Ref, *SourceError) {
	var refs []Ref
	for ms.cur().Is("@") {
		ms.next()
		name := ms.cur()
		if name.Kind != TokenIdent {
			return nil, NewSourceErrorf(name.Span, ms.source, "expected attribute name, found %q", name.Lexeme)
		}
		ms.next()
		if !ms.cur().Is("(") {
			continue
		}
		depth := 0
		for {
			tok := ms.cur()
			switch {
			case tok.Kind == TokenEOF:
				return nil, NewSourceErrorf(name.Span, ms.source, "unterminated attribute @%s", name.Lexeme)
			case tok.Is("("):
				depth++
			case tok.Is(")"):
				depth--
			case tok.Kind == TokenIdent && attrsWithConstArgs[name.Lexeme]:
				refs = append(refs, Ref{Name: tok.Lexeme, Span: tok.Span})
			}
			ms.next()
			if depth == 0 {
				break
			}
		}
	}
	return refs, nil
}

// fnDecl scans "fn name(params) -> ret { body }".
func (ms *moduleScanner) fnDecl(attrRefs []Ref) (Decl, *SourceError) {
	kw := ms.cur()
	ms.next()
	name := ms.cur()
	if name.Kind != TokenIdent {
		return Decl{}, NewSourceErrorf(name.Span, ms.source, "expected function name, found %q", name.Lexeme)
	}
	ms.next()

	// Signature runs to the opening brace, the body to its match.
	sigStart := ms.i
	for !ms.cur().Is("{") {
		if ms.cur().Kind == TokenEOF {
			return Decl{}, NewSourceErrorf(name.Span, ms.source, "function %q has no body", name.Lexeme)
		}
		ms.next()
	}
	bodyStart := ms.i
	depth := 0
	for {
		tok := ms.cur()
		switch {
		case tok.Kind == TokenEOF:
			return Decl{}, NewSourceErrorf(ms.tokens[bodyStart].Span, ms.source, "unbalanced braces in function %q", name.Lexeme)
		case tok.Is("{"):
			depth++
		case tok.Is("}"):
			depth--
		}
		ms.next()
		if depth == 0 {
			break
		}
	}
	end := ms.tokens[ms.i-1].Span.End

	refs := append(attrRefs, collectRefs(ms.tokens[sigStart:ms.i])...)
	return Decl{
		Kind: DeclFn,
		Name: name.Lexeme,
		Span: Span{Start: kw.Span.Start, End: end},
		Refs: refs,
	}, nil
}

// structDecl scans "struct Name { members }" with an optional trailing
// semicolon.
func (ms *moduleScanner) structDecl(attrRefs []Ref) (Decl, *SourceError) {
	kw := ms.cur()
	ms.next()
	name := ms.cur()
	if name.Kind != TokenIdent {
		return Decl{}, NewSourceErrorf(name.Span, ms.source, "expected struct name, found %q", name.Lexeme)
	}
	ms.next()
	if !ms.cur().Is("{") {
		return Decl{}, NewSourceErrorf(ms.cur().Span, ms.source, "expected '{' after struct %q", name.Lexeme)
	}
	bodyStart := ms.i
	depth := 0
	for {
		tok := ms.cur()
		switch {
		case tok.Kind == TokenEOF:
			return Decl{}, NewSourceErrorf(ms.tokens[bodyStart].Span, ms.source, "unbalanced braces in struct %q", name.Lexeme)
		case tok.Is("{"):
			depth++
		case tok.Is("}"):
			depth--
		}
		ms.next()
		if depth == 0 {
			break
		}
	}
	end := ms.tokens[ms.i-1].Span.End
	if ms.cur().Is(";") {
		ms.next()
	}

	refs := append(attrRefs, collectRefs(ms.tokens[bodyStart:ms.i])...)
	return Decl{
		Kind: DeclStruct,
		Name: name.Lexeme,
		Span: Span{Start: kw.Span.Start, End: end},
		Refs: refs,
	}, nil
}

// statementDecl scans a semicolon-terminated declaration: module-scope var
// (with an optional <address_space, access> template), const, or override.
func (ms *moduleScanner) statementDecl(kind DeclKind, attrRefs []Ref) (Decl, *SourceError) {
	kw := ms.cur()
	ms.next()

	// var<uniform>, var<storage, read_write>: the template names address
	// spaces, not declarations, so it is skipped rather than collected.
	if kw.Lexeme == "var" && ms.cur().Is("<") {
		for !ms.cur().Is(">") {
			if ms.cur().Kind == TokenEOF {
				return Decl{}, NewSourceErrorf(kw.Span, ms.source, "unterminated var template")
			}
			ms.next()
		}
		ms.next()
	}

	name := ms.cur()
	if name.Kind != TokenIdent {
		return Decl{}, NewSourceErrorf(name.Span, ms.source, "expected %s name, found %q", kw.Lexeme, name.Lexeme)
	}
	ms.next()

	start := ms.i
	if err := ms.skipToSemicolon(name); err != nil {
		return Decl{}, err
	}
	end := ms.tokens[ms.i-1].Span.End

	refs := append(attrRefs, collectRefs(ms.tokens[start:ms.i])...)
	return Decl{
		Kind: kind,
		Name: name.Lexeme,
		Span: Span{Start: kw.Span.Start, End: end},
		Refs: refs,
	}, nil
}

// aliasDecl scans "alias Name = Type;". The whole right-hand side is a type
// expression.
func (ms *moduleScanner) aliasDecl(attrRefs []Ref) (Decl, *SourceError) {
	kw := ms.cur()
	ms.next()
	name := ms.cur()
	if name.Kind != TokenIdent {
		return Decl{}, NewSourceErrorf(name.Span, ms.source, "expected alias name, found %q", name.Lexeme)
	}
	ms.next()
	if !ms.cur().Is("=") {
		return Decl{}, NewSourceErrorf(ms.cur().Span, ms.source, "expected '=' after alias %q", name.Lexeme)
	}
	ms.next()

	refs := attrRefs
	for !ms.cur().Is(";") {
		tok := ms.cur()
		if tok.Kind == TokenEOF {
			return Decl{}, NewSourceErrorf(name.Span, ms.source, "unterminated alias %q", name.Lexeme)
		}
		if tok.Kind == TokenIdent {
			refs = append(refs, Ref{Name: tok.Lexeme, Span: tok.Span})
		}
		ms.next()
	}
	ms.next()
	end := ms.tokens[ms.i-1].Span.End

	return Decl{
		Kind: DeclAlias,
		Name: name.Lexeme,
		Span: Span{Start: kw.Span.Start, End: end},
		Refs: refs,
	}, nil
}

// skipToSemicolon advances past a semicolon-terminated item, tracking
// bracket depth so initializer expressions cannot end the item early.
func (ms *moduleScanner) skipToSemicolon(at Token) *SourceError {
	depth := 0
	for {
		tok := ms.cur()
		switch {
		case tok.Kind == TokenEOF:
			return NewSourceErrorf(at.Span, ms.source, "missing ';' after %q", at.Lexeme)
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
		case tok.Is(";") && depth == 0:
			ms.next()
			return nil
		}
		ms.next()
	}
}

func (ms *moduleScanner) cur() Token {
	return ms.tokens[ms.i]
}

func (ms *moduleScanner) next() {
	if ms.i < len(ms.tokens)-1 {
		ms.i++
	}
}

// collectRefs walks a token range and gathers referenced names:
//
//   - identifiers in type position (after ':' or '->', including template
//     arguments such as the Foo in array<Foo, 4>)
//   - callees of call expressions (ident immediately followed by '('),
//     excluding member access
//
// Plain identifier reads inside expressions are not collected; resolving
// them would require scope analysis, which belongs to the downstream
// compiler.
func collectRefs(tokens []Token) []Ref {
	var refs []Ref
	typeCtx := false
	angleDepth := 0
	var prev Token

	for idx := 0; idx < len(tokens); idx++ {
		tok := tokens[idx]
		switch {
		case tok.Is("@"):
			// Skip the attribute name and its argument list; attribute
			// arguments in type position (-> @builtin(position) vec4<f32>)
			// are enumerants, not references.
			if idx+1 < len(tokens) && tokens[idx+1].Kind == TokenIdent {
				idx++
			}
			if idx+1 < len(tokens) && tokens[idx+1].Is("(") {
				depth := 0
				for idx+1 < len(tokens) {
					idx++
					if tokens[idx].Is("(") {
						depth++
					} else if tokens[idx].Is(")") {
						depth--
						if depth == 0 {
							break
						}
					}
				}
			}
		case tok.Is(":") || tok.Lexeme == "->" && tok.Kind == TokenPunct:
			typeCtx = true
			angleDepth = 0
		case typeCtx && tok.Is("<"):
			angleDepth++
		case typeCtx && tok.Is(">"):
			if angleDepth > 0 {
				angleDepth--
			}
		case typeCtx && angleDepth == 0 &&
			(tok.Is(",") || tok.Is(";") || tok.Is("=") || tok.Is("{") || tok.Is(")") || tok.Is("}")):
			typeCtx = false
		case tok.Kind == TokenIdent:
			if typeCtx {
				refs = append(refs, Ref{Name: tok.Lexeme, Span: tok.Span})
				break
			}
			// Call position: ident directly followed by '(' and not a
			// member access.
			if idx+1 < len(tokens) && tokens[idx+1].Is("(") && !prev.Is(".") {
				refs = append(refs, Ref{Name: tok.Lexeme, Span: tok.Span})
			}
		}
		prev = tok
	}
	return refs
}
