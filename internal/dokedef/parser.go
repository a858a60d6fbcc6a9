package dokedef

import (
	"fmt"
	"strings"

	"github.com/Hasenn/dokearley/internal/dokerrors"
)

// Parse reads dokedef source text and returns the unresolved AST, or an
// *dokerrors.InvalidGrammar on the first lexical or shape error.
func Parse(src string) (*Grammar, error) {
	p := &parser{lx: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	g := &Grammar{}
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	for p.cur.kind != tokEOF {
		prod, err := p.parseProduction()
		if err != nil {
			return nil, err
		}
		g.Productions = append(g.Productions, prod)

		if p.cur.kind != tokEOF {
			if p.cur.kind != tokNewline && p.cur.kind != tokSemicolon {
				return nil, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, "expected end of production (newline or ';')")
			}
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}

	return g, nil
}

type parser struct {
	lx  *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) skipSeparators() error {
	for p.cur.kind == tokNewline || p.cur.kind == tokSemicolon {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, fmt.Sprintf("expected %s", what))
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) parseProduction() (Production, error) {
	line, col := p.cur.line, p.cur.col

	lhsTok, err := p.expect(tokIdent, "a nonterminal name")
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return Production{}, err
	}

	switch p.cur.kind {
	case tokStringLit:
		return p.parsePatternProduction(lhsTok.text, line, col)
	case tokIdent:
		return p.parseDisjunctionProduction(lhsTok.text, line, col)
	default:
		return Production{}, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, "expected a quoted pattern or a nonterminal name")
	}
}

func (p *parser) parsePatternProduction(lhs string, line, col int) (Production, error) {
	strTok, err := p.expect(tokStringLit, "a quoted pattern")
	if err != nil {
		return Production{}, err
	}

	parts, err := splitPattern(strTok.text, strTok.line, strTok.col)
	if err != nil {
		return Production{}, err
	}
	blank := true
	for _, part := range parts {
		if part.IsPlaceholder || strings.TrimSpace(part.Literal) != "" {
			blank = false
			break
		}
	}
	if blank {
		return Production{}, dokerrors.NewInvalidGrammar(strTok.line, strTok.col,
			"empty patterns (nullable productions) are not supported: no syntax has been chosen for declaring them")
	}

	prod := Production{
		LHS:  lhs,
		RHS:  RHS{Kind: RHSPattern, Pattern: parts},
		Line: line,
		Col:  col,
	}

	if p.cur.kind == tokArrow {
		if err := p.advance(); err != nil {
			return Production{}, err
		}
		out, err := p.parseOutputSpec()
		if err != nil {
			return Production{}, err
		}
		prod.Output = out
	}

	return prod, nil
}

func (p *parser) parseDisjunctionProduction(lhs string, line, col int) (Production, error) {
	firstTok, err := p.expect(tokIdent, "a nonterminal name")
	if err != nil {
		return Production{}, err
	}

	alts := []string{firstTok.text}
	for p.cur.kind == tokPipe {
		if err := p.advance(); err != nil {
			return Production{}, err
		}
		altTok, err := p.expect(tokIdent, "a nonterminal name")
		if err != nil {
			return Production{}, err
		}
		alts = append(alts, altTok.text)
	}

	if len(alts) < 1 {
		return Production{}, dokerrors.NewInvalidGrammar(line, col, "a disjunction needs at least one alternative")
	}

	return Production{
		LHS:  lhs,
		RHS:  RHS{Kind: RHSDisjunction, Alternatives: alts},
		Line: line,
		Col:  col,
	}, nil
}

func (p *parser) parseOutputSpec() (OutputSpec, error) {
	out := OutputSpec{Present: true}

	if p.cur.kind == tokIdent {
		typeTok := p.cur
		if err := p.advance(); err != nil {
			return OutputSpec{}, err
		}
		out.HasTypeName = true
		out.TypeName = typeTok.text

		if p.cur.kind != tokLBrace {
			// bare "TypeName" form
			return out, nil
		}
	} else if p.cur.kind != tokLBrace {
		return OutputSpec{}, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, "expected an output spec")
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return OutputSpec{}, err
	}
	if p.cur.kind == tokRBrace {
		if err := p.advance(); err != nil {
			return OutputSpec{}, err
		}
		return out, nil
	}

	for {
		field, err := p.parseField()
		if err != nil {
			return OutputSpec{}, err
		}
		out.Fields = append(out.Fields, field)

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return OutputSpec{}, err
			}
			continue
		}
		break
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return OutputSpec{}, err
	}
	return out, nil
}

func (p *parser) parseField() (Field, error) {
	line, col := p.cur.line, p.cur.col
	nameTok, err := p.expect(tokIdent, "a field name")
	if err != nil {
		return Field{}, err
	}

	switch p.cur.kind {
	case tokLt:
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		ntTok, err := p.expect(tokIdent, "a nonterminal name")
		if err != nil {
			return Field{}, err
		}
		return Field{Name: nameTok.text, Kind: FieldChildOne, ChildNonterminal: ntTok.text, Line: line, Col: col}, nil
	case tokLtStar:
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		ntTok, err := p.expect(tokIdent, "a nonterminal name")
		if err != nil {
			return Field{}, err
		}
		return Field{Name: nameTok.text, Kind: FieldChildMany, ChildNonterminal: ntTok.text, Line: line, Col: col}, nil
	case tokColon:
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		return p.parseValueField(nameTok.text, line, col)
	default:
		return Field{}, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, "expected ':', '<', or '<*' after field name")
	}
}

func (p *parser) parseValueField(name string, line, col int) (Field, error) {
	field := Field{Name: name, Kind: FieldValue, Line: line, Col: col}

	switch p.cur.kind {
	case tokIdent:
		field.ValueKind = ValueIdent
		field.ValueIdent = p.cur.text
	case tokIntLit:
		field.ValueKind = ValueInt
		field.ValueInt = p.cur.intVal
	case tokFloatLit:
		field.ValueKind = ValueFloat
		field.ValueFloat = p.cur.fltVal
	case tokStringLit:
		field.ValueKind = ValueString
		field.ValueString = p.cur.text
	default:
		return Field{}, dokerrors.NewInvalidGrammar(p.cur.line, p.cur.col, "expected an identifier, number, or string literal")
	}

	if err := p.advance(); err != nil {
		return Field{}, err
	}
	return field, nil
}
