package grammar

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Hasenn/dokearley/internal/dokedef"
	"github.com/Hasenn/dokearley/internal/dokerrors"
)

// Compile resolves identifiers, interns terminals and nonterminals, expands
// disjunctions into pass-through productions, and computes nullability for
// the unresolved AST produced by dokedef.Parse. The returned Grammar is
// immutable and safe to share across any number of concurrent parse calls.
func Compile(ast *dokedef.Grammar) (*Grammar, error) {
	g := &Grammar{
		ID:               uuid.New(),
		NonterminalIndex: map[string]int{},
		TerminalIndex:    map[string]int{},
		ByLHS:            map[int][]int{},
	}

	// Pass 1: every LHS defines a nonterminal, interned in first-seen
	// order. This must complete before RHS resolution so that forward
	// references (a production mentioning a nonterminal defined later in
	// the source) resolve correctly - the compiled grammar is a flat table
	// keyed by id, not a tree of pointers, so cycles and forward refs are
	// free (see DESIGN.md).
	for _, p := range ast.Productions {
		g.internNonterminal(p.LHS)
	}

	c := &compiler{g: g}
	for _, p := range ast.Productions {
		if err := c.compileProduction(p); err != nil {
			return nil, err
		}
	}

	g.computeNullability()

	return g, nil
}

func (g *Grammar) internNonterminal(name string) int {
	if id, ok := g.NonterminalIndex[name]; ok {
		return id
	}
	id := len(g.Nonterminals)
	g.Nonterminals = append(g.Nonterminals, name)
	g.NonterminalIndex[name] = id
	return id
}

func (g *Grammar) internTerminal(lit string) int {
	if id, ok := g.TerminalIndex[lit]; ok {
		return id
	}
	id := len(g.Terminals)
	g.Terminals = append(g.Terminals, lit)
	g.TerminalIndex[lit] = id
	return id
}

func (g *Grammar) addProduction(lhs int, rhs []RHSSymbol, out OutputSpec) {
	id := len(g.Productions)
	g.Productions = append(g.Productions, Production{ID: id, LHS: lhs, RHS: rhs, Out: out})
	g.ByLHS[lhs] = append(g.ByLHS[lhs], id)
}

type compiler struct {
	g *Grammar
}

func (c *compiler) compileProduction(p dokedef.Production) error {
	lhsID := c.g.NonterminalIndex[p.LHS]

	switch p.RHS.Kind {
	case dokedef.RHSDisjunction:
		return c.compileDisjunction(lhsID, p)
	case dokedef.RHSPattern:
		return c.compilePattern(lhsID, p)
	default:
		return dokerrors.NewInvalidGrammar(p.Line, p.Col, "unrecognized production shape")
	}
}

func (c *compiler) compileDisjunction(lhsID int, p dokedef.Production) error {
	for _, altName := range p.RHS.Alternatives {
		altID, ok := c.g.NonterminalIndex[altName]
		if !ok {
			return dokerrors.NewUnknownSymbol(altName)
		}
		rhs := []RHSSymbol{{Kind: RHSNontermPassthrough, NonterminalID: altID}}
		c.g.addProduction(lhsID, rhs, OutputSpec{PassThrough: true})
	}
	return nil
}

func (c *compiler) compilePattern(lhsID int, p dokedef.Production) error {
	var rhs []RHSSymbol
	placeholderNames := map[string]bool{}

	for _, part := range p.RHS.Pattern {
		if !part.IsPlaceholder {
			for _, word := range strings.Fields(part.Literal) {
				termID := c.g.internTerminal(word)
				rhs = append(rhs, RHSSymbol{Kind: RHSLiteral, TerminalID: termID})
			}
			continue
		}

		if placeholderNames[part.Name] {
			return dokerrors.NewDuplicatePlaceholder(part.Name)
		}
		placeholderNames[part.Name] = true

		if bt, ok := ParseBuiltinType(part.Type); ok {
			rhs = append(rhs, RHSSymbol{Kind: RHSBuiltin, Builtin: bt, Name: part.Name})
			continue
		}

		ntID, ok := c.g.NonterminalIndex[part.Type]
		if !ok {
			return dokerrors.NewUnknownSymbol(part.Type)
		}
		rhs = append(rhs, RHSSymbol{Kind: RHSNonterm, NonterminalID: ntID, Name: part.Name})
	}

	out, err := c.compileOutputSpec(p.Output, placeholderNames)
	if err != nil {
		return err
	}

	c.g.addProduction(lhsID, rhs, out)
	return nil
}

func (c *compiler) compileOutputSpec(spec dokedef.OutputSpec, captured map[string]bool) (OutputSpec, error) {
	out := OutputSpec{
		Fields: map[string]ValueExpr{},
	}
	if !spec.Present {
		// No "-> ..." clause at all: treated the same as an explicit "{}",
		// i.e. dictionary mode with full capture propagation. See
		// DESIGN.md for the open-question decision this resolves.
		return out, nil
	}

	out.HasTypeName = spec.HasTypeName
	out.TypeName = spec.TypeName

	seenFieldNames := map[string]bool{}

	for _, f := range spec.Fields {
		if seenFieldNames[f.Name] {
			return OutputSpec{}, dokerrors.NewDuplicateOutputField(f.Name)
		}
		seenFieldNames[f.Name] = true

		switch f.Kind {
		case dokedef.FieldChildOne, dokedef.FieldChildMany:
			ntID, ok := c.g.NonterminalIndex[f.ChildNonterminal]
			if !ok {
				return OutputSpec{}, dokerrors.NewUnknownSymbol(f.ChildNonterminal)
			}
			if _, isBuiltin := ParseBuiltinType(f.ChildNonterminal); isBuiltin {
				return OutputSpec{}, dokerrors.NewUnknownSymbol(f.ChildNonterminal)
			}
			out.Children = append(out.Children, ChildCapture{
				Field:         f.Name,
				NonterminalID: ntID,
				Many:          f.Kind == dokedef.FieldChildMany,
			})
		case dokedef.FieldValue:
			expr, err := c.compileValueExpr(f, captured)
			if err != nil {
				return OutputSpec{}, err
			}
			out.Fields[f.Name] = expr
			out.FieldOrder = append(out.FieldOrder, f.Name)
		}
	}

	return out, nil
}

func (c *compiler) compileValueExpr(f dokedef.Field, captured map[string]bool) (ValueExpr, error) {
	switch f.ValueKind {
	case dokedef.ValueIdent:
		if !captured[f.ValueIdent] {
			return ValueExpr{}, dokerrors.NewUnknownSymbol(f.ValueIdent)
		}
		if f.ValueIdent == f.Name {
			return ValueExpr{Kind: ExprPlaceholder, PlaceholderName: f.ValueIdent}, nil
		}
		return ValueExpr{Kind: ExprPlaceholderRef, PlaceholderName: f.ValueIdent}, nil
	case dokedef.ValueInt:
		return ValueExpr{Kind: ExprLiteralInt, Int: f.ValueInt}, nil
	case dokedef.ValueFloat:
		return ValueExpr{Kind: ExprLiteralFloat, Float: f.ValueFloat}, nil
	case dokedef.ValueString:
		return ValueExpr{Kind: ExprLiteralString, String: f.ValueString}, nil
	default:
		return ValueExpr{}, dokerrors.NewInvalidGrammar(f.Line, f.Col, "unrecognized field value")
	}
}

// computeNullability runs the least-fixpoint worklist described in
// spec.md §3: a nonterminal is nullable iff some production for it has an
// RHS all of whose symbols are nullable, with terminals and builtin
// placeholders never nullable.
func (g *Grammar) computeNullability() {
	g.Nullable = make([]bool, len(g.Nonterminals))

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			if g.Nullable[p.LHS] {
				continue
			}
			if g.rhsIsNullable(p.RHS) {
				g.Nullable[p.LHS] = true
				changed = true
			}
		}
	}
}

func (g *Grammar) rhsIsNullable(rhs []RHSSymbol) bool {
	for _, s := range rhs {
		switch s.Kind {
		case RHSLiteral, RHSBuiltin:
			return false
		case RHSNonterm, RHSNontermPassthrough:
			if !g.Nullable[s.NonterminalID] {
				return false
			}
		}
	}
	return true
}
