// Package grammar holds the compiled, immutable grammar data model: interned
// symbol tables, productions, and precomputed nullability. A *Grammar is
// built once by Compile and is safe for concurrent use by any number of
// recognizer/evaluator calls afterward, matching the ictiobus Grammar's
// "build once, use everywhere" lifecycle.
package grammar

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuiltinType is one of the three fixed value types a placeholder may carry
// without referring to a user-defined nonterminal.
type BuiltinType int

const (
	// BuiltinNone marks a RHSSymbol that doesn't carry a builtin type (it's
	// a literal or a nonterminal reference).
	BuiltinNone BuiltinType = iota
	BuiltinInt
	BuiltinFloat
	BuiltinString
)

func (b BuiltinType) String() string {
	switch b {
	case BuiltinInt:
		return "Int"
	case BuiltinFloat:
		return "Float"
	case BuiltinString:
		return "String"
	default:
		return "<none>"
	}
}

// ParseBuiltinType returns the BuiltinType for one of the three reserved
// keywords, or (BuiltinNone, false) if name isn't a builtin keyword at all.
func ParseBuiltinType(name string) (BuiltinType, bool) {
	switch name {
	case "Int":
		return BuiltinInt, true
	case "Float":
		return BuiltinFloat, true
	case "String":
		return BuiltinString, true
	default:
		return BuiltinNone, false
	}
}

// RHSKind distinguishes the four shapes an RHS symbol can take.
type RHSKind int

const (
	// RHSLiteral is a literal text chunk, tokenized at compile time; it
	// contributes no placeholder to the capture environment.
	RHSLiteral RHSKind = iota

	// RHSBuiltin is a placeholder whose type is one of Int/Float/String.
	RHSBuiltin

	// RHSNonterm is a placeholder whose type is a user nonterminal.
	RHSNonterm

	// RHSNontermPassthrough is the single symbol of a disjunction-expanded
	// production: a bare nonterminal reference with no field name, whose
	// value is returned unchanged by the evaluator.
	RHSNontermPassthrough
)

// RHSSymbol is one element of a production's right-hand side, unifying
// what the Earley recognizer needs (what can this position match) and
// what the evaluator needs (what capture, if any, does this position
// produce).
type RHSSymbol struct {
	Kind RHSKind

	// TerminalID is valid when Kind == RHSLiteral.
	TerminalID int

	// Builtin is valid when Kind == RHSBuiltin.
	Builtin BuiltinType

	// NonterminalID is valid when Kind is RHSNonterm or
	// RHSNontermPassthrough.
	NonterminalID int

	// Name is the placeholder's field name. Set for RHSBuiltin and
	// RHSNonterm; empty for RHSLiteral and RHSNontermPassthrough.
	Name string
}

// IsNonterminalPosition reports whether the recognizer should predict/
// complete at this RHS position, as opposed to scanning a token.
func (s RHSSymbol) IsNonterminalPosition() bool {
	return s.Kind == RHSNonterm || s.Kind == RHSNontermPassthrough
}

// ValueExprKind distinguishes the five output-field value expression
// shapes spec.md's OutputSpec allows.
type ValueExprKind int

const (
	// ExprPlaceholder binds the field to the value captured by the
	// placeholder of the same name.
	ExprPlaceholder ValueExprKind = iota

	// ExprPlaceholderRef binds the field to the value captured by a
	// differently-named placeholder. Per the documented quirk in
	// spec.md §3 and §9, the referenced placeholder's own name is ALSO
	// retained as an output field - this is handled by the evaluator,
	// not encoded here.
	ExprPlaceholderRef

	ExprLiteralInt
	ExprLiteralFloat
	ExprLiteralString
)

// ValueExpr is the value side of one output-spec field.
type ValueExpr struct {
	Kind ValueExprKind

	// PlaceholderName is valid for ExprPlaceholder/ExprPlaceholderRef.
	PlaceholderName string

	Int    int64
	Float  float64
	String string
}

// ChildCapture is an output-spec field fed by subordinate statements parsed
// by the caller through the child-capture bridge, not by anything present
// in the production's own RHS.
type ChildCapture struct {
	Field         string
	NonterminalID int
	Many          bool // One (<) when false, Many (<*) when true
}

// OutputSpec describes how to build the output Value for a matched
// production: optionally a Resource type name, a set of named fields, and
// zero or more child captures.
type OutputSpec struct {
	// HasTypeName is true for "TypeName { ... }" and bare "TypeName" specs;
	// false for dictionary mode ("{ ... }" or the implicit empty spec).
	HasTypeName bool
	TypeName    string

	// Fields maps output field name to how its value is computed.
	// FieldOrder preserves declaration order for deterministic dict
	// iteration in diagnostics and tests.
	Fields     map[string]ValueExpr
	FieldOrder []string

	Children []ChildCapture

	// PassThrough marks a disjunction-expanded production: ignore all of
	// the above and return the single child's value unchanged.
	PassThrough bool
}

// Production is one grammar rule: an LHS nonterminal, an ordered RHS, and
// how to build the output value when it matches.
type Production struct {
	ID  int
	LHS int // nonterminal id
	RHS []RHSSymbol
	Out OutputSpec
}

// Equal reports whether p and o describe the same rule: same LHS, RHS
// symbols, and output spec, following the teacher's Equal(o any) bool
// convention. IDs are compared too, since two productions that happen to
// share a shape but were interned separately are still distinct rules.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if p.ID != other.ID || p.LHS != other.LHS {
		return false
	}
	if len(p.RHS) != len(other.RHS) {
		return false
	}
	for i := range p.RHS {
		if p.RHS[i] != other.RHS[i] {
			return false
		}
	}
	return p.Out.equal(other.Out)
}

func (o OutputSpec) equal(other OutputSpec) bool {
	if o.HasTypeName != other.HasTypeName || o.TypeName != other.TypeName || o.PassThrough != other.PassThrough {
		return false
	}
	if len(o.FieldOrder) != len(other.FieldOrder) {
		return false
	}
	for i, name := range o.FieldOrder {
		if other.FieldOrder[i] != name {
			return false
		}
		if o.Fields[name] != other.Fields[name] {
			return false
		}
	}
	if len(o.Children) != len(other.Children) {
		return false
	}
	for i := range o.Children {
		if o.Children[i] != other.Children[i] {
			return false
		}
	}
	return true
}

// Grammar is the compiled, immutable result of reading a dokedef source.
type Grammar struct {
	// ID tags this compiled grammar for diagnostic correlation only; it has
	// no bearing on parsing semantics.
	ID uuid.UUID

	Nonterminals     []string       // id -> name
	NonterminalIndex map[string]int // name -> id

	// Terminals holds the full vocabulary V used by the tokenizer's
	// longest-prefix match: every literal chunk across every pattern,
	// already split on whitespace boundaries, in first-seen (source) order.
	Terminals     []string
	TerminalIndex map[string]int

	// Productions holds every production in source order, with
	// disjunctions already expanded into one pass-through production per
	// alternative in place of the original disjunction rule.
	Productions []Production

	// ByLHS maps a nonterminal id to the ids of its productions, in the
	// order they appear in Productions.
	ByLHS map[int][]int

	// Nullable is indexed by nonterminal id; Nullable[i] is true iff
	// nonterminal i derives the empty token sequence.
	Nullable []bool
}

// NonterminalName returns the name of nonterminal id, or "?" if out of
// range (which would indicate a bug in the compiler, not user input).
func (g *Grammar) NonterminalName(id int) string {
	if id < 0 || id >= len(g.Nonterminals) {
		return "?"
	}
	return g.Nonterminals[id]
}

// String renders a human-readable dump of the grammar's productions, in the
// same leveled-listing spirit as the teacher's ParseTree.String() dump.
// Used by cmd/dokeparse's --dump-grammar flag, not by parsing itself.
func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grammar %s (%d nonterminals, %d productions)\n", g.ID, len(g.Nonterminals), len(g.Productions))
	for _, p := range g.Productions {
		fmt.Fprintf(&sb, "  [%d] %s -> %s\n", p.ID, g.NonterminalName(p.LHS), rhsString(g, p.RHS))
	}
	return sb.String()
}

func rhsString(g *Grammar, rhs []RHSSymbol) string {
	parts := make([]string, 0, len(rhs))
	for _, s := range rhs {
		switch s.Kind {
		case RHSLiteral:
			parts = append(parts, g.Terminals[s.TerminalID])
		case RHSBuiltin:
			parts = append(parts, fmt.Sprintf("{%s:%s}", s.Name, s.Builtin))
		case RHSNonterm:
			parts = append(parts, fmt.Sprintf("{%s:%s}", s.Name, g.NonterminalName(s.NonterminalID)))
		case RHSNontermPassthrough:
			parts = append(parts, g.NonterminalName(s.NonterminalID))
		}
	}
	if len(parts) == 0 {
		return "ε"
	}
	return strings.Join(parts, " ")
}
