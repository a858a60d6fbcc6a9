// Package dokedef implements the grammar meta-parser: it reads dokedef
// source text and produces an unresolved AST for the grammar compiler
// (internal/grammar) to interne, validate, and close over nullability.
//
// This package never resolves identifiers against a symbol table and never
// decides whether a type name is a builtin or a nonterminal - that's the
// compiler's job. It only enforces dokedef's own shape (spec.md §4.1).
package dokedef

// PatternPart is one element of a quoted pattern, in source order: either a
// literal text chunk or a {name:Type} placeholder. The literal chunk is not
// yet split on whitespace - that happens when the compiler tokenizes it.
type PatternPart struct {
	IsPlaceholder bool

	// Literal holds the raw chunk text when !IsPlaceholder.
	Literal string

	// Name and Type hold the placeholder's field name and raw type
	// identifier (a builtin keyword or a nonterminal name, indistinct at
	// this stage) when IsPlaceholder.
	Name string
	Type string
}

// RHSKind distinguishes the two production RHS shapes in spec.md §4.1.
type RHSKind int

const (
	RHSPattern RHSKind = iota
	RHSDisjunction
)

// RHS is a production's unresolved right-hand side.
type RHS struct {
	Kind RHSKind

	// Pattern is set when Kind == RHSPattern.
	Pattern []PatternPart

	// Alternatives is set when Kind == RHSDisjunction: the ordered list of
	// nonterminal names joined by "|".
	Alternatives []string
}

// FieldKind distinguishes the three output-spec field shapes.
type FieldKind int

const (
	FieldValue FieldKind = iota
	FieldChildOne
	FieldChildMany
)

// ValueKind distinguishes the four literal/reference shapes a field value
// can take.
type ValueKind int

const (
	ValueIdent ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
)

// Field is one entry of an output spec's field list.
type Field struct {
	Name string
	Kind FieldKind

	// Value* are set when Kind == FieldValue.
	ValueKind   ValueKind
	ValueIdent  string
	ValueInt    int64
	ValueFloat  float64
	ValueString string

	// ChildNonterminal is set when Kind is FieldChildOne or FieldChildMany.
	ChildNonterminal string

	Line, Col int
}

// OutputSpec is a production's unresolved "-> ..." clause. A production
// with no arrow at all is represented with Present == false; the compiler
// treats that the same as an explicit empty dict ("{}"), per the decision
// recorded in DESIGN.md for spec.md's open question on "-> {}".
type OutputSpec struct {
	Present bool

	HasTypeName bool
	TypeName    string

	Fields []Field
}

// Production is one unresolved dokedef rule.
type Production struct {
	LHS    string
	RHS    RHS
	Output OutputSpec

	Line, Col int
}

// Grammar is the full unresolved AST produced by Parse.
type Grammar struct {
	Productions []Production
}
