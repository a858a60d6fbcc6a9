// Package dokearley is a runtime-built parser for small natural-language
// domain-specific languages: a dokedef grammar definition is compiled once
// into a Dokearley, which then parses DSL statements into typed Resource
// or untyped Dict values.
package dokearley

import (
	"github.com/Hasenn/dokearley/internal/dokedef"
	"github.com/Hasenn/dokearley/internal/dokerrors"
	"github.com/Hasenn/dokearley/internal/earley"
	"github.com/Hasenn/dokearley/internal/eval"
	"github.com/Hasenn/dokearley/internal/grammar"
	"github.com/Hasenn/dokearley/internal/toklex"
)

// Value is the evaluator's output type: Integer, Float, String, Resource,
// Dict, or Array. See the eval package for its accessors.
type Value = eval.Value

// Error types returned by FromDokedef, Parse, and ParseWithChildren are
// aliased here so callers outside this module can type-assert against them
// without reaching into internal/dokerrors.
type (
	InvalidGrammar          = dokerrors.InvalidGrammar
	UnknownSymbol           = dokerrors.UnknownSymbol
	DuplicatePlaceholder    = dokerrors.DuplicatePlaceholder
	DuplicateOutputField    = dokerrors.DuplicateOutputField
	UnknownStartNonterminal = dokerrors.UnknownStartNonterminal
	UnexpectedChar          = dokerrors.UnexpectedChar
	NumberOutOfRange        = dokerrors.NumberOutOfRange
	ParseFailure            = dokerrors.ParseFailure
)

// Dokearley is a compiled grammar, immutable after FromDokedef returns and
// safe to call Parse/ParseWithChildren on concurrently from any number of
// goroutines (spec.md §5).
type Dokearley struct {
	g *grammar.Grammar
}

// FromDokedef compiles dokedef source text into a Dokearley. Errors are one
// of *dokerrors.InvalidGrammar, *dokerrors.UnknownSymbol,
// *dokerrors.DuplicatePlaceholder, or *dokerrors.DuplicateOutputField.
func FromDokedef(src string) (*Dokearley, error) {
	ast, err := dokedef.Parse(src)
	if err != nil {
		return nil, err
	}
	g, err := grammar.Compile(ast)
	if err != nil {
		return nil, err
	}
	return &Dokearley{g: g}, nil
}

// Grammar exposes the compiled grammar, mainly for diagnostics (e.g. a
// --dump-grammar CLI flag); parsing never needs callers to touch it.
func (d *Dokearley) Grammar() *grammar.Grammar {
	return d.g
}

// Parse tokenizes and parses input against start, returning the evaluated
// Value. Equivalent to ParseWithChildren with no child statements.
func (d *Dokearley) Parse(input, start string) (Value, error) {
	return d.ParseWithChildren(input, start, nil)
}

// ParseWithChildren is Parse plus the child-capture bridge of spec.md
// §4.7: children is the outer block parser's list of subordinate statement
// strings available to any `<`/`<*` fields in start's matched production.
func (d *Dokearley) ParseWithChildren(input, start string, children []string) (Value, error) {
	startID, ok := d.g.NonterminalIndex[start]
	if !ok {
		return Value{}, dokerrors.NewUnknownStartNonterminal(start)
	}
	return d.parseID(input, startID, children)
}

func (d *Dokearley) parseID(input string, startID int, children []string) (Value, error) {
	tree, err := d.treeID(input, startID)
	if err != nil {
		return Value{}, err
	}
	return eval.Eval(d.g, tree, children, childBridge{d})
}

// ParseTree runs just the recognizer and tree extraction for input against
// start, without evaluating it into a Value. It exists for diagnostics (the
// --dump-tree flag in cmd/dokeparse); ordinary callers want Parse or
// ParseWithChildren instead.
func (d *Dokearley) ParseTree(input, start string) (*earley.ParseTree, error) {
	startID, ok := d.g.NonterminalIndex[start]
	if !ok {
		return nil, dokerrors.NewUnknownStartNonterminal(start)
	}
	return d.treeID(input, startID)
}

func (d *Dokearley) treeID(input string, startID int) (*earley.ParseTree, error) {
	toks, err := toklex.Tokenize(input, d.g)
	if err != nil {
		return nil, err
	}

	c := earley.Recognize(d.g, toks, startID)
	return earley.Extract(d.g, toks, c, startID)
}

// childBridge adapts Dokearley to eval.ChildParser, resolving each
// recursive child-capture parse against the same compiled grammar and
// without a children list of its own (spec.md §4.7 only threads children
// through the one statement the outer caller invoked ParseWithChildren on).
type childBridge struct {
	d *Dokearley
}

func (b childBridge) Parse(input string, startID int) (Value, error) {
	return b.d.parseID(input, startID, nil)
}
