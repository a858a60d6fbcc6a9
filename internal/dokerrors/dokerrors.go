// Package dokerrors holds the typed error taxonomy raised by the dokearley
// pipeline. Each error kind is its own exported struct implementing the
// error interface, in the same shape as tqerrors.interpreterError: a
// constructor function per kind, structured fields for programmatic
// inspection, and an Error() string for human consumption.
package dokerrors

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/Hasenn/dokearley/internal/util"
)

// InvalidGrammar is raised by the meta-parser on a dokedef syntax error.
type InvalidGrammar struct {
	Line   int
	Col    int
	Reason string
}

func NewInvalidGrammar(line, col int, reason string) error {
	return &InvalidGrammar{Line: line, Col: col, Reason: reason}
}

func (e *InvalidGrammar) Error() string {
	return fmt.Sprintf("invalid grammar at line %d, column %d: %s", e.Line, e.Col, e.Reason)
}

// UnknownSymbol is raised by the compiler when an RHS or output spec refers
// to a nonterminal that is never defined as the LHS of a production.
type UnknownSymbol struct {
	Name string
}

func NewUnknownSymbol(name string) error {
	return &UnknownSymbol{Name: name}
}

func (e *UnknownSymbol) Error() string {
	return fmt.Sprintf("unknown symbol %q", e.Name)
}

// DuplicatePlaceholder is raised when two placeholders in the same
// production's RHS share a name.
type DuplicatePlaceholder struct {
	Name string
}

func NewDuplicatePlaceholder(name string) error {
	return &DuplicatePlaceholder{Name: name}
}

func (e *DuplicatePlaceholder) Error() string {
	return fmt.Sprintf("duplicate placeholder %q", e.Name)
}

// DuplicateOutputField is raised when two fields in the same output spec
// share a name.
type DuplicateOutputField struct {
	Name string
}

func NewDuplicateOutputField(name string) error {
	return &DuplicateOutputField{Name: name}
}

func (e *DuplicateOutputField) Error() string {
	return fmt.Sprintf("duplicate output field %q", e.Name)
}

// UnknownStartNonterminal is raised by the parser entry point when the
// requested start symbol isn't defined in the grammar.
type UnknownStartNonterminal struct {
	Name string
}

func NewUnknownStartNonterminal(name string) error {
	return &UnknownStartNonterminal{Name: name}
}

func (e *UnknownStartNonterminal) Error() string {
	return fmt.Sprintf("unknown start nonterminal %q", e.Name)
}

// UnexpectedChar is raised by the tokenizer when no token rule matches the
// input at the given byte offset.
type UnexpectedChar struct {
	ByteOffset int
}

func NewUnexpectedChar(offset int) error {
	return &UnexpectedChar{ByteOffset: offset}
}

func (e *UnexpectedChar) Error() string {
	return fmt.Sprintf("unexpected character at byte offset %d", e.ByteOffset)
}

// NumberOutOfRange is raised by the tokenizer when an integer literal
// overflows a signed 64-bit value.
type NumberOutOfRange struct {
	Lexeme string
}

func NewNumberOutOfRange(lexeme string) error {
	return &NumberOutOfRange{Lexeme: lexeme}
}

func (e *NumberOutOfRange) Error() string {
	return fmt.Sprintf("number out of range: %q", e.Lexeme)
}

// ParseFailure is raised by the recognizer when the input is rejected. It
// carries the byte offset in the input of the offending token (or of the
// end of the input when the input ran out) and the distinct set of
// literals/built-in types that would have let recognition continue, as
// derived from the live Earley items in the last non-empty state set.
type ParseFailure struct {
	Position int
	Expected []string
}

func NewParseFailure(position int, expected []string) error {
	return &ParseFailure{Position: position, Expected: expected}
}

func (e *ParseFailure) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse failure at byte offset %d", e.Position)
	}

	list := util.MakeTextList(e.Expected)
	msg := fmt.Sprintf("parse failure at byte offset %d: expected one of: %s", e.Position, list)

	// Wrap long expectation lists the way diagnostic text is wrapped
	// elsewhere in the teacher's tree/table dumps, so a grammar with many
	// alternatives at one position doesn't produce an unreadable one-liner.
	return rosed.Edit(msg).Wrap(100).String()
}
