// Package toklex tokenizes input DSL statements against a compiled
// grammar's terminal vocabulary, per spec.md §4.3. It is independent of
// the dokedef meta-lexer (internal/dokedef), which instead has a small
// fixed vocabulary of its own (the dokedef file format itself).
package toklex

import "github.com/Hasenn/dokearley/internal/grammar"

// Kind distinguishes the five token shapes the tokenizer produces.
type Kind int

const (
	Lit Kind = iota
	Int
	Float
	Str

	// Ident is a maximal run of word characters that doesn't match the
	// grammar's vocabulary and isn't a number literal - see Tokenize's
	// doc comment. It never satisfies a scan against a literal or a
	// builtin placeholder, so it surfaces as a ParseFailure rather than
	// an UnexpectedChar.
	Ident
)

// Token is one element of the tokenized input statement.
type Token struct {
	Kind Kind

	// TerminalID is valid when Kind == Lit; it indexes grammar.Terminals.
	TerminalID int

	IntVal   int64
	FloatVal float64
	StrVal   string

	// ByteOffset is the offset of the token's first byte in the original
	// input, used for diagnostics.
	ByteOffset int

	// Lexeme is the raw matched text, kept for error messages and for
	// rendering tokens back in ParseTree dumps.
	Lexeme string
}

// BuiltinMatch reports whether this token can fill a placeholder of the
// given builtin type, per spec.md §4.4's scan rule (Int -> IntTok,
// Float -> FloatTok, String -> StringTok).
func (t Token) BuiltinMatch(bt grammar.BuiltinType) bool {
	switch bt {
	case grammar.BuiltinInt:
		return t.Kind == Int
	case grammar.BuiltinFloat:
		return t.Kind == Float
	case grammar.BuiltinString:
		return t.Kind == Str
	default:
		return false
	}
}
