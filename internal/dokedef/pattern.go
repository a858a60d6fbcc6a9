package dokedef

import (
	"strings"

	"github.com/Hasenn/dokearley/internal/dokerrors"
)

// splitPattern walks the already-unescaped content of a quoted pattern and
// splits it into literal chunks and {name:Type} placeholders, per spec.md
// §4.1. Whitespace outside of braces is preserved verbatim in the literal
// chunks; the compiler later splits each chunk on it into separate
// terminals. It only separates words: input tokens are not required to be
// separated by whitespace when they are matched against the pattern.
// Whitespace inside the braces is allowed and is trimmed here.
func splitPattern(raw string, line, col int) ([]PatternPart, error) {
	var parts []PatternPart
	var lit strings.Builder

	runes := []rune(raw)
	i := 0
	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, PatternPart{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i < len(runes) {
		r := runes[i]
		if r != '{' {
			lit.WriteRune(r)
			i++
			continue
		}

		// Find the matching close brace.
		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, dokerrors.NewInvalidGrammar(line, col, "unterminated placeholder in pattern")
		}

		body := string(runes[i+1 : end])
		nameType := strings.SplitN(body, ":", 2)
		if len(nameType) != 2 {
			return nil, dokerrors.NewInvalidGrammar(line, col, "placeholder must have the form {name:Type}")
		}
		name := strings.TrimSpace(nameType[0])
		typ := strings.TrimSpace(nameType[1])
		if name == "" || typ == "" {
			return nil, dokerrors.NewInvalidGrammar(line, col, "placeholder name and type must not be empty")
		}

		flushLit()
		parts = append(parts, PatternPart{IsPlaceholder: true, Name: name, Type: typ})
		i = end + 1
	}
	flushLit()

	return parts, nil
}
