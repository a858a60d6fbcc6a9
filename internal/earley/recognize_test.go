package earley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasenn/dokearley/internal/dokedef"
	"github.com/Hasenn/dokearley/internal/grammar"
	"github.com/Hasenn/dokearley/internal/toklex"
)

func mustCompile(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	ast, err := dokedef.Parse(src)
	require.NoError(t, err)
	g, err := grammar.Compile(ast)
	require.NoError(t, err)
	return g
}

func mustTokenize(t *testing.T, input string, g *grammar.Grammar) []toklex.Token {
	t.Helper()
	toks, err := toklex.Tokenize(input, g)
	require.NoError(t, err)
	return toks
}

func Test_Recognize_AcceptsMatchingInput(t *testing.T) {
	g := mustCompile(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`)
	toks := mustTokenize(t, "deal 7 damage", g)

	startID := g.NonterminalIndex["ItemEffect"]
	c := Recognize(g, toks, startID)

	assert.True(t, Accepted(g, c, startID))
}

func Test_Recognize_RejectsNonMatchingInput(t *testing.T) {
	g := mustCompile(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`)
	toks := mustTokenize(t, "heal 7 damage", g)

	startID := g.NonterminalIndex["ItemEffect"]
	c := Recognize(g, toks, startID)

	assert.False(t, Accepted(g, c, startID))
}

func Test_Recognize_NullableNonterminalAcceptsEmptyInput(t *testing.T) {
	// dokedef has no syntax for declaring a nullable rule, so this grammar
	// is built directly rather than through dokedef.Parse/grammar.Compile,
	// exactly the seam spec.md's open question carves out.
	g := &grammar.Grammar{
		Nonterminals:     []string{"Opt"},
		NonterminalIndex: map[string]int{"Opt": 0},
		ByLHS:            map[int][]int{0: {0}},
		Productions: []grammar.Production{
			{ID: 0, LHS: 0, RHS: nil, Out: grammar.OutputSpec{}},
		},
	}
	g.Nullable = []bool{true}

	c := Recognize(g, nil, 0)
	assert.True(t, Accepted(g, c, 0))
}

func Test_Recognize_PredictAdvancesPastNullableNonterminal(t *testing.T) {
	// S : A, where A is nullable, exercises predict's Aycock-Horspool
	// advance rather than the degenerate directly-empty-RHS case above.
	g := &grammar.Grammar{
		Nonterminals:     []string{"S", "A"},
		NonterminalIndex: map[string]int{"S": 0, "A": 1},
		ByLHS:            map[int][]int{0: {0}, 1: {1}},
		Nullable:         []bool{false, true},
		Productions: []grammar.Production{
			{ID: 0, LHS: 0, RHS: []grammar.RHSSymbol{{Kind: grammar.RHSNonterm, NonterminalID: 1, Name: "a"}}},
			{ID: 1, LHS: 1, RHS: nil},
		},
	}

	c := Recognize(g, nil, 0)
	assert.True(t, Accepted(g, c, 0))
}

func Test_Recognize_DisjunctionAcceptsEitherAlternative(t *testing.T) {
	g := mustCompile(t, "Expr: Damage | Heal\n"+
		`Damage: "deal {amount:Int} damage" -> Damage`+"\n"+
		`Heal: "heal for {amount:Int}" -> Heal`)

	startID := g.NonterminalIndex["Expr"]

	toks := mustTokenize(t, "heal for 3", g)
	c := Recognize(g, toks, startID)
	assert.True(t, Accepted(g, c, startID))
}
