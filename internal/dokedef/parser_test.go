package dokedef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasenn/dokearley/internal/dokerrors"
)

func Test_Parse_PatternProduction(t *testing.T) {
	g, err := Parse(`ItemEffect: "deal {amount:Int} damage" -> Damage`)
	require.NoError(t, err)
	require.Len(t, g.Productions, 1)

	p := g.Productions[0]
	assert.Equal(t, "ItemEffect", p.LHS)
	assert.Equal(t, RHSPattern, p.RHS.Kind)
	assert.True(t, p.Output.Present)
	assert.True(t, p.Output.HasTypeName)
	assert.Equal(t, "Damage", p.Output.TypeName)

	require.Len(t, p.RHS.Pattern, 3)
	assert.Equal(t, "deal ", p.RHS.Pattern[0].Literal)
	assert.True(t, p.RHS.Pattern[1].IsPlaceholder)
	assert.Equal(t, "amount", p.RHS.Pattern[1].Name)
	assert.Equal(t, "Int", p.RHS.Pattern[1].Type)
	assert.Equal(t, " damage", p.RHS.Pattern[2].Literal)
}

func Test_Parse_DisjunctionProduction(t *testing.T) {
	g, err := Parse("Expr : Damage | Heal")
	require.NoError(t, err)
	require.Len(t, g.Productions, 1)

	p := g.Productions[0]
	assert.Equal(t, RHSDisjunction, p.RHS.Kind)
	assert.Equal(t, []string{"Damage", "Heal"}, p.RHS.Alternatives)
}

func Test_Parse_MultipleProductionsSeparatedBySemicolonOrNewline(t *testing.T) {
	src := "A: \"a\" -> X; B: \"b\" -> Y\nC: \"c\" -> Z"
	g, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, g.Productions, 3)
	assert.Equal(t, "A", g.Productions[0].LHS)
	assert.Equal(t, "B", g.Productions[1].LHS)
	assert.Equal(t, "C", g.Productions[2].LHS)
}

func Test_Parse_ArrowAliasAccepted(t *testing.T) {
	g, err := Parse(`A: "a" => X`)
	require.NoError(t, err)
	require.Len(t, g.Productions, 1)
	assert.True(t, g.Productions[0].Output.Present)
}

func Test_Parse_OutputSpecShapes(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		wantPresent bool
		wantTyped   bool
		wantFields  int
	}{
		{"no arrow at all", `A: "a"`, false, false, 0},
		{"bare type name", `A: "a" -> Foo`, true, true, 0},
		{"empty dict", `A: "a" -> {}`, true, false, 0},
		{"typed record", `A: "a" -> Foo{x: 1}`, true, true, 1},
		{"dict with fields", `A: "a" -> {x: 1, y: 2}`, true, false, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Parse(tc.src)
			require.NoError(t, err)
			out := g.Productions[0].Output
			assert.Equal(t, tc.wantPresent, out.Present)
			assert.Equal(t, tc.wantTyped, out.HasTypeName)
			assert.Len(t, out.Fields, tc.wantFields)
		})
	}
}

func Test_Parse_ChildCaptureFields(t *testing.T) {
	g, err := Parse(`Action: "do" -> Action{ one <  X, many <* Y }`)
	require.NoError(t, err)
	fields := g.Productions[0].Output.Fields
	require.Len(t, fields, 2)
	assert.Equal(t, FieldChildOne, fields[0].Kind)
	assert.Equal(t, "X", fields[0].ChildNonterminal)
	assert.Equal(t, FieldChildMany, fields[1].Kind)
	assert.Equal(t, "Y", fields[1].ChildNonterminal)
}

func Test_Parse_RejectsEmptyPattern(t *testing.T) {
	_, err := Parse(`A: ""`)
	require.Error(t, err)
	assert.IsType(t, &dokerrors.InvalidGrammar{}, err)
}

func Test_Parse_RejectsHashComment(t *testing.T) {
	_, err := Parse("# a comment\nA: \"a\"")
	require.Error(t, err)
}

func Test_Parse_AllowsDisjunctionOfOne(t *testing.T) {
	ast, err := Parse("A : B")
	require.NoError(t, err)

	require.Len(t, ast.Productions, 1)
	assert.Equal(t, RHSDisjunction, ast.Productions[0].RHS.Kind)
	assert.Equal(t, []string{"B"}, ast.Productions[0].RHS.Alternatives)
}
