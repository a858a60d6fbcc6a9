package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Production_Equal(t *testing.T) {
	a := Production{ID: 0, LHS: 1, RHS: []RHSSymbol{{Kind: RHSLiteral, TerminalID: 0}}}
	b := Production{ID: 0, LHS: 1, RHS: []RHSSymbol{{Kind: RHSLiteral, TerminalID: 0}}}
	c := Production{ID: 0, LHS: 1, RHS: []RHSSymbol{{Kind: RHSLiteral, TerminalID: 1}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal("not a production"))
}

func Test_Grammar_StringListsEveryProduction(t *testing.T) {
	g, err := Compile(mustParse(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`))
	assert.NoError(t, err)

	s := g.String()
	assert.Contains(t, s, "ItemEffect -> deal {amount:Int} damage")
}

func Test_BuiltinType_String(t *testing.T) {
	assert.Equal(t, "Int", BuiltinInt.String())
	assert.Equal(t, "Float", BuiltinFloat.String())
	assert.Equal(t, "String", BuiltinString.String())
	assert.Equal(t, "<none>", BuiltinNone.String())
}

func Test_ParseBuiltinType(t *testing.T) {
	bt, ok := ParseBuiltinType("Int")
	assert.True(t, ok)
	assert.Equal(t, BuiltinInt, bt)

	_, ok = ParseBuiltinType("NotAType")
	assert.False(t, ok)
}
