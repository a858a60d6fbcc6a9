package toklex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasenn/dokearley/internal/dokedef"
	"github.com/Hasenn/dokearley/internal/dokerrors"
	"github.com/Hasenn/dokearley/internal/grammar"
)

func compileSrc(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	ast, err := dokedef.Parse(src)
	require.NoError(t, err)
	g, err := grammar.Compile(ast)
	require.NoError(t, err)
	return g
}

func Test_Tokenize_LiteralAndBuiltinPlaceholder(t *testing.T) {
	g := compileSrc(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`)

	toks, err := Tokenize("deal 7 damage", g)
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, Lit, toks[0].Kind)
	assert.Equal(t, Int, toks[1].Kind)
	assert.Equal(t, int64(7), toks[1].IntVal)
	assert.Equal(t, Lit, toks[2].Kind)
}

func Test_Tokenize_LongestPrefixMatch(t *testing.T) {
	// "to" and "total" both appear in the vocabulary; "total" must win at a
	// position where the input actually reads "total".
	g := compileSrc(t, "A: \"to X\" -> A; B: \"total Y\" -> B")
	toks, err := Tokenize("total", g)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "total", g.Terminals[toks[0].TerminalID])
}

func Test_Tokenize_NumberLiterals(t *testing.T) {
	g := compileSrc(t, `A: "{x:Int}" -> A`)

	testCases := []struct {
		name      string
		input     string
		wantKind  Kind
		wantInt   int64
		wantFloat float64
	}{
		{"decimal", "42", Int, 42, 0},
		{"negative decimal", "-42", Int, -42, 0},
		{"binary", "0b101", Int, 5, 0},
		{"octal", "0o17", Int, 15, 0},
		{"hex", "0xFF", Int, 255, 0},
		{"float with dot", "1.5", Float, 0, 1.5},
		{"trailing dot float", "123.", Float, 0, 123},
		{"exponent float", "1e3", Float, 0, 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := Tokenize(tc.input, g)
			require.NoError(t, err)
			require.Len(t, toks, 1)
			assert.Equal(t, tc.wantKind, toks[0].Kind)
			if tc.wantKind == Int {
				assert.Equal(t, tc.wantInt, toks[0].IntVal)
			} else {
				assert.Equal(t, tc.wantFloat, toks[0].FloatVal)
			}
		})
	}
}

func Test_Tokenize_IntegerOverflowFails(t *testing.T) {
	g := compileSrc(t, `A: "{x:Int}" -> A`)
	_, err := Tokenize("99999999999999999999", g)
	require.Error(t, err)
	assert.IsType(t, &dokerrors.NumberOutOfRange{}, err)
}

func Test_Tokenize_QuotedString(t *testing.T) {
	g := compileSrc(t, `A: "say {x:String}" -> A`)
	toks, err := Tokenize(`say "hi \"there\""`, g)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, Str, toks[1].Kind)
	assert.Equal(t, `hi "there"`, toks[1].StrVal)
}

func Test_Tokenize_UnexpectedCharFails(t *testing.T) {
	g := compileSrc(t, `A: "deal damage" -> A`)
	_, err := Tokenize("deal @ damage", g)
	require.Error(t, err)
	assert.IsType(t, &dokerrors.UnexpectedChar{}, err)
}

func Test_Tokenize_ByteOffsetsTrackMultiByteRunes(t *testing.T) {
	g := compileSrc(t, `A: "say {x:String}" -> A`)
	toks, err := Tokenize(`say "héllo"`, g)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, 4, toks[1].ByteOffset)
}
