package dokearley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *Dokearley {
	t.Helper()
	d, err := FromDokedef(src)
	require.NoError(t, err)
	return d
}

func Test_Parse_BasicDamage(t *testing.T) {
	d := mustCompile(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`)
	v, err := d.Parse("deal 7 damage", "ItemEffect")
	require.NoError(t, err)

	assert.Equal(t, "Damage", v.TypeName())
	amount, ok := v.Field("amount")
	require.True(t, ok)
	assert.Equal(t, int64(7), amount.Int())
}

func Test_Parse_NestedTargeted(t *testing.T) {
	d := mustCompile(t,
		`ItemEffect: "to {target:Target} : {effect:ItemEffect}" -> TargetedEffect`+"\n"+
			`Target: "self" -> Target{kind:"self"}`+"\n"+
			`ItemEffect: "heal for {amount:Int}" -> Heal`)
	v, err := d.Parse("to self : heal for 7", "ItemEffect")
	require.NoError(t, err)

	assert.Equal(t, "TargetedEffect", v.TypeName())

	target, ok := v.Field("target")
	require.True(t, ok)
	assert.Equal(t, "Target", target.TypeName())
	kind, ok := target.Field("kind")
	require.True(t, ok)
	assert.Equal(t, "self", kind.Str())

	effect, ok := v.Field("effect")
	require.True(t, ok)
	assert.Equal(t, "Heal", effect.TypeName())
	amount, ok := effect.Field("amount")
	require.True(t, ok)
	assert.Equal(t, int64(7), amount.Int())
}

func Test_Parse_DictionaryMode(t *testing.T) {
	d := mustCompile(t, `Target: "an ally" -> {kind:"ally"}`)
	v, err := d.Parse("an ally", "Target")
	require.NoError(t, err)

	assert.Equal(t, "", v.TypeName())
	kind, ok := v.Field("kind")
	require.True(t, ok)
	assert.Equal(t, "ally", kind.Str())
}

func Test_Parse_Disjunction(t *testing.T) {
	d := mustCompile(t, "Expr: Damage | Heal\n"+
		`Damage: "deal {amount:Int} damage" -> Damage`+"\n"+
		`Heal: "heal for {amount:Int}" -> Heal`)
	v, err := d.Parse("heal for 3", "Expr")
	require.NoError(t, err)

	assert.Equal(t, "Heal", v.TypeName())
	amount, ok := v.Field("amount")
	require.True(t, ok)
	assert.Equal(t, int64(3), amount.Int())
}

func Test_ParseWithChildren_ManyCapture(t *testing.T) {
	d := mustCompile(t,
		`Action: "Do the following" -> Action{ components <* ActionComponent }`+"\n"+
			`ActionComponent: ItemEffect`+"\n"+
			`ItemEffect: "deal {amount:Int} damage" -> Damage`+"\n"+
			`ItemEffect: "heal for {amount:Int}" -> Heal`)
	v, err := d.ParseWithChildren("Do the following", "Action",
		[]string{"deal 3 damage", "heal for 1"})
	require.NoError(t, err)

	components, ok := v.Field("components")
	require.True(t, ok)
	require.Len(t, components.Elems(), 2)

	assert.Equal(t, "Damage", components.Elems()[0].TypeName())
	dmgAmount, _ := components.Elems()[0].Field("amount")
	assert.Equal(t, int64(3), dmgAmount.Int())

	assert.Equal(t, "Heal", components.Elems()[1].TypeName())
	healAmount, _ := components.Elems()[1].Field("amount")
	assert.Equal(t, int64(1), healAmount.Int())
}

func Test_Parse_FailureReportsExpectedAndPosition(t *testing.T) {
	d := mustCompile(t, `ItemEffect: "deal {amount:Int} damage" -> Damage`)
	_, err := d.Parse("deal seven damage", "ItemEffect")
	require.Error(t, err)

	pf, ok := err.(*ParseFailure)
	require.True(t, ok)
	assert.Equal(t, 5, pf.Position)
	assert.Equal(t, []string{"Int"}, pf.Expected)
}

func Test_Parse_UnknownStartNonterminal(t *testing.T) {
	d := mustCompile(t, `A: "a" -> A`)
	_, err := d.Parse("a", "NoSuchThing")
	require.Error(t, err)
}

func Test_Property_IntegerRoundTrip(t *testing.T) {
	d := mustCompile(t, `A: "{x:Int}" -> A`)
	for _, n := range []int64{0, 1, -1, 42, 9223372036854775807, -9223372036854775808} {
		v, err := d.Parse(intLiteral(n), "A")
		require.NoError(t, err)
		x, ok := v.Field("x")
		require.True(t, ok)
		assert.Equal(t, n, x.Int())
	}
}

func Test_Property_StringRoundTrip(t *testing.T) {
	d := mustCompile(t, `A: "{x:String}" -> A`)
	for _, s := range []string{"hello", "with spaces", `has "quotes"`, "héllo"} {
		v, err := d.Parse(quoteString(s), "A")
		require.NoError(t, err)
		x, ok := v.Field("x")
		require.True(t, ok)
		assert.Equal(t, s, x.Str())
	}
}

func Test_Property_DisjunctionPassThroughEquivalence(t *testing.T) {
	d := mustCompile(t, "Expr: Damage | Heal\n"+
		`Damage: "deal {amount:Int} damage" -> Damage`+"\n"+
		`Heal: "heal for {amount:Int}" -> Heal`)

	viaExpr, err := d.Parse("deal 9 damage", "Expr")
	require.NoError(t, err)
	viaDamage, err := d.Parse("deal 9 damage", "Damage")
	require.NoError(t, err)

	assert.True(t, viaExpr.Equal(viaDamage))
}

func intLiteral(n int64) string {
	if n < 0 {
		return "-" + uitoa(uint64(-n))
	}
	return uitoa(uint64(n))
}

func uitoa(u uint64) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

func quoteString(s string) string {
	out := `"`
	for _, r := range s {
		if r == '"' || r == '\\' {
			out += `\`
		}
		out += string(r)
	}
	return out + `"`
}
