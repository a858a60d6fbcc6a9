package eval

import (
	"github.com/Hasenn/dokearley/internal/earley"
	"github.com/Hasenn/dokearley/internal/grammar"
	"github.com/Hasenn/dokearley/internal/toklex"
)

// ChildParser is the evaluator's view of the child-capture bridge of
// spec.md §4.7: parse one child statement as the given nonterminal, using
// whatever compiled grammar this evaluation is already running against.
type ChildParser interface {
	Parse(input string, startID int) (Value, error)
}

// Eval walks tree and applies its productions' output specs to build the
// result Value, per spec.md §4.6. children is only consulted by the
// top-level production's own child captures, if any; nested nonterminal
// captures never see it, matching the one-call-per-statement shape the
// outer block parser drives (see spec.md §1 and §4.7).
func Eval(g *grammar.Grammar, tree *earley.ParseTree, children []string, cp ChildParser) (Value, error) {
	return evalNode(g, tree, children, cp)
}

func evalNode(g *grammar.Grammar, tree *earley.ParseTree, children []string, cp ChildParser) (Value, error) {
	p := g.Productions[tree.ProductionID]

	if p.Out.PassThrough {
		return evalNode(g, tree.Children[0].Sub, nil, cp)
	}

	env := map[string]Value{}
	var envOrder []string
	for _, ch := range tree.Children {
		switch ch.Kind {
		case earley.ChildTerminal:
			// contributes nothing to the capture environment
		case earley.ChildPlaceholder:
			env[ch.Name] = builtinValue(ch.Token)
			envOrder = append(envOrder, ch.Name)
		case earley.ChildSub:
			sv, err := evalNode(g, ch.Sub, nil, cp)
			if err != nil {
				return Value{}, err
			}
			env[ch.Name] = sv
			envOrder = append(envOrder, ch.Name)
		}
	}

	base := evalOutputSpec(p.Out, env, envOrder)

	if len(p.Out.Children) == 0 {
		return base, nil
	}
	return applyChildCaptures(base, p.Out, children, cp), nil
}

func builtinValue(tok toklex.Token) Value {
	switch tok.Kind {
	case toklex.Int:
		return Integer(tok.IntVal)
	case toklex.Float:
		return Float(tok.FloatVal)
	case toklex.Str:
		return String(tok.StrVal)
	default:
		return Value{}
	}
}

// evalOutputSpec implements the three non-passthrough cases of spec.md
// §4.6 point 2. Bare `TypeName` and explicit-but-empty `TypeName{}` are
// compiled to the same OutputSpec shape (dokedef's AST does not preserve
// the surface distinction, see DESIGN.md), so the single-placeholder
// retag rule applies whenever a typed spec declares no explicit fields or
// child captures of its own.
func evalOutputSpec(out grammar.OutputSpec, env map[string]Value, envOrder []string) Value {
	if !out.HasTypeName {
		return evalDictSpec(out, env, envOrder)
	}

	bareForm := len(out.FieldOrder) == 0 && len(out.Children) == 0
	if bareForm && len(envOrder) == 1 {
		only := env[envOrder[0]]
		if only.Kind() == KindDict {
			return Resource(out.TypeName, only.fields, only.fieldOrder)
		}
	}

	if bareForm {
		return Resource(out.TypeName, env, envOrder)
	}

	fields, order := evalFieldList(out, env)
	return Resource(out.TypeName, fields, order)
}

func evalDictSpec(out grammar.OutputSpec, env map[string]Value, envOrder []string) Value {
	fields, order := evalFieldList(out, env)

	for _, name := range envOrder {
		if _, ok := fields[name]; !ok {
			fields[name] = env[name]
			order = append(order, name)
		}
	}

	return Dict(fields, order)
}

// evalFieldList evaluates a spec's explicit field list, applying the
// {foo: bar} quirk from spec.md §9: a PlaceholderRef binds foo to bar's
// value and also retains bar itself as a field, under its own name, with
// its own captured value.
func evalFieldList(out grammar.OutputSpec, env map[string]Value) (map[string]Value, []string) {
	fields := map[string]Value{}
	seen := map[string]bool{}
	var order []string

	for _, name := range out.FieldOrder {
		expr := out.Fields[name]
		fields[name] = evalValueExpr(expr, env)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}

		if expr.Kind == grammar.ExprPlaceholderRef {
			if !seen[expr.PlaceholderName] {
				seen[expr.PlaceholderName] = true
				fields[expr.PlaceholderName] = env[expr.PlaceholderName]
				order = append(order, expr.PlaceholderName)
			}
		}
	}

	return fields, order
}

func evalValueExpr(expr grammar.ValueExpr, env map[string]Value) Value {
	switch expr.Kind {
	case grammar.ExprPlaceholder, grammar.ExprPlaceholderRef:
		return env[expr.PlaceholderName]
	case grammar.ExprLiteralInt:
		return Integer(expr.Int)
	case grammar.ExprLiteralFloat:
		return Float(expr.Float)
	case grammar.ExprLiteralString:
		return String(expr.String)
	default:
		return Value{}
	}
}

// applyChildCaptures resolves every child-capture field against children,
// per spec.md §4.6 point 3: each field independently tries every child
// statement against its own nonterminal, so an unmatched child remains
// available to other fields.
func applyChildCaptures(base Value, out grammar.OutputSpec, children []string, cp ChildParser) Value {
	fields := map[string]Value{}
	for k, v := range base.fields {
		fields[k] = v
	}
	order := append([]string{}, base.fieldOrder...)

	for _, cc := range out.Children {
		_, existed := base.fields[cc.Field]

		if cc.Many {
			var elems []Value
			for _, childStr := range children {
				v, err := cp.Parse(childStr, cc.NonterminalID)
				if err != nil {
					continue
				}
				elems = append(elems, v)
			}
			fields[cc.Field] = Array(elems)
			if !existed {
				order = append(order, cc.Field)
			}
			continue
		}

		for _, childStr := range children {
			v, err := cp.Parse(childStr, cc.NonterminalID)
			if err == nil {
				fields[cc.Field] = v
				if !existed {
					order = append(order, cc.Field)
				}
				break
			}
		}
	}

	switch base.kind {
	case KindDict:
		return Dict(fields, order)
	default:
		return Resource(base.typeName, fields, order)
	}
}
