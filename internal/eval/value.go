// Package eval turns a *earley.ParseTree into the typed Value spec.md §3
// describes, applying the four output-spec evaluation rules of §4.6 and the
// child-capture bridge of §4.7.
package eval

import (
	"fmt"
	"strings"
)

// Kind distinguishes the six Value shapes.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindResource
	KindDict
	KindArray
)

// Value is the evaluator's single output type. Exactly one of the typed
// accessors below is meaningful for a given Kind; the others return the
// zero value.
type Value struct {
	kind Kind

	intVal   int64
	floatVal float64
	strVal   string

	// typeName is set for KindResource.
	typeName string

	// fields backs both KindResource and KindDict; fieldOrder preserves
	// declaration/capture order for String() and deterministic iteration.
	fields     map[string]Value
	fieldOrder []string

	elems []Value // KindArray
}

func Integer(v int64) Value   { return Value{kind: KindInteger, intVal: v} }
func Float(v float64) Value   { return Value{kind: KindFloat, floatVal: v} }
func String(v string) Value   { return Value{kind: KindString, strVal: v} }
func Array(elems []Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// Resource builds a typed record value. fieldOrder must list exactly the
// keys present in fields.
func Resource(typeName string, fields map[string]Value, fieldOrder []string) Value {
	return Value{kind: KindResource, typeName: typeName, fields: fields, fieldOrder: fieldOrder}
}

// Dict builds an untyped record value.
func Dict(fields map[string]Value, fieldOrder []string) Value {
	return Value{kind: KindDict, fields: fields, fieldOrder: fieldOrder}
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) Int() int64       { return v.intVal }
func (v Value) FloatVal() float64 { return v.floatVal }
func (v Value) Str() string      { return v.strVal }
func (v Value) TypeName() string { return v.typeName }
func (v Value) Elems() []Value   { return v.elems }

// Field returns a Resource or Dict's field by name.
func (v Value) Field(name string) (Value, bool) {
	f, ok := v.fields[name]
	return f, ok
}

// FieldOrder returns a Resource or Dict's field names in declaration order.
func (v Value) FieldOrder() []string {
	return v.fieldOrder
}

// Equal reports deep structural equality against another Value. Field order
// is not compared, only the set of fields and their values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.intVal == o.intVal
	case KindFloat:
		return v.floatVal == o.floatVal
	case KindString:
		return v.strVal == o.strVal
	case KindResource:
		if v.typeName != o.typeName {
			return false
		}
		return fieldsEqual(v, o)
	case KindDict:
		return fieldsEqual(v, o)
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func fieldsEqual(a, b Value) bool {
	if len(a.fields) != len(b.fields) {
		return false
	}
	for k, av := range a.fields {
		bv, ok := b.fields[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

// String renders a Go-literal-ish debug form, grounded on the teacher's
// leveled pretty-printer convention for composite data.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.intVal)
	case KindFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case KindString:
		return fmt.Sprintf("%q", v.strVal)
	case KindResource:
		return fmt.Sprintf("%s%s", v.typeName, dumpFields(v))
	case KindDict:
		return dumpFields(v)
	case KindArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid value>"
	}
}

func dumpFields(v Value) string {
	parts := make([]string, 0, len(v.fieldOrder))
	for _, name := range v.fieldOrder {
		parts = append(parts, fmt.Sprintf("%s: %s", name, v.fields[name].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
