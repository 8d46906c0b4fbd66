package template

import (
	"fmt"
	"math"
	"reflect"
)

// ModelReader is the read side of a model mapping.
type ModelReader interface {
	Get(key string) (any, bool)
}

// Binding resolves a bound value.
type Binding interface {
	// Value evaluates the binding against model. The second result is false
	// when the binding has no value.
	Value(model ModelReader) (any, bool)

	String() string
}

// StaticBinding always yields the same value.
type StaticBinding struct {
	value any
}

// Static returns a binding with a fixed value.
func Static(value any) *StaticBinding {
	return &StaticBinding{value: value}
}

// Literal returns the fixed value.
func (b *StaticBinding) Literal() any {
	return b.value
}

// Value implements Binding.
func (b *StaticBinding) Value(ModelReader) (any, bool) {
	return b.value, true
}

func (b *StaticBinding) String() string {
	return fmt.Sprintf("%q", fmt.Sprint(b.value))
}

// ModelValueBinding looks its key up in the model on every evaluation.
type ModelValueBinding struct {
	key string
}

// ModelValue returns a binding that reads key from the model.
func ModelValue(key string) *ModelValueBinding {
	return &ModelValueBinding{key: key}
}

// Key returns the model key.
func (b *ModelValueBinding) Key() string {
	return b.key
}

// Value implements Binding.
func (b *ModelValueBinding) Value(model ModelReader) (any, bool) {
	if model == nil {
		return nil, false
	}
	v, ok := model.Get(b.key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (b *ModelValueBinding) String() string {
	return "{{" + b.key + "}}"
}

// Truthy reports whether a bound value enables a class condition.
// false, zero numbers, the empty string and nil are falsy; any other value
// is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

// Stringify renders a bound value the way attributes and text see it.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
