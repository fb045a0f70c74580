// Package sanitize checks that decoded values can be written to the document store.
//
// Decoded data is first lifted into a closed Value type (Scalar, List, Map or
// Invalid) and then checked by structural recursion, so the rules do not depend
// on which Go types a particular decoder happens to produce.
package sanitize

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Value is one of Scalar, List, Map or Invalid.
type Value interface {
	isValue()
}

// Scalar is a string, bool or number that fits the store's native numeric types.
type Scalar struct {
	V any
}

// List is an ordered sequence of values.
type List []Value

// Map is a set of named values.
type Map map[string]Value

// Invalid marks a value the store cannot represent; Reason is for diagnostics only.
type Invalid struct {
	Reason string
}

func (Scalar) isValue()  {}
func (List) isValue()    {}
func (Map) isValue()     {}
func (Invalid) isValue() {}

// FromAny lifts an arbitrary Go value into a Value.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Invalid{Reason: "null"}
	case string, bool:
		return Scalar{V: t}
	case json.Number:
		if n, ok := numberValue(t); ok {
			return Scalar{V: n}
		}
		return Invalid{Reason: "number out of range"}
	case *big.Int, big.Int, *big.Float, big.Float:
		return Invalid{Reason: "bigint"}
	case []any:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = FromAny(e)
		}
		return out
	case map[string]any:
		out := make(Map, len(t))
		for k, e := range t {
			out[k] = FromAny(e)
		}
		return out
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Invalid{Reason: "null"}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Invalid{Reason: "null"}
		}
		return FromAny(rv.Elem().Interface())
	case reflect.String:
		return Scalar{V: rv.String()}
	case reflect.Bool:
		return Scalar{V: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar{V: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Invalid{Reason: "bigint"}
		}
		return Scalar{V: int64(u)}
	case reflect.Float32, reflect.Float64:
		return Scalar{V: rv.Float()}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}
		}
		out := make(List, rv.Len())
		for i := range out {
			out[i] = FromAny(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Invalid{Reason: "non-string map key"}
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return out
	case reflect.Func:
		return Invalid{Reason: "function"}
	}
	return Invalid{Reason: rv.Kind().String()}
}

// numberValue converts a JSON number to int64 when it is an integer literal and
// to float64 otherwise. Integer literals outside int64 are the bigint case.
func numberValue(n json.Number) (any, bool) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// Check reports whether v can be stored.
func Check(v Value) bool {
	switch t := v.(type) {
	case Scalar:
		return true
	case List:
		for _, e := range t {
			if !Check(e) {
				return false
			}
		}
		return true
	case Map:
		for k, e := range t {
			if !ValidKey(k) || !Check(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Valid reports whether an arbitrary decoded value can be stored.
func Valid(v any) bool {
	return Check(FromAny(v))
}

// ValidKey reports whether k can be used as a map key in a stored document.
// Empty names are rejected along with "." and "/".
func ValidKey(k string) bool {
	return k != "" && !strings.ContainsAny(k, "./")
}

// InvalidFields returns the sorted names of the top-level fields of record that
// fail Valid. A record is writable only when the result is empty.
func InvalidFields(record map[string]any) []string {
	var bad []string
	for k, v := range record {
		if !ValidKey(k) || !Valid(v) {
			bad = append(bad, k)
		}
	}
	sort.Strings(bad)
	return bad
}

// Normalize converts a value that passed Valid into the native types every
// backend can encode: int64, float64, string, bool, []any and map[string]any.
func Normalize(v any) any {
	return unwrap(FromAny(v))
}

// NormalizeRecord applies Normalize to every field of record.
func NormalizeRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = Normalize(v)
	}
	return out
}

func unwrap(v Value) any {
	switch t := v.(type) {
	case Scalar:
		return t.V
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = unwrap(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = unwrap(e)
		}
		return out
	}
	return nil
}
