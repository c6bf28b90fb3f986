// Package params holds the named values bound to query placeholders.
package params

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
)

// Kind 参数值的种类
type Kind uint8

const (
	KindScalar Kind = iota
	// KindSequence 会被展开成多个占位符，例如 @Ids -> (@Ids0, @Ids1)
	KindSequence
)

// Value is either a single value or a sequence of values.
type Value struct {
	kind   Kind
	scalar any
	seq    []any
}

func Scalar(val any) Value {
	return Value{kind: KindScalar, scalar: val}
}

func Sequence(vals ...any) Value {
	if vals == nil {
		vals = []any{}
	}
	return Value{kind: KindSequence, seq: vals}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Scalar returns the value of a KindScalar value, nil otherwise.
func (v Value) Scalar() any {
	return v.scalar
}

// Sequence returns the elements of a KindSequence value, nil otherwise.
func (v Value) Sequence() []any {
	return v.seq
}

// Bag 有序的参数集合，名字大小写不敏感
type Bag struct {
	names []string
	vals  map[string]Value
}

func New() *Bag {
	return &Bag{vals: make(map[string]Value, 4)}
}

// Add stores val under name, replacing any value whose name differs only by case.
// Slices and arrays become sequences, except []byte which drivers take as one value.
func (b *Bag) Add(name string, val any) *Bag {
	return b.Set(name, valueOf(val))
}

// Set stores an already built Value.
func (b *Bag) Set(name string, val Value) *Bag {
	key := strings.ToLower(name)
	if _, ok := b.vals[key]; !ok {
		b.names = append(b.names, name)
	}
	b.vals[key] = val
	return b
}

// Lookup finds the value of name, ignoring case.
func (b *Bag) Lookup(name string) (Value, bool) {
	if b == nil {
		return Value{}, false
	}
	v, ok := b.vals[strings.ToLower(name)]
	return v, ok
}

// Names returns the names in insertion order.
func (b *Bag) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.names...)
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Of builds a Bag from a struct, a pointer to struct or a map with string keys.
// Exported struct fields are used; a *Bag is returned as is.
func Of(src any) (*Bag, error) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case *Bag:
		return s, nil
	case map[string]any:
		b := New()
		for k, v := range s {
			b.Add(k, v)
		}
		return b, nil
	}

	val := reflect.ValueOf(src)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}

	b := New()
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < typ.NumField(); i++ {
			fd := typ.Field(i)
			if !fd.IsExported() {
				continue
			}
			b.Add(fd.Name, val.Field(i).Interface())
		}
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("params: unsupported map key type %s", val.Type().Key())
		}
		iter := val.MapRange()
		for iter.Next() {
			b.Add(iter.Key().String(), iter.Value().Interface())
		}
	default:
		return nil, fmt.Errorf("params: unsupported parameter source %T", src)
	}
	return b, nil
}

func valueOf(val any) Value {
	switch v := val.(type) {
	case Value:
		return v
	case []byte, driver.Valuer:
		return Scalar(v)
	}

	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		return Scalar(nil)
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Scalar(val)
	}
	// uuid.UUID 这样的 [16]byte 应该作为一个值
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return Scalar(val)
	}

	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}
	return Sequence(seq...)
}
