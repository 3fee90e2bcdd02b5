package dynval

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/dynval/conv"
)

// EnumKind represents enum underlying kinds
type EnumKind interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~string
}

// EnumType represents enum symbolic names
type EnumType struct {
	Type   reflect.Type
	names  map[interface{}]string
	values map[string]reflect.Value
}

// Name returns symbolic name of enum value
func (e *EnumType) Name(value reflect.Value) (string, error) {
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if name, ok := e.names[value.Interface()]; ok {
		return name, nil
	}
	if stringer, ok := value.Interface().(fmt.Stringer); ok {
		return stringer.String(), nil
	}
	if text, ok := conv.Format(value, ""); ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %v has no symbolic name for %v", ErrUnassignable, e.Type, value.Interface())
}

// Parse returns enum value for symbolic name, registered names are matched case insensitively
func (e *EnumType) Parse(name string) (reflect.Value, error) {
	if value, ok := e.values[strings.ToLower(name)]; ok {
		return value, nil
	}
	ptr := reflect.New(e.Type)
	if unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v: %w", ErrUnassignable, e.Type, err)
		}
		return ptr.Elem(), nil
	}
	if len(e.values) == 0 || e.Type.Kind() != reflect.String {
		if value, err := conv.ParseString(name, e.Type, ""); err == nil {
			return value, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %q is not a %v name", ErrUnassignable, name, e.Type)
}

func newEnumType[E EnumKind](names map[E]string) *EnumType {
	ret := &EnumType{
		Type:   reflect.TypeOf((*E)(nil)).Elem(),
		names:  make(map[interface{}]string, len(names)),
		values: make(map[string]reflect.Value, len(names)),
	}
	for value, name := range names {
		ret.names[value] = name
		ret.values[strings.ToLower(name)] = reflect.ValueOf(value)
	}
	return ret
}
