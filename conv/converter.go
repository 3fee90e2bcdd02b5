package conv

import (
	"fmt"
	"reflect"
	"time"
)

// Options contains configuration for the converter
type Options struct {
	// TimeLayout specifies the layout for time parsing, RFC3339 variants are tried when empty
	TimeLayout string
	// UTC if true, converts time values to zero offset on assignment
	UTC bool
}

// Converter coerces values into target types
type Converter struct {
	options Options
}

// NewConverter creates a converter with the provided options
func NewConverter(options Options) *Converter {
	return &Converter{options: options}
}

// Coerce assigns value to target type: direct assignment, implicit widening,
// checked narrowing and finally string parsing are tried in that order.
func (c *Converter) Coerce(value reflect.Value, target reflect.Type) (reflect.Value, error) {
	return c.CoerceWithLayout(value, target, c.options.TimeLayout)
}

// CoerceWithLayout coerces value using supplied time layout
func (c *Converter) CoerceWithLayout(value reflect.Value, target reflect.Type, layout string) (reflect.Value, error) {
	if !value.IsValid() {
		if Nillable(target) {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign nil to %v: %w", target, ErrNotConvertible)
	}
	if value.Kind() == reflect.Interface {
		if value.IsNil() {
			return c.CoerceWithLayout(reflect.Value{}, target, layout)
		}
		value = value.Elem()
	}
	srcType := value.Type()
	if srcType.AssignableTo(target) {
		if srcType == timeType && c.options.UTC {
			return reflect.ValueOf(value.Interface().(time.Time).UTC()), nil
		}
		return value, nil
	}
	switch {
	case target.Kind() == reflect.Ptr && value.Kind() != reflect.Ptr:
		elem, err := c.CoerceWithLayout(value, target.Elem(), layout)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	case value.Kind() == reflect.Ptr && target.Kind() != reflect.Ptr:
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("cannot assign nil %v to %v: %w", srcType, target, ErrNotConvertible)
		}
		return c.CoerceWithLayout(value.Elem(), target, layout)
	case IsNumeric(value.Kind()) && IsNumeric(target.Kind()):
		if Widens(value.Kind(), target.Kind()) {
			return value.Convert(target), nil
		}
		return Narrow(value, target)
	case value.Kind() == reflect.String && target.Kind() != reflect.String:
		return ParseString(value.String(), target, layout)
	case value.Kind() == target.Kind() && srcType.ConvertibleTo(target):
		switch value.Kind() {
		case reflect.String, reflect.Bool:
			return value.Convert(target), nil
		case reflect.Slice:
			if IsBytes(srcType) && IsBytes(target) {
				return value.Convert(target), nil
			}
		}
	case srcType == timeType && target.Kind() == reflect.String:
		ts, _ := Format(value, layout)
		return reflect.ValueOf(ts).Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %v to %v: %w", srcType, target, ErrNotConvertible)
}
