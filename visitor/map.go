package visitor

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// MapVisitorOf creates a map Visitor, keys of ordered kinds are visited in ascending order
func MapVisitorOf(value reflect.Value) (Visitor[reflect.Value, reflect.Value], error) {
	if value.Kind() != reflect.Map {
		return nil, fmt.Errorf("expected map, got %v", value.Type())
	}
	return func(f func(key reflect.Value, element reflect.Value) (bool, error)) error {
		for _, key := range SortedKeys(value) {
			continueVisit, err := f(key, value.MapIndex(key))
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}, nil
}

// SortedKeys returns map keys, sorted when key kind is ordered
func SortedKeys(value reflect.Value) []reflect.Value {
	keys := value.MapKeys()
	var compare func(a, b reflect.Value) int
	switch value.Type().Key().Kind() {
	case reflect.String:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) }
	case reflect.Float32, reflect.Float64:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) }
	case reflect.Bool:
		compare = func(a, b reflect.Value) int {
			switch {
			case a.Bool() == b.Bool():
				return 0
			case b.Bool():
				return -1
			}
			return 1
		}
	default:
		return keys
	}
	slices.SortFunc(keys, compare)
	return keys
}
