package visitor

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

var structCache = NewSyncMap[reflect.Type, *xunsafe.Struct]()

// StructOf returns cached xunsafe struct for supplied struct type
func StructOf(structType reflect.Type) *xunsafe.Struct {
	return structCache.GetOrCompute(structType, func() *xunsafe.Struct {
		return xunsafe.NewStruct(structType)
	})
}

// StructVisitorOf creates a Visitor over struct fields, unexported fields included.
// Supplied value has to be a pointer to struct.
func StructVisitorOf(value reflect.Value) (Visitor[*xunsafe.Field, reflect.Value], error) {
	if value.Kind() != reflect.Ptr || value.Type().Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected pointer to struct, got %v", value.Type())
	}
	xStruct := StructOf(value.Type().Elem())
	return func(f func(key *xunsafe.Field, element reflect.Value) (bool, error)) error {
		if value.IsNil() {
			return nil
		}
		ptr := unsafe.Pointer(value.Pointer())
		for i := range xStruct.Fields {
			xField := &xStruct.Fields[i]
			fieldValue := reflect.NewAt(xField.Type, xField.Pointer(ptr)).Elem()
			continueVisit, err := f(xField, fieldValue)
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
