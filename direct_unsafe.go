//go:build !purego

package dynval

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/dynval/visitor"
)

const directAccessAvailable = true

// directField returns writable field value bypassing export rules
func directField(owner reflect.Value, index []int) (reflect.Value, error) {
	parent, err := fieldByIndexAlloc(owner, index[:len(index)-1])
	if err != nil {
		return reflect.Value{}, err
	}
	if parent.Kind() == reflect.Ptr {
		if parent.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil embedded %v", ErrUnassignable, parent.Type())
		}
		parent = parent.Elem()
	}
	if !parent.CanAddr() {
		return reflect.Value{}, fmt.Errorf("%w: %v is not addressable", ErrUnassignable, parent.Type())
	}
	xField := &visitor.StructOf(parent.Type()).Fields[index[len(index)-1]]
	return reflect.NewAt(xField.Type, xField.Pointer(unsafe.Pointer(parent.UnsafeAddr()))).Elem(), nil
}
