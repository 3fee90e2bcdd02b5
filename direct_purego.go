//go:build purego

package dynval

import "reflect"

const directAccessAvailable = false

func directField(owner reflect.Value, index []int) (reflect.Value, error) {
	return reflect.Value{}, ErrDirectAccessUnavailable
}
