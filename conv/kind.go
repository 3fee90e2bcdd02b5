package conv

import (
	"reflect"
	"strconv"
	"time"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	bytesType    = reflect.TypeOf([]byte{})
)

type numericClass int

const (
	notNumeric numericClass = iota
	signedClass
	unsignedClass
	floatClass
	complexClass
)

// numericKinds lists all primitive numeric kinds
var numericKinds = []reflect.Kind{
	reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
	reflect.Float32, reflect.Float64,
	reflect.Complex64, reflect.Complex128,
}

func classOf(kind reflect.Kind) numericClass {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedClass
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedClass
	case reflect.Float32, reflect.Float64:
		return floatClass
	case reflect.Complex64, reflect.Complex128:
		return complexClass
	}
	return notNumeric
}

func bitsOf(kind reflect.Kind) int {
	switch kind {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 32
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return strconv.IntSize
	case reflect.Complex64:
		return 64
	case reflect.Complex128:
		return 128
	}
	return 64
}

// IsNumeric returns true for primitive numeric kinds
func IsNumeric(kind reflect.Kind) bool {
	return classOf(kind) != notNumeric
}

// IsTime returns true if supplied type is time.Time
func IsTime(t reflect.Type) bool {
	return t == timeType
}

// IsDuration returns true if supplied type is time.Duration
func IsDuration(t reflect.Type) bool {
	return t == durationType
}

// IsBytes returns true for byte sequences
func IsBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
