package conv

import "reflect"

type kindPair struct {
	src  reflect.Kind
	dest reflect.Kind
}

// widening holds implicit, value preserving promotions between numeric kinds.
// int, uint and uintptr follow the platform word size.
var widening = map[kindPair]bool{}

func init() {
	for _, src := range numericKinds {
		for _, dest := range numericKinds {
			if src == dest {
				continue
			}
			if widens(src, dest) {
				widening[kindPair{src, dest}] = true
			}
		}
	}
}

func widens(src, dest reflect.Kind) bool {
	srcBits, destBits := bitsOf(src), bitsOf(dest)
	switch classOf(src) {
	case signedClass:
		switch classOf(dest) {
		case signedClass:
			return srcBits <= destBits
		case floatClass, complexClass:
			return true
		}
	case unsignedClass:
		switch classOf(dest) {
		case signedClass:
			return srcBits < destBits
		case unsignedClass:
			return srcBits <= destBits
		case floatClass, complexClass:
			return true
		}
	case floatClass:
		switch classOf(dest) {
		case floatClass:
			return srcBits < destBits
		case complexClass:
			return srcBits <= destBits/2
		}
	case complexClass:
		return classOf(dest) == complexClass && srcBits < destBits
	}
	return false
}

// Widens returns true if implicit widening exists from src to dest kind
func Widens(src, dest reflect.Kind) bool {
	return src == dest && IsNumeric(src) || widening[kindPair{src, dest}]
}

// Assignable returns true if value can be assigned to target type without narrowing:
// direct assignability, nil for nillable target or implicit numeric widening.
func Assignable(value reflect.Value, target reflect.Type) bool {
	if !value.IsValid() {
		return Nillable(target)
	}
	if value.Type().AssignableTo(target) {
		return true
	}
	if target.Kind() == reflect.Ptr && value.Kind() != reflect.Ptr {
		return Assignable(value, target.Elem())
	}
	return Widens(value.Kind(), target.Kind())
}

// Nillable returns true if nil is a valid value of supplied type
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
