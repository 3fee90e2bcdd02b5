package visitor

import (
	"fmt"
	"reflect"
)

// SliceVisitorOf creates a Visitor for slice or array value
func SliceVisitorOf(value reflect.Value) (Visitor[int, reflect.Value], error) {
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("expected slice or array, got %v", value.Type())
	}
	return func(f func(key int, element reflect.Value) (bool, error)) error {
		for i := 0; i < value.Len(); i++ {
			continueVisit, err := f(i, value.Index(i))
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

// SeqElem returns element type of iter.Seq shaped function type
func SeqElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return yield.In(0), true
}

// AllElem returns element type if supplied type exposes All() iter.Seq[E]
func AllElem(t reflect.Type) (reflect.Type, bool) {
	method, ok := t.MethodByName("All")
	if !ok {
		return nil, false
	}
	if method.Type.NumIn() != 1 || method.Type.NumOut() != 1 {
		return nil, false
	}
	return SeqElem(method.Type.Out(0))
}

// SeqVisitorOf creates a Visitor for iter.Seq shaped function value
func SeqVisitorOf(value reflect.Value) (Visitor[int, reflect.Value], error) {
	if _, ok := SeqElem(value.Type()); !ok {
		return nil, fmt.Errorf("expected iter.Seq, got %v", value.Type())
	}
	return func(f func(key int, element reflect.Value) (bool, error)) error {
		if value.IsNil() {
			return nil
		}
		var visitErr error
		index := 0
		yield := reflect.MakeFunc(value.Type().In(0), func(args []reflect.Value) []reflect.Value {
			continueVisit, err := f(index, args[0])
			index++
			if err != nil {
				visitErr = err
				continueVisit = false
			}
			return []reflect.Value{reflect.ValueOf(continueVisit)}
		})
		value.Call([]reflect.Value{yield})
		return visitErr
	}, nil
}

// SequenceVisitorOf creates a Visitor for slices, arrays, iter.Seq functions and types exposing All() iter.Seq[E]
func SequenceVisitorOf(value reflect.Value) (Visitor[int, reflect.Value], error) {
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		return SliceVisitorOf(value)
	case reflect.Func:
		return SeqVisitorOf(value)
	}
	if _, ok := AllElem(value.Type()); ok {
		return SeqVisitorOf(value.MethodByName("All").Call(nil)[0])
	}
	return nil, fmt.Errorf("expected sequence, got %v", value.Type())
}
