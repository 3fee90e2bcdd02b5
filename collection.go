package dynval

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/viant/dynval/visitor"
)

// buildCollection builds target collection from mapped items, owner is registered with slice and map results
func (r *reverse) buildCollection(owner *Value, items reflect.Value, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.Slice:
		return r.buildSlice(owner, items, target)
	case reflect.Array:
		return r.buildArray(items, target)
	case reflect.Map:
		return r.buildMap(owner, items, target)
	case reflect.Interface:
		elemType, err := r.inferElem(items)
		if err != nil {
			return reflect.Value{}, err
		}
		sliceType := reflect.SliceOf(elemType)
		if sliceType.Implements(target) {
			slice, err := r.buildSlice(owner, items, sliceType)
			if err != nil {
				return reflect.Value{}, err
			}
			ret := reflect.New(target).Elem()
			ret.Set(slice)
			return ret, nil
		}
	case reflect.Ptr:
		if elem := target.Elem(); elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array || elem.Kind() == reflect.Map {
			collection, err := r.buildCollection(owner, items, elem)
			if err != nil {
				return reflect.Value{}, err
			}
			ptr := reflect.New(elem)
			ptr.Elem().Set(collection)
			return ptr, nil
		}
	}
	if elemType, ok := visitor.SeqElem(target); ok {
		slice, err := r.buildSlice(nil, items, reflect.SliceOf(elemType))
		if err != nil {
			return reflect.Value{}, err
		}
		return sequenceOf(slice, target), nil
	}
	if ret, ok, err := r.construction(items, target); ok || err != nil {
		return ret, err
	}
	if ret, ok, err := r.addition(items, target); ok || err != nil {
		return ret, err
	}
	elemType, _ := r.inferElem(items)
	return reflect.Value{}, fmt.Errorf("%w: can not build %v from %v elements", ErrUnsupportedCollection, target, elemType)
}

func (r *reverse) mapItem(item reflect.Value, elemType reflect.Type) (reflect.Value, error) {
	return r.mapPayload(item.Interface(), elemType, "")
}

func (r *reverse) buildSlice(owner *Value, items reflect.Value, target reflect.Type) (reflect.Value, error) {
	ret := reflect.MakeSlice(target, items.Len(), items.Len())
	r.refs.register(reverseKey{t: target, value: owner}, ret)
	for i := 0; i < items.Len(); i++ {
		item, err := r.mapItem(items.Index(i), target.Elem())
		if err != nil {
			return reflect.Value{}, withPath(strconv.Itoa(i), err)
		}
		ret.Index(i).Set(item)
	}
	return ret, nil
}

// buildArray fills fixed size array, nested arrays are filled in row-major order from flat items
func (r *reverse) buildArray(items reflect.Value, target reflect.Type) (reflect.Value, error) {
	ret := reflect.New(target).Elem()
	_, depth := flatArray(target)
	if depth > 1 && items.Len() == flatLen(target) && !isValueSlice(items) {
		index := 0
		return ret, r.fillFlat(ret, items, &index)
	}
	if items.Len() > target.Len() {
		return reflect.Value{}, fmt.Errorf("%w: %v can not hold %v items", ErrUnsupportedCollection, target, items.Len())
	}
	for i := 0; i < items.Len(); i++ {
		item, err := r.mapItem(items.Index(i), target.Elem())
		if err != nil {
			return reflect.Value{}, withPath(strconv.Itoa(i), err)
		}
		ret.Index(i).Set(item)
	}
	return ret, nil
}

func (r *reverse) fillFlat(array reflect.Value, items reflect.Value, index *int) error {
	for i := 0; i < array.Len(); i++ {
		element := array.Index(i)
		if element.Kind() == reflect.Array {
			if err := r.fillFlat(element, items, index); err != nil {
				return err
			}
			continue
		}
		item, err := r.mapItem(items.Index(*index), element.Type())
		if err != nil {
			return withPath(strconv.Itoa(*index), err)
		}
		element.Set(item)
		*index++
	}
	return nil
}

func flatLen(t reflect.Type) int {
	ret := 1
	for t.Kind() == reflect.Array {
		ret *= t.Len()
		t = t.Elem()
	}
	return ret
}

func isValueSlice(items reflect.Value) bool {
	return items.Type().Elem() == valuePtrType
}

func (r *reverse) buildMap(owner *Value, items reflect.Value, target reflect.Type) (reflect.Value, error) {
	ret := reflect.MakeMapWithSize(target, items.Len())
	r.refs.register(reverseKey{t: target, value: owner}, ret)
	for i := 0; i < items.Len(); i++ {
		item := items.Index(i)
		if item.Kind() == reflect.Interface {
			item = item.Elem()
		}
		entry, ok := item.Interface().(*Value)
		if !ok || entry.IsNull() || entry.IsWrapper() {
			return reflect.Value{}, withPath(strconv.Itoa(i), fmt.Errorf("%w: expected %v/%v entry for %v", ErrUnsupportedCollection, entryKey, entryValue, target))
		}
		keyProp := entry.Properties.Fold(entryKey)
		if keyProp == nil {
			return reflect.Value{}, withPath(strconv.Itoa(i), fmt.Errorf("%w: entry without %v", ErrUnsupportedCollection, entryKey))
		}
		key, err := r.mapPayload(keyProp.Value, target.Key(), "")
		if err != nil {
			return reflect.Value{}, withPath(entryKey, err)
		}
		var element = reflect.Zero(target.Elem())
		if valueProp := entry.Properties.Fold(entryValue); valueProp != nil {
			if element, err = r.mapPayload(valueProp.Value, target.Elem(), ""); err != nil {
				return reflect.Value{}, withPath(fmt.Sprint(key.Interface()), err)
			}
		}
		ret.SetMapIndex(key, element)
	}
	return ret, nil
}

// inferElem returns element type of typed items, common described element type or interface{}
func (r *reverse) inferElem(items reflect.Value) (reflect.Type, error) {
	elemType := items.Type().Elem()
	if elemType != valuePtrType && elemType.Kind() != reflect.Interface {
		return elemType, nil
	}
	var common reflect.Type
	for i := 0; i < items.Len(); i++ {
		item := items.Index(i)
		if item.Kind() == reflect.Interface {
			item = item.Elem()
		}
		if !item.IsValid() || (item.Kind() == reflect.Ptr && item.IsNil()) {
			continue
		}
		candidate := item.Type()
		if value, ok := item.Interface().(*Value); ok {
			if value.Type == nil {
				return emptyInterfaceType, nil
			}
			var err error
			if candidate, err = r.concreteType(value, emptyInterfaceType); err != nil {
				return nil, err
			}
			if candidate == nil {
				return emptyInterfaceType, nil
			}
		}
		if common != nil && common != candidate {
			return emptyInterfaceType, nil
		}
		common = candidate
	}
	if common == nil {
		return emptyInterfaceType, nil
	}
	return common, nil
}

// sequenceOf returns read-only iter.Seq shaped function over slice
func sequenceOf(slice reflect.Value, target reflect.Type) reflect.Value {
	return reflect.MakeFunc(target, func(args []reflect.Value) []reflect.Value {
		yield := args[0]
		for i := 0; i < slice.Len(); i++ {
			if !yield.Call([]reflect.Value{slice.Index(i)})[0].Bool() {
				break
			}
		}
		return nil
	})
}

// construction invokes registered single slice parameter constructor
func (r *reverse) construction(items reflect.Value, target reflect.Type) (reflect.Value, bool, error) {
	constructed := target
	if constructed.Kind() == reflect.Ptr {
		constructed = constructed.Elem()
	}
	for _, constructor := range r.mapper.options.Constructors[constructed] {
		if _, ok := constructor.IsCollection(); !ok {
			continue
		}
		slice, err := r.buildSlice(nil, items, constructor.paramTypes[0])
		if err != nil {
			return reflect.Value{}, true, err
		}
		ptr, err := constructor.New(slice)
		if err != nil {
			return reflect.Value{}, true, err
		}
		if target.Kind() == reflect.Ptr {
			return ptr, true, nil
		}
		return ptr.Elem(), true, nil
	}
	return reflect.Value{}, false, nil
}

// addition creates zero value instance and adds each item with its Add method
func (r *reverse) addition(items reflect.Value, target reflect.Type) (reflect.Value, bool, error) {
	ptrType := target
	if ptrType.Kind() != reflect.Ptr {
		ptrType = reflect.PointerTo(target)
	}
	method, ok := ptrType.MethodByName("Add")
	if !ok || method.Type.NumIn() != 2 {
		return reflect.Value{}, false, nil
	}
	elemType := method.Type.In(1)
	ptr := reflect.New(ptrType.Elem())
	add := ptr.MethodByName("Add")
	for i := 0; i < items.Len(); i++ {
		item, err := r.mapItem(items.Index(i), elemType)
		if err != nil {
			return reflect.Value{}, true, withPath(strconv.Itoa(i), err)
		}
		out := add.Call([]reflect.Value{item})
		if len(out) > 0 && out[len(out)-1].Type() == errorType && !out[len(out)-1].IsNil() {
			return reflect.Value{}, true, withPath(strconv.Itoa(i), out[len(out)-1].Interface().(error))
		}
	}
	if target.Kind() == reflect.Ptr {
		return ptr, true, nil
	}
	return ptr.Elem(), true, nil
}
