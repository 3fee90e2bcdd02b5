package dynval

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/viant/dynval/conv"
	"github.com/viant/dynval/visitor"
)

const (
	entryKey   = "Key"
	entryValue = "Value"
)

var (
	stringType    = reflect.TypeOf("")
	stringPtrType = reflect.TypeOf((*string)(nil))
	entryTypes    = visitor.NewSyncMap[reflect.Type, reflect.Type]()
)

// entryTypeOf returns key/value pair struct type for supplied map type
func entryTypeOf(mapType reflect.Type) reflect.Type {
	return entryTypes.GetOrCompute(mapType, func() reflect.Type {
		return reflect.StructOf([]reflect.StructField{
			{Name: entryKey, Type: mapType.Key()},
			{Name: entryValue, Type: mapType.Elem()},
		})
	})
}

type forward struct {
	mapper  *Mapper
	include func(t reflect.Type) bool
	refs    *forwardRefs
}

func (f *forward) describe(t reflect.Type) *TypeDescriptor {
	if t == nil || (f.include != nil && !f.include(t)) {
		return nil
	}
	return f.mapper.Describe(t)
}

// mapObject maps top level object, non value results are wrapped
func (f *forward) mapObject(value reflect.Value) (*Value, error) {
	payload, err := f.mapAny(value, "")
	if err != nil {
		return nil, err
	}
	switch actual := payload.(type) {
	case *Value:
		return actual, nil
	case nil:
		if !f.mapper.options.WrapNullAsDynamicValue {
			return nil, nil
		}
		var t reflect.Type
		if value.IsValid() {
			t = value.Type()
		}
		return NullValue(f.describe(t)), nil
	}
	return Wrap(f.describe(value.Type()), payload), nil
}

// mapAny returns property payload: *Value, native leaf, formatted string, opaque value or nil
func (f *forward) mapAny(value reflect.Value, layout string) (interface{}, error) {
	if !value.IsValid() {
		return nil, nil
	}
	if value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil
		}
		value = value.Elem()
	}
	switch value.Type() {
	case valuePtrType:
		if ret := value.Interface().(*Value); ret != nil {
			return ret, nil
		}
		return nil, nil
	case valueType:
		ret := value.Interface().(Value)
		return &ret, nil
	}
	if conv.Nillable(value.Type()) && value.IsNil() {
		return f.null(value.Type()), nil
	}
	switch category := f.mapper.classifier.Classify(value.Type()); category {
	case Handle:
		return f.mapHandle(value)
	case Enum:
		return f.mapper.classifier.Enum(value.Type()).Name(value)
	case NativeLeaf:
		return f.mapLeaf(value, layout), nil
	case Opaque:
		return value.Interface(), nil
	case Collection:
		return f.mapCollection(value)
	case Complex:
		return f.mapComplex(value)
	default:
		return nil, fmt.Errorf("%w: %v is %v", ErrUnassignable, value.Type(), category)
	}
}

func (f *forward) null(t reflect.Type) interface{} {
	if !f.mapper.options.WrapNullAsDynamicValue {
		return nil
	}
	switch f.mapper.classifier.Classify(t) {
	case Collection, Complex:
		return NullValue(f.describe(t))
	}
	return nil
}

func (f *forward) mapLeaf(value reflect.Value, layout string) interface{} {
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if f.mapper.options.FormatNativeTypesAsString {
		if layout == "" {
			layout = f.mapper.options.TimeLayout
		}
		text, _ := conv.Format(value, layout)
		return text
	}
	if conv.IsBytes(value.Type()) {
		return reflect.ValueOf(bytes.Clone(value.Bytes())).Convert(value.Type()).Interface()
	}
	return value.Interface()
}

func (f *forward) mapCollection(value reflect.Value) (interface{}, error) {
	if value.Kind() == reflect.Ptr && isCollection(value.Type().Elem()) {
		return f.mapAny(value.Elem(), "")
	}
	key, hasIdentity := identityOf(value)
	if hasIdentity {
		if ret, ok := f.refs.lookup(key); ok {
			return ret, nil
		}
	}
	ret := &Value{Type: f.describe(value.Type()), Properties: &PropertyBag{}}
	if hasIdentity {
		ret = f.refs.register(key, ret)
	}
	var items interface{}
	var err error
	switch {
	case value.Kind() == reflect.Map:
		items, err = f.mapEntries(value, ret.Type)
	case value.Kind() == reflect.Array:
		leaf, _ := flatArray(value.Type())
		items, err = f.mapFlat(value, leaf)
	default:
		items, err = f.mapItems(value)
	}
	if err != nil {
		return nil, err
	}
	ret.Properties.Append("", items)
	return ret, nil
}

// flatArray returns innermost element type of nested fixed size arrays
func flatArray(t reflect.Type) (reflect.Type, int) {
	depth := 0
	for t.Kind() == reflect.Array {
		t = t.Elem()
		depth++
	}
	return t, depth
}

func (f *forward) mapItems(value reflect.Value) (interface{}, error) {
	elemType, ok := visitor.SeqElem(value.Type())
	if !ok {
		if elemType, ok = visitor.AllElem(value.Type()); !ok {
			elemType = value.Type().Elem()
		}
	}
	visit, err := visitor.SequenceVisitorOf(value)
	if err != nil {
		return nil, err
	}
	var items = []interface{}{}
	err = visit(func(index int, element reflect.Value) (bool, error) {
		item, err := f.mapAny(element, "")
		if err != nil {
			return false, withPath(strconv.Itoa(index), err)
		}
		items = append(items, item)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return f.typedItems(items, elemType), nil
}

// mapFlat maps nested fixed size arrays in row-major order
func (f *forward) mapFlat(value reflect.Value, leaf reflect.Type) (interface{}, error) {
	if category := f.mapper.classifier.Classify(leaf); category != NativeLeaf && category != Enum {
		leaf = value.Type().Elem()
		items, err := f.appendFlat(nil, value, 1)
		if err != nil {
			return nil, err
		}
		return f.typedItems(items, leaf), nil
	}
	_, depth := flatArray(value.Type())
	items, err := f.appendFlat(nil, value, depth)
	if err != nil {
		return nil, err
	}
	return f.typedItems(items, leaf), nil
}

func (f *forward) appendFlat(items []interface{}, value reflect.Value, depth int) ([]interface{}, error) {
	for i := 0; i < value.Len(); i++ {
		element := value.Index(i)
		if depth > 1 {
			var err error
			if items, err = f.appendFlat(items, element, depth-1); err != nil {
				return nil, err
			}
			continue
		}
		item, err := f.mapAny(element, "")
		if err != nil {
			return nil, withPath(strconv.Itoa(len(items)), err)
		}
		items = append(items, item)
	}
	if items == nil {
		items = []interface{}{}
	}
	return items, nil
}

// typedItems returns items as a typed slice: original leaf element type, strings for enums and formatted leaves,
// values when every item is nil or value, interface slice otherwise
func (f *forward) typedItems(items []interface{}, elemType reflect.Type) interface{} {
	if elemType.Kind() != reflect.Interface {
		switch f.mapper.classifier.Classify(elemType) {
		case NativeLeaf:
			if !f.mapper.options.FormatNativeTypesAsString {
				return leafSlice(items, elemType)
			}
			return stringSlice(items, elemType.Kind() == reflect.Ptr)
		case Enum:
			return stringSlice(items, elemType.Kind() == reflect.Ptr)
		}
	}
	values := make([]*Value, len(items))
	for i, item := range items {
		switch actual := item.(type) {
		case nil:
		case *Value:
			values[i] = actual
		default:
			return items
		}
	}
	return values
}

func leafSlice(items []interface{}, elemType reflect.Type) interface{} {
	ret := reflect.MakeSlice(reflect.SliceOf(elemType), len(items), len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		itemValue := reflect.ValueOf(item)
		if elemType.Kind() == reflect.Ptr {
			ptr := reflect.New(elemType.Elem())
			ptr.Elem().Set(itemValue)
			itemValue = ptr
		}
		ret.Index(i).Set(itemValue)
	}
	return ret.Interface()
}

func stringSlice(items []interface{}, nullable bool) interface{} {
	elemType := stringType
	if nullable {
		elemType = stringPtrType
	}
	return leafSlice(items, elemType)
}

func (f *forward) mapEntries(value reflect.Value, mapDescriptor *TypeDescriptor) (interface{}, error) {
	var descriptor *TypeDescriptor
	if mapDescriptor != nil {
		descriptor = entryDescriptor(mapDescriptor, entryTypeOf(value.Type()))
	}
	visit, err := visitor.MapVisitorOf(value)
	if err != nil {
		return nil, err
	}
	var entries = []*Value{}
	err = visit(func(key reflect.Value, element reflect.Value) (bool, error) {
		mappedKey, err := f.mapAny(key, "")
		if err != nil {
			return false, withPath(entryKey, err)
		}
		mappedValue, err := f.mapAny(element, "")
		if err != nil {
			return false, withPath(fmt.Sprint(key.Interface()), err)
		}
		entry := NewValue(descriptor)
		entry.Properties.Append(entryKey, mappedKey)
		entry.Properties.Append(entryValue, mappedValue)
		entries = append(entries, entry)
		return true, nil
	})
	return entries, err
}

// mapComplex maps struct members, value is registered before members are visited
func (f *forward) mapComplex(value reflect.Value) (*Value, error) {
	key, hasIdentity := identityOf(value)
	if hasIdentity {
		if ret, ok := f.refs.lookup(key); ok {
			return ret, nil
		}
	}
	ret := &Value{Type: f.describe(value.Type()), Properties: &PropertyBag{}}
	if hasIdentity {
		ret = f.refs.register(key, ret)
	}
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	owner := addressable(value)
	members, err := f.mapper.members(owner.Type())
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		memberValue, err := member.Get(owner)
		if err != nil {
			return nil, withPath(member.Name, err)
		}
		if !memberValue.IsValid() {
			continue
		}
		payload, err := f.mapAny(memberValue, member.TimeLayout)
		if err != nil {
			return nil, withPath(member.Name, err)
		}
		if err = ret.Properties.Add(member.Name, payload); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
