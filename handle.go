package dynval

import (
	"fmt"
	"reflect"
)

var (
	typeHandle        = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	structFieldHandle = reflect.TypeOf(reflect.StructField{})
	methodHandle      = reflect.TypeOf(reflect.Method{})
)

type structFieldShape struct {
	Name      string
	PkgPath   string
	Type      *Value
	Tag       string
	Index     []int
	Anonymous bool
}

type methodShape struct {
	Name    string
	PkgPath string
	Type    *Value
	Index   int
}

func isShape(t reflect.Type) bool {
	return t == reflect.TypeOf(structFieldShape{}) || t == reflect.TypeOf(methodShape{})
}

func isHandle(t reflect.Type) bool {
	switch t {
	case typeHandle, structFieldHandle, methodHandle:
		return true
	}
	return t.Kind() != reflect.Interface && t.Implements(typeHandle)
}

// mapHandle maps introspection handle to value carrying the described type as a null marker
func (f *forward) mapHandle(value reflect.Value) (*Value, error) {
	switch actual := value.Interface().(type) {
	case reflect.Type:
		return Wrap(f.describe(typeHandle), NullValue(f.mapper.Describe(actual))), nil
	case reflect.StructField:
		shape := &structFieldShape{Name: actual.Name, PkgPath: actual.PkgPath, Type: NullValue(f.mapper.Describe(actual.Type)),
			Tag: string(actual.Tag), Index: actual.Index, Anonymous: actual.Anonymous}
		return f.mapShape(shape, structFieldHandle)
	case reflect.Method:
		shape := &methodShape{Name: actual.Name, PkgPath: actual.PkgPath, Type: NullValue(f.mapper.Describe(actual.Type)), Index: actual.Index}
		return f.mapShape(shape, methodHandle)
	}
	return nil, fmt.Errorf("unsupported handle %v", value.Type())
}

func (f *forward) mapShape(shape interface{}, handle reflect.Type) (*Value, error) {
	ret, err := f.mapComplex(reflect.ValueOf(shape).Elem())
	if err != nil {
		return nil, err
	}
	ret.Type = f.describe(handle)
	return ret, nil
}

// mapHandle resolves described type with the type resolver
func (r *reverse) mapHandle(value *Value, target reflect.Type) (reflect.Value, error) {
	switch target {
	case typeHandle:
		payload, _ := value.Wrapped()
		described, ok := payload.(*Value)
		if !ok || described == nil {
			return reflect.Value{}, fmt.Errorf("%w: expected described type, got %T", ErrUnassignable, payload)
		}
		t, err := r.resolve(described.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(typeHandle).Elem()
		ret.Set(reflect.ValueOf(t))
		return ret, nil
	case structFieldHandle:
		shape := structFieldShape{}
		if err := r.mapShape(value, &shape); err != nil {
			return reflect.Value{}, err
		}
		t, err := r.resolve(shape.Type.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		field := reflect.StructField{Name: shape.Name, PkgPath: shape.PkgPath, Type: t,
			Tag: reflect.StructTag(shape.Tag), Index: shape.Index, Anonymous: shape.Anonymous}
		return reflect.ValueOf(field), nil
	case methodHandle:
		shape := methodShape{}
		if err := r.mapShape(value, &shape); err != nil {
			return reflect.Value{}, err
		}
		t, err := r.resolve(shape.Type.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		if t.Kind() == reflect.Func && t.NumIn() > 0 {
			if method, ok := t.In(0).MethodByName(shape.Name); ok {
				return reflect.ValueOf(method), nil
			}
		}
		return reflect.ValueOf(reflect.Method{Name: shape.Name, PkgPath: shape.PkgPath, Type: t, Index: shape.Index}), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %v is not a handle type", ErrUnassignable, target)
}

func (r *reverse) mapShape(value *Value, shape interface{}) error {
	shapeValue := reflect.ValueOf(shape).Elem()
	if value.IsWrapper() {
		return fmt.Errorf("%w: expected structured %v", ErrUnassignable, shapeValue.Type())
	}
	members, err := r.mapper.members(shapeValue.Type())
	if err != nil {
		return err
	}
	if err = r.populate(value, shapeValue, members, nil); err != nil {
		return err
	}
	if typeValue := shapeValue.FieldByName("Type").Interface().(*Value); typeValue == nil {
		return fmt.Errorf("%w: %v missing Type", ErrUnassignable, shapeValue.Type())
	}
	return nil
}
