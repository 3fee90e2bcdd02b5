package dynval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/dynval/conv"
)

var (
	mapStringInterfaceType = reflect.TypeOf(map[string]interface{}{})
	emptyInterfaceType     = reflect.TypeOf((*interface{})(nil)).Elem()
)

type reverse struct {
	mapper  *Mapper
	refs    *reverseRefs
	pending map[reverseKey]bool
}

// resolve resolves type descriptor and applies type policy
func (r *reverse) resolve(descriptor *TypeDescriptor) (reflect.Type, error) {
	t, err := r.mapper.options.Resolver.Resolve(descriptor)
	if err != nil {
		if !errors.Is(err, ErrUnresolvableType) {
			err = fmt.Errorf("%w: %v: %w", ErrUnresolvableType, descriptor, err)
		}
		return nil, err
	}
	if policy := r.mapper.options.TypePolicy; policy != nil {
		if err = policy(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *reverse) mapValue(value *Value, target reflect.Type) (reflect.Value, error) {
	if target == nil {
		if value == nil {
			return reflect.Value{}, nil
		}
		if value.Type == nil {
			return reflect.Value{}, fmt.Errorf("%w: neither target type nor type descriptor was supplied", ErrUnresolvableType)
		}
		var err error
		if target, err = r.resolve(value.Type); err != nil {
			return reflect.Value{}, err
		}
	}
	switch target {
	case valuePtrType:
		return reflect.ValueOf(value), nil
	case valueType:
		if value == nil {
			return reflect.Zero(target), nil
		}
		return reflect.ValueOf(*value), nil
	}
	if value.IsNull() {
		return reflect.Zero(target), nil
	}
	if isHandle(target) {
		return r.mapHandle(value, target)
	}
	if target.Kind() == reflect.Interface {
		return r.mapInterface(value, target)
	}
	if instance, ok := r.refs.lookup(reverseKey{t: target, value: value}); ok {
		return instance, nil
	}
	if payload, ok := value.Wrapped(); ok {
		return r.mapWrapped(value, payload, target)
	}
	return r.mapStructured(value, target)
}

func (r *reverse) mapWrapped(owner *Value, payload interface{}, target reflect.Type) (reflect.Value, error) {
	if items, ok := collectionItems(payload); ok {
		return r.buildCollection(owner, items, target)
	}
	return r.mapPayload(payload, target, "")
}

// collectionItems returns payload as slice value if payload represents collection items
func collectionItems(payload interface{}) (reflect.Value, bool) {
	if payload == nil {
		return reflect.Value{}, false
	}
	items := reflect.ValueOf(payload)
	if items.Kind() != reflect.Slice || conv.IsBytes(items.Type()) {
		return reflect.Value{}, false
	}
	return items, true
}

// mapInterface maps value to described concrete type if it implements target, to untyped representation otherwise
func (r *reverse) mapInterface(value *Value, target reflect.Type) (reflect.Value, error) {
	var result reflect.Value
	var err error
	concrete, err := r.concreteType(value, target)
	if err != nil {
		return reflect.Value{}, err
	}
	switch {
	case concrete != nil:
		result, err = r.mapValue(value, concrete)
	case target.NumMethod() != 0:
		return reflect.Value{}, fmt.Errorf("%w: %v does not describe %v implementation", ErrUnassignable, value.Type, target)
	case value.IsWrapper():
		payload, _ := value.Wrapped()
		if items, ok := collectionItems(payload); ok {
			result, err = r.buildCollection(value, items, target)
		} else if nested, ok := payload.(*Value); ok {
			result, err = r.mapValue(nested, target)
		} else {
			result = reflect.ValueOf(payload)
		}
	default:
		result, err = r.mapStructured(value, mapStringInterfaceType)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	ret := reflect.New(target).Elem()
	if result.IsValid() {
		if result.Kind() == reflect.Interface {
			if result.IsNil() {
				return ret, nil
			}
			result = result.Elem()
		}
		if !result.Type().AssignableTo(target) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not implement %v", ErrUnassignable, result.Type(), target)
		}
		ret.Set(result)
	}
	return ret, nil
}

func (r *reverse) concreteType(value *Value, target reflect.Type) (reflect.Type, error) {
	if value.Type == nil {
		return nil, nil
	}
	concrete, err := r.resolve(value.Type)
	if err != nil {
		var rejected *TypeRejectedError
		if errors.As(err, &rejected) {
			return nil, err
		}
		return nil, nil
	}
	if isHandle(concrete) {
		return concrete, nil
	}
	if concrete.Kind() == reflect.Interface || !concrete.Implements(target) {
		return nil, nil
	}
	return concrete, nil
}

// mapPayload maps property payload to target type
func (r *reverse) mapPayload(payload interface{}, target reflect.Type, layout string) (reflect.Value, error) {
	switch actual := payload.(type) {
	case nil:
		return reflect.Zero(target), nil
	case *Value:
		return r.mapValue(actual, target)
	case Value:
		return r.mapValue(&actual, target)
	}
	if target == valuePtrType {
		return reflect.ValueOf(Wrap(nil, payload)), nil
	}
	if items, ok := collectionItems(payload); ok {
		return r.buildCollection(nil, items, target)
	}
	source := reflect.ValueOf(payload)
	if target.Kind() == reflect.Interface {
		if !source.Type().Implements(target) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not implement %v", ErrUnassignable, source.Type(), target)
		}
		ret := reflect.New(target).Elem()
		ret.Set(source)
		return ret, nil
	}
	if enum := r.mapper.classifier.Enum(target); enum != nil && source.Kind() == reflect.String {
		return r.parseEnum(enum, source.String(), target)
	}
	if layout == "" {
		layout = r.mapper.options.TimeLayout
	}
	ret, err := r.mapper.converter.CoerceWithLayout(source, target, layout)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", ErrUnassignable, err)
	}
	return ret, nil
}

func (r *reverse) parseEnum(enum *EnumType, name string, target reflect.Type) (reflect.Value, error) {
	ret, err := enum.Parse(name)
	if err != nil {
		return reflect.Value{}, err
	}
	if target.Kind() == reflect.Ptr {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(ret)
		return ptr, nil
	}
	return ret, nil
}

func (r *reverse) mapStructured(value *Value, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.Ptr:
		if target.Elem().Kind() == reflect.Struct {
			return r.mapStruct(value, target.Elem())
		}
		elem, err := r.mapValue(value, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	case reflect.Struct:
		ptr, err := r.mapStruct(value, target)
		if err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	case reflect.Map:
		return r.mapProperties(value, target)
	}
	if isCollection(target) {
		return reflect.Value{}, fmt.Errorf("%w: structured value can not populate %v", ErrUnsupportedCollection, target)
	}
	return reflect.Value{}, fmt.Errorf("%w: structured value can not be assigned to %v", ErrUnassignable, target)
}

// mapProperties maps structured value to map keyed by property name
func (r *reverse) mapProperties(value *Value, target reflect.Type) (reflect.Value, error) {
	ret := reflect.MakeMapWithSize(target, value.Properties.Len())
	r.refs.register(reverseKey{t: target, value: value}, ret)
	for _, name := range value.Properties.Names() {
		key, err := r.mapPayload(name, target.Key(), "")
		if err != nil {
			return reflect.Value{}, withPath(name, err)
		}
		prop := value.Properties.Lookup(name)
		item, err := r.mapPayload(prop.Value, target.Elem(), "")
		if err != nil {
			return reflect.Value{}, withPath(name, err)
		}
		ret.SetMapIndex(key, item)
	}
	return ret, nil
}

// mapStruct creates and populates struct instance, returns pointer to instance.
// Instance is registered under T and *T before its members are populated.
func (r *reverse) mapStruct(value *Value, t reflect.Type) (reflect.Value, error) {
	ptrType := reflect.PointerTo(t)
	key := reverseKey{t: ptrType, value: value}
	if ptr, ok := r.refs.lookup(key); ok {
		return ptr, nil
	}
	if r.pending[key] {
		return reflect.Value{}, fmt.Errorf("%w: %v constructor depends on itself", ErrNoMatchingConstructor, t)
	}
	r.pending[key] = true
	defer delete(r.pending, key)
	ptr, consumed, err := r.create(value, t)
	if err != nil {
		return reflect.Value{}, err
	}
	r.refs.register(key, ptr)
	r.refs.register(reverseKey{t: t, value: value}, ptr.Elem())
	members, err := r.mapper.members(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return ptr, r.populate(value, ptr.Elem(), members, consumed)
}

func (r *reverse) create(value *Value, t reflect.Type) (reflect.Value, map[string]bool, error) {
	factory, ok := r.mapper.options.Factories[t]
	if !ok {
		return r.construct(value, t)
	}
	instance, err := factory(value)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	instanceValue := reflect.ValueOf(instance)
	switch {
	case !instanceValue.IsValid():
	case instanceValue.Type() == reflect.PointerTo(t) && !instanceValue.IsNil():
		return instanceValue, map[string]bool{}, nil
	case instanceValue.Type() == t:
		ptr := reflect.New(t)
		ptr.Elem().Set(instanceValue)
		return ptr, map[string]bool{}, nil
	}
	return reflect.Value{}, nil, fmt.Errorf("factory of %v returned %T", t, instance)
}

// populate assigns members not consumed by constructor by name, unassignable members are skipped when configured
func (r *reverse) populate(value *Value, owner reflect.Value, members []*Member, consumed map[string]bool) error {
	for _, member := range members {
		if consumed[strings.ToLower(member.Name)] {
			continue
		}
		prop := value.Properties.Fold(member.Name)
		if prop == nil {
			if member.Required {
				return withPath(member.Name, fmt.Errorf("required member is missing"))
			}
			continue
		}
		memberValue, err := r.mapPayload(prop.Value, member.Type, member.TimeLayout)
		if err == nil {
			err = member.Set(owner, memberValue)
		}
		if err != nil {
			if isRecoverable(err) && r.mapper.options.SilentlySkipUnassignableMembers {
				continue
			}
			return withPath(member.Name, err)
		}
	}
	return nil
}
