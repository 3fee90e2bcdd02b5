package dynval

import (
	"fmt"
	"go/token"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
)

// TypeResolver resolves type descriptor into concrete type
type TypeResolver interface {
	Resolve(descriptor *TypeDescriptor) (reflect.Type, error)
}

var builtinTypes = map[string]reflect.Type{}

func init() {
	for _, t := range []reflect.Type{
		reflect.TypeOf(false),
		reflect.TypeOf(0), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)), reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
		reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)), reflect.TypeOf(uint32(0)), reflect.TypeOf(uint64(0)),
		reflect.TypeOf(uintptr(0)),
		reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)),
		reflect.TypeOf(complex64(0)), reflect.TypeOf(complex128(0)),
		reflect.TypeOf(""),
		reflect.TypeOf((*interface{})(nil)).Elem(),
	} {
		builtinTypes[t.Kind().String()] = t
	}
}

// Registry represents default type resolver backed by registered types
type Registry struct {
	mux    sync.RWMutex
	byName map[string][]reflect.Type
	types  map[string]reflect.Type
}

// Register registers types
func (r *Registry) Register(types ...reflect.Type) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, t := range types {
		if t == nil || t.Name() == "" {
			continue
		}
		qualified := t.PkgPath() + "." + t.Name()
		if _, ok := r.types[qualified]; ok {
			continue
		}
		r.types[qualified] = t
		r.byName[t.Name()] = append(r.byName[t.Name()], t)
	}
}

// Lookup returns registered type by qualified name
func (r *Registry) Lookup(qualifiedName string) (reflect.Type, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	t, ok := r.types[qualifiedName]
	return t, ok
}

// Resolve resolves type descriptor
func (r *Registry) Resolve(descriptor *TypeDescriptor) (reflect.Type, error) {
	if descriptor == nil {
		return nil, fmt.Errorf("%w: missing type descriptor", ErrUnresolvableType)
	}
	if descriptor.rType != nil {
		return descriptor.rType, nil
	}
	if descriptor.Declaring != nil && descriptor.Name == "Entry" {
		return r.resolveEntry(descriptor)
	}
	if descriptor.IsNamed() {
		if t, ok := r.resolveNamed(descriptor); ok {
			return t, nil
		}
		if descriptor.Namespace != "" {
			return nil, fmt.Errorf("%w: %v", ErrUnresolvableType, descriptor.QualifiedName())
		}
	}
	if t, ok := builtinTypes[descriptor.Kind]; ok && (descriptor.Name == "" || descriptor.Name == descriptor.Kind) {
		return t, nil
	}
	return r.resolveComposite(descriptor)
}

func (r *Registry) resolveNamed(descriptor *TypeDescriptor) (reflect.Type, bool) {
	if t, ok := r.Lookup(descriptor.QualifiedName()); ok {
		return t, true
	}
	if descriptor.Namespace != "" {
		return nil, false
	}
	r.mux.RLock()
	candidates := r.byName[descriptor.Name]
	r.mux.RUnlock()
	var matched []reflect.Type
	for _, candidate := range candidates {
		if len(descriptor.Properties) == 0 || hasFields(candidate, descriptor.Properties) {
			matched = append(matched, candidate)
		}
	}
	if len(matched) == 1 {
		return matched[0], true
	}
	return nil, false
}

func hasFields(t reflect.Type, names []string) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for _, name := range names {
		if _, ok := t.FieldByNameFunc(func(candidate string) bool { return strings.EqualFold(candidate, name) }); !ok {
			return false
		}
	}
	return true
}

func (r *Registry) resolveEntry(descriptor *TypeDescriptor) (reflect.Type, error) {
	mapType, err := r.Resolve(descriptor.Declaring)
	if err != nil {
		return nil, err
	}
	if mapType.Kind() != reflect.Map {
		return nil, fmt.Errorf("%w: entry declared by %v", ErrUnresolvableType, mapType)
	}
	return entryTypeOf(mapType), nil
}

func (r *Registry) resolveArguments(descriptors []*TypeDescriptor) ([]reflect.Type, error) {
	var result = make([]reflect.Type, 0, len(descriptors))
	for _, descriptor := range descriptors {
		t, err := r.Resolve(descriptor)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

func (r *Registry) resolveComposite(descriptor *TypeDescriptor) (reflect.Type, error) {
	args, err := r.resolveArguments(descriptor.Arguments)
	if err != nil {
		return nil, err
	}
	expect := func(count int) error {
		if len(args) != count {
			return fmt.Errorf("%w: %v expected %v type arguments, got %v", ErrUnresolvableType, descriptor.Kind, count, len(args))
		}
		return nil
	}
	switch descriptor.Kind {
	case reflect.Slice.String():
		if err = expect(1); err == nil {
			return reflect.SliceOf(args[0]), nil
		}
	case reflect.Array.String():
		if err = expect(1); err == nil {
			return reflect.ArrayOf(descriptor.Len, args[0]), nil
		}
	case reflect.Ptr.String():
		if err = expect(1); err == nil {
			return reflect.PointerTo(args[0]), nil
		}
	case reflect.Map.String():
		if err = expect(2); err == nil {
			return reflect.MapOf(args[0], args[1]), nil
		}
	case reflect.Func.String():
		results, err := r.resolveArguments(descriptor.Results)
		if err != nil {
			return nil, err
		}
		return reflect.FuncOf(args, results, descriptor.Variadic), nil
	case reflect.Struct.String():
		if descriptor.Anonymous {
			return r.resolveAnonymous(descriptor, args)
		}
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", ErrUnresolvableType, descriptor)
}

func (r *Registry) resolveAnonymous(descriptor *TypeDescriptor, args []reflect.Type) (reflect.Type, error) {
	if len(args) != len(descriptor.Properties) {
		return nil, fmt.Errorf("%w: %v has %v properties and %v types", ErrUnresolvableType, descriptor, len(descriptor.Properties), len(args))
	}
	var fields = make([]reflect.StructField, 0, len(args))
	for i, name := range descriptor.Properties {
		if !token.IsIdentifier(name) || !token.IsExported(name) || slices.Contains(descriptor.Properties[:i], name) {
			return nil, fmt.Errorf("%w: %v invalid anonymous member %q", ErrUnresolvableType, descriptor, name)
		}
		fields = append(fields, reflect.StructField{Name: name, Type: args[i]})
	}
	return reflect.StructOf(fields), nil
}

// NewRegistry creates a type registry
func NewRegistry(types ...reflect.Type) *Registry {
	ret := &Registry{byName: map[string][]reflect.Type{}, types: map[string]reflect.Type{}}
	ret.Register(reflect.TypeOf(time.Time{}), reflect.TypeOf(time.Duration(0)), typeHandle, structFieldHandle, methodHandle)
	ret.Register(types...)
	return ret
}
