package dynval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor represents instance constructor with named parameters
type Constructor struct {
	Type       reflect.Type
	Params     []string
	paramTypes []reflect.Type
	invoke     func(args []reflect.Value) (reflect.Value, error)
	err        error
}

// IsCollection returns collection element type if constructor takes single unnamed slice parameter
func (c *Constructor) IsCollection() (reflect.Type, bool) {
	if c.err != nil || len(c.Params) != 0 || len(c.paramTypes) != 1 || c.paramTypes[0].Kind() != reflect.Slice {
		return nil, false
	}
	return c.paramTypes[0].Elem(), true
}

// New invokes constructor, returns pointer to constructed instance
func (c *Constructor) New(args ...reflect.Value) (reflect.Value, error) {
	if c.err != nil {
		return reflect.Value{}, c.err
	}
	if len(args) != len(c.paramTypes) {
		return reflect.Value{}, fmt.Errorf("constructor of %v expects %v arguments, got %v", c.Type, len(c.paramTypes), len(args))
	}
	return c.invoke(args)
}

// NewConstructor creates constructor for function returning T, *T or (T, error)
func NewConstructor(fn interface{}, paramNames ...string) *Constructor {
	fnValue := reflect.ValueOf(fn)
	ret := &Constructor{Params: paramNames}
	if fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		ret.err = fmt.Errorf("invalid constructor %T: expected function", fn)
		return ret
	}
	fnType := fnValue.Type()
	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
	default:
		ret.err = fmt.Errorf("invalid constructor %v: expected T, *T or (T, error) result", fnType)
		return ret
	}
	resultType := fnType.Out(0)
	pointer := resultType.Kind() == reflect.Ptr
	ret.Type = resultType
	if pointer {
		ret.Type = resultType.Elem()
	}
	for i := 0; i < fnType.NumIn(); i++ {
		ret.paramTypes = append(ret.paramTypes, fnType.In(i))
	}
	if fnType.IsVariadic() {
		ret.err = fmt.Errorf("invalid constructor %v: variadic functions are not supported", fnType)
		return ret
	}
	if len(paramNames) != fnType.NumIn() {
		if _, ok := ret.IsCollection(); !ok {
			ret.err = fmt.Errorf("invalid constructor %v: expected %v parameter names, got %v", fnType, fnType.NumIn(), len(paramNames))
			return ret
		}
	}
	ret.invoke = func(args []reflect.Value) (reflect.Value, error) {
		out := fnValue.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return reflect.Value{}, out[1].Interface().(error)
		}
		if pointer {
			if out[0].IsNil() {
				return reflect.Value{}, fmt.Errorf("constructor of %v returned nil", ret.Type)
			}
			return out[0], nil
		}
		ptr := reflect.New(ret.Type)
		ptr.Elem().Set(out[0])
		return ptr, nil
	}
	return ret
}

// memberConstructor creates implicit constructor assigning supplied members in order
func memberConstructor(t reflect.Type, members []*Member) *Constructor {
	ret := &Constructor{Type: t}
	for _, member := range members {
		ret.Params = append(ret.Params, member.Name)
		ret.paramTypes = append(ret.paramTypes, member.Type)
	}
	ret.invoke = func(args []reflect.Value) (reflect.Value, error) {
		ptr := reflect.New(t)
		for i, member := range members {
			if err := member.Set(ptr.Elem(), args[i]); err != nil {
				return reflect.Value{}, err
			}
		}
		return ptr, nil
	}
	return ret
}

type candidate struct {
	constructor *Constructor
	args        []reflect.Value
}

// constructors returns registered and implicit constructors for supplied struct type
func (m *Mapper) constructors(t reflect.Type) ([]*Constructor, error) {
	registered := m.options.Constructors[t]
	var result = make([]*Constructor, 0, len(registered)+1)
	for _, constructor := range registered {
		if _, ok := constructor.IsCollection(); ok {
			continue
		}
		result = append(result, constructor)
	}
	switch {
	case t.Name() == "":
		members, err := m.members(t)
		if err != nil {
			return nil, err
		}
		result = append(result, memberConstructor(t, members))
	case len(result) == 0:
		result = append(result, memberConstructor(t, nil))
	}
	return result, nil
}

// bind maps constructor parameters from same named properties, returns false if any parameter is not satisfiable
func (r *reverse) bind(value *Value, constructor *Constructor) ([]reflect.Value, bool, error) {
	if constructor.err != nil {
		return nil, false, constructor.err
	}
	var args = make([]reflect.Value, 0, len(constructor.Params))
	for i, name := range constructor.Params {
		prop := value.Properties.Fold(name)
		if prop == nil {
			return nil, false, nil
		}
		arg, err := r.mapPayload(prop.Value, constructor.paramTypes[i], "")
		if err != nil {
			if isRecoverable(err) || errors.Is(err, ErrNoMatchingConstructor) {
				return nil, false, nil
			}
			return nil, false, withPath(name, err)
		}
		args = append(args, arg)
	}
	return args, true, nil
}

// construct creates instance with the best matching constructor, more parameters rank higher
func (r *reverse) construct(value *Value, t reflect.Type) (reflect.Value, map[string]bool, error) {
	constructors, err := r.mapper.constructors(t)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	var best []*candidate
	for _, constructor := range constructors {
		args, ok, err := r.bind(value, constructor)
		if err != nil {
			return reflect.Value{}, nil, err
		}
		if !ok {
			continue
		}
		switch {
		case len(best) == 0 || len(constructor.Params) > len(best[0].constructor.Params):
			best = []*candidate{{constructor: constructor, args: args}}
		case len(constructor.Params) == len(best[0].constructor.Params):
			best = append(best, &candidate{constructor: constructor, args: args})
		}
	}
	if len(best) > 1 {
		return reflect.Value{}, nil, fmt.Errorf("%w: %v has %v constructors with %v parameters", ErrAmbiguousConstructor, t, len(best), len(best[0].constructor.Params))
	}
	if len(best) == 0 {
		if t.Name() != "" && r.mapper.options.UseDirectMemberAllocation {
			return reflect.New(t), map[string]bool{}, nil
		}
		return reflect.Value{}, nil, fmt.Errorf("%w: %v, available properties: %v", ErrNoMatchingConstructor, t, strings.Join(value.Properties.Names(), ","))
	}
	ptr, err := best[0].constructor.New(best[0].args...)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	consumed := make(map[string]bool, len(best[0].constructor.Params))
	for _, name := range best[0].constructor.Params {
		consumed[strings.ToLower(name)] = true
	}
	return ptr, consumed, nil
}

// isRecoverable returns true for value level assignment failures
func isRecoverable(err error) bool {
	return errors.Is(err, ErrUnassignable)
}
