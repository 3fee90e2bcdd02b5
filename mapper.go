package dynval

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/dynval/conv"
	"github.com/viant/dynval/visitor"
)

// Mapper maps object graphs to values and back.
// Each direction is guarded by its own lock, reference maps are cleared after every call unless preserved.
type Mapper struct {
	options       *Options
	classifier    *Classifier
	converter     *conv.Converter
	memberCache   *visitor.SyncMap[reflect.Type, *memberSet]
	descriptors   *visitor.SyncMap[reflect.Type, *TypeDescriptor]
	descriptorMux sync.Mutex
	forwardMux    sync.Mutex
	forwardRefs   *forwardRefs
	reverseMux    sync.Mutex
	reverseRefs   *reverseRefs
	err           error
}

// Options returns mapper options
func (m *Mapper) Options() Options {
	return *m.options
}

// Describe returns type descriptor for supplied type
func (m *Mapper) Describe(t reflect.Type) *TypeDescriptor {
	if t == nil {
		return nil
	}
	if ret, ok := m.descriptors.Get(t); ok {
		return ret
	}
	m.descriptorMux.Lock()
	defer m.descriptorMux.Unlock()
	builder := &descriptorBuilder{cache: m.descriptors, members: m.members, seen: map[reflect.Type]*TypeDescriptor{}}
	ret := builder.build(t)
	builder.commit()
	return ret
}

// Classify returns type mapping category
func (m *Mapper) Classify(t reflect.Type) Category {
	return m.classifier.Classify(t)
}

// MapObject maps object to value, include controls which runtime types get type descriptor (nil includes all)
func (m *Mapper) MapObject(obj interface{}, include func(t reflect.Type) bool) (*Value, error) {
	if m.err != nil {
		return nil, &MappingError{Op: "configure", Err: m.err}
	}
	m.forwardMux.Lock()
	defer m.forwardMux.Unlock()
	defer m.releaseForward()
	aForward := &forward{mapper: m, include: include, refs: m.forwardRefs}
	ret, err := aForward.mapObject(reflect.ValueOf(obj))
	if err != nil {
		return nil, raise("map object", reflect.TypeOf(obj), err)
	}
	return ret, nil
}

// MapCollection maps each sequence element within single reference map, non sequence object yields one element
func (m *Mapper) MapCollection(objs interface{}, include func(t reflect.Type) bool) ([]*Value, error) {
	if m.err != nil {
		return nil, &MappingError{Op: "configure", Err: m.err}
	}
	m.forwardMux.Lock()
	defer m.forwardMux.Unlock()
	defer m.releaseForward()
	aForward := &forward{mapper: m, include: include, refs: m.forwardRefs}
	source := reflect.ValueOf(objs)
	if source.Kind() == reflect.Ptr && !source.IsNil() && source.Elem().Kind() != reflect.Struct {
		source = source.Elem()
	}
	if !source.IsValid() || m.classifier.Classify(source.Type()) != Collection || source.Kind() == reflect.Map {
		ret, err := aForward.mapObject(source)
		if err != nil {
			return nil, raise("map collection", reflect.TypeOf(objs), err)
		}
		return []*Value{ret}, nil
	}
	visit, err := visitor.SequenceVisitorOf(source)
	if err != nil {
		return nil, raise("map collection", source.Type(), err)
	}
	var result = []*Value{}
	err = visit(func(index int, element reflect.Value) (bool, error) {
		item, err := aForward.mapObject(element)
		if err != nil {
			return false, withPath(fmt.Sprint(index), err)
		}
		result = append(result, item)
		return true, nil
	})
	if err != nil {
		return nil, raise("map collection", source.Type(), err)
	}
	return result, nil
}

// Map maps value to target type, target is resolved from value type descriptor when nil
func (m *Mapper) Map(value *Value, target reflect.Type) (interface{}, error) {
	ret, err := m.mapReflect(value, target)
	if err != nil || !ret.IsValid() {
		return nil, err
	}
	return ret.Interface(), nil
}

// MapInto maps value into supplied pointer destination
func (m *Mapper) MapInto(value *Value, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return &MappingError{Op: "map", Type: reflect.TypeOf(dest), Err: fmt.Errorf("%w: expected non nil pointer destination", ErrUnassignable)}
	}
	ret, err := m.mapReflect(value, destValue.Type().Elem())
	if err != nil {
		return err
	}
	if ret.IsValid() {
		destValue.Elem().Set(ret)
	}
	return nil
}

// MapTo maps value to T
func MapTo[T any](m *Mapper, value *Value) (T, error) {
	var ret T
	err := m.MapInto(value, &ret)
	return ret, err
}

func (m *Mapper) mapReflect(value *Value, target reflect.Type) (reflect.Value, error) {
	if m.err != nil {
		return reflect.Value{}, &MappingError{Op: "configure", Err: m.err}
	}
	m.reverseMux.Lock()
	defer m.reverseMux.Unlock()
	defer m.releaseReverse()
	aReverse := &reverse{mapper: m, refs: m.reverseRefs, pending: map[reverseKey]bool{}}
	ret, err := aReverse.mapValue(value, target)
	if err != nil {
		return reflect.Value{}, raise("map", target, err)
	}
	return ret, nil
}

func (m *Mapper) releaseForward() {
	if !m.options.PreserveMappingCache {
		m.forwardRefs.reset()
	}
}

func (m *Mapper) releaseReverse() {
	if !m.options.PreserveMappingCache {
		m.reverseRefs.reset()
	}
}

// ClearCache clears preserved reference maps
func (m *Mapper) ClearCache() {
	m.forwardMux.Lock()
	m.forwardRefs.reset()
	m.forwardMux.Unlock()
	m.reverseMux.Lock()
	m.reverseRefs.reset()
	m.reverseMux.Unlock()
}

// New creates a mapper
func New(opts ...Option) *Mapper {
	options := newOptions(opts)
	ret := &Mapper{
		options:     options,
		classifier:  NewClassifier(options),
		converter:   conv.NewConverter(conv.Options{TimeLayout: options.TimeLayout}),
		memberCache: visitor.NewSyncMap[reflect.Type, *memberSet](),
		descriptors: visitor.NewSyncMap[reflect.Type, *TypeDescriptor](),
		forwardRefs: newForwardRefs(),
		reverseRefs: newReverseRefs(),
	}
	for _, constructors := range options.Constructors {
		for _, constructor := range constructors {
			if constructor.err != nil {
				ret.err = constructor.err
			}
		}
	}
	return ret
}
