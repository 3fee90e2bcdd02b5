package json

import (
	"fmt"

	"github.com/francoispqt/gojay"
	"github.com/viant/dynval"
	"github.com/viant/dynval/encoding/internal/wire"
)

type encodeState struct {
	options *Options
	ids     map[*dynval.Value]int
	written map[*dynval.Value]bool
	err     error
}

func (s *encodeState) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *encodeState) alias(descriptor *dynval.TypeDescriptor) (string, bool) {
	if s.options.Aliases == nil {
		return "", false
	}
	return s.options.Aliases.Alias(descriptor)
}

// Marshal encodes value document
func Marshal(value *dynval.Value, opts ...Option) ([]byte, error) {
	if value == nil {
		return []byte("null"), nil
	}
	state := &encodeState{options: newOptions(opts), ids: wire.References(value), written: map[*dynval.Value]bool{}}
	data, err := gojay.MarshalJSONObject(&valueEncoder{state: state, value: value})
	if err == nil {
		err = state.err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return data, nil
}

type valueEncoder struct {
	state *encodeState
	value *dynval.Value
}

func (e *valueEncoder) IsNil() bool {
	return e.value == nil
}

func (e *valueEncoder) MarshalJSONObject(enc *gojay.Encoder) {
	if id := e.state.ids[e.value]; id > 0 {
		if e.state.written[e.value] {
			enc.IntKey(wire.RefKey, id)
			return
		}
		e.state.written[e.value] = true
		enc.IntKey(wire.IDKey, id)
	}
	if e.value.Type != nil {
		encodeType(enc, wire.TypeKey, e.value.Type, e.state)
	}
	if e.value.IsNull() {
		return
	}
	if payload, ok := e.value.Wrapped(); ok {
		encodePayload(enc, payload, e.state)
		return
	}
	enc.ArrayKey(wire.PropertiesKey, &propertiesEncoder{state: e.state, properties: e.value.Properties.Properties()})
}

func encodePayload(enc *gojay.Encoder, payload interface{}, state *encodeState) {
	aPayload, err := wire.PayloadOf(payload)
	if err != nil {
		state.fail(err)
		enc.NullKey(wire.ValueKey)
		return
	}
	switch aPayload.Key {
	case wire.DynamicValueKey:
		enc.ObjectKey(wire.DynamicValueKey, &valueEncoder{state: state, value: aPayload.Value})
	case wire.ItemsKey:
		enc.ArrayKey(wire.ItemsKey, scalarsEncoder(aPayload.Items))
	case wire.DynamicItemsKey:
		enc.ArrayKey(wire.DynamicItemsKey, &valuesEncoder{state: state, values: aPayload.Values})
	default:
		encodeScalarKey(enc, wire.ValueKey, aPayload.Scalar)
	}
}

func encodeScalarKey(enc *gojay.Encoder, key string, scalar interface{}) {
	switch actual := scalar.(type) {
	case bool:
		enc.BoolKey(key, actual)
	case int64:
		enc.Int64Key(key, actual)
	case uint64:
		enc.Uint64Key(key, actual)
	case float64:
		enc.Float64Key(key, actual)
	case string:
		enc.StringKey(key, actual)
	default:
		enc.NullKey(key)
	}
}

func addScalar(enc *gojay.Encoder, scalar interface{}) {
	switch actual := scalar.(type) {
	case bool:
		enc.AddBool(actual)
	case int64:
		enc.AddInt64(actual)
	case uint64:
		enc.AddUint64(actual)
	case float64:
		enc.AddFloat64(actual)
	case string:
		enc.AddString(actual)
	default:
		enc.AddNull()
	}
}

type scalarsEncoder []interface{}

func (s scalarsEncoder) IsNil() bool {
	return false
}

func (s scalarsEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range s {
		addScalar(enc, item)
	}
}

type valuesEncoder struct {
	state  *encodeState
	values []*dynval.Value
}

func (e *valuesEncoder) IsNil() bool {
	return false
}

func (e *valuesEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, value := range e.values {
		if value == nil {
			enc.AddNull()
			continue
		}
		enc.AddObject(&valueEncoder{state: e.state, value: value})
	}
}

type propertiesEncoder struct {
	state      *encodeState
	properties []*dynval.Property
}

func (e *propertiesEncoder) IsNil() bool {
	return false
}

func (e *propertiesEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, property := range e.properties {
		enc.AddObject(&propertyEncoder{state: e.state, property: property})
	}
}

type propertyEncoder struct {
	state    *encodeState
	property *dynval.Property
}

func (e *propertyEncoder) IsNil() bool {
	return e.property == nil
}

func (e *propertyEncoder) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey(wire.NameKey, e.property.Name)
	encodePayload(enc, e.property.Value, e.state)
}

func encodeType(enc *gojay.Encoder, key string, descriptor *dynval.TypeDescriptor, state *encodeState) {
	if alias, ok := state.alias(descriptor); ok {
		enc.StringKey(key, alias)
		return
	}
	enc.ObjectKey(key, &descriptorEncoder{state: state, descriptor: descriptor})
}

// descriptorEncoder writes descriptor, component types of named descriptors are omitted as names resolve them
type descriptorEncoder struct {
	state      *encodeState
	descriptor *dynval.TypeDescriptor
}

func (e *descriptorEncoder) IsNil() bool {
	return e.descriptor == nil
}

func (e *descriptorEncoder) MarshalJSONObject(enc *gojay.Encoder) {
	descriptor := e.descriptor
	enc.StringKeyOmitEmpty(wire.NameKey, descriptor.Name)
	enc.StringKeyOmitEmpty(wire.NamespaceKey, descriptor.Namespace)
	enc.StringKeyOmitEmpty(wire.KindKey, descriptor.Kind)
	enc.IntKeyOmitEmpty(wire.LenKey, descriptor.Len)
	if descriptor.Variadic {
		enc.BoolKey(wire.VariadicKey, true)
	}
	if descriptor.Anonymous {
		enc.BoolKey(wire.AnonymousKey, true)
	}
	if len(descriptor.Properties) > 0 {
		enc.ArrayKey(wire.PropertiesKey, stringsEncoder(descriptor.Properties))
	}
	if !descriptor.IsNamed() {
		if len(descriptor.Arguments) > 0 {
			enc.ArrayKey(wire.ArgumentsKey, &descriptorsEncoder{state: e.state, descriptors: descriptor.Arguments})
		}
		if len(descriptor.Results) > 0 {
			enc.ArrayKey(wire.ResultsKey, &descriptorsEncoder{state: e.state, descriptors: descriptor.Results})
		}
	}
	if descriptor.Declaring != nil {
		encodeType(enc, wire.DeclaringKey, descriptor.Declaring, e.state)
	}
}

type descriptorsEncoder struct {
	state       *encodeState
	descriptors []*dynval.TypeDescriptor
}

func (e *descriptorsEncoder) IsNil() bool {
	return false
}

func (e *descriptorsEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, descriptor := range e.descriptors {
		if descriptor == nil {
			enc.AddNull()
			continue
		}
		if alias, ok := e.state.alias(descriptor); ok {
			enc.AddString(alias)
			continue
		}
		enc.AddObject(&descriptorEncoder{state: e.state, descriptor: descriptor})
	}
}

type stringsEncoder []string

func (s stringsEncoder) IsNil() bool {
	return false
}

func (s stringsEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range s {
		enc.AddString(item)
	}
}
