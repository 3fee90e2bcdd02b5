package json

import (
	"bytes"
	"fmt"

	"github.com/francoispqt/gojay"
	"github.com/viant/dynval"
	"github.com/viant/dynval/encoding/internal/wire"
)

type decodeState struct {
	options *Options
	refs    map[int]*dynval.Value
}

func (s *decodeState) unknown(key string) error {
	if s.options.Strict {
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func (s *decodeState) descriptor(alias string) (*dynval.TypeDescriptor, error) {
	aliases := s.options.Aliases
	if aliases == nil {
		aliases = dynval.TypeAliases
	}
	if ret, ok := aliases.Descriptor(alias); ok {
		return ret, nil
	}
	return nil, fmt.Errorf("unknown type alias %q", alias)
}

// Unmarshal decodes value document
func Unmarshal(data []byte, opts ...Option) (*dynval.Value, error) {
	if isNull(data) {
		return nil, nil
	}
	state := &decodeState{options: newOptions(opts), refs: map[int]*dynval.Value{}}
	decoder := newValueDecoder(state)
	if err := gojay.UnmarshalJSONObject(data, decoder); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return decoder.result()
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

type valueDecoder struct {
	state *decodeState
	value *dynval.Value
	ref   int
}

func newValueDecoder(state *decodeState) *valueDecoder {
	return &valueDecoder{state: state, value: &dynval.Value{}}
}

// result returns decoded value or the value referenced by Ref
func (d *valueDecoder) result() (*dynval.Value, error) {
	if d.ref == 0 {
		return d.value, nil
	}
	ret, ok := d.state.refs[d.ref]
	if !ok {
		return nil, fmt.Errorf("undefined value reference %v", d.ref)
	}
	return ret, nil
}

func (d *valueDecoder) NKeys() int {
	return 0
}

func (d *valueDecoder) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case wire.IDKey:
		var id int
		if err := dec.Int(&id); err != nil {
			return err
		}
		d.state.refs[id] = d.value
		return nil
	case wire.RefKey:
		return dec.Int(&d.ref)
	case wire.TypeKey:
		descriptor, err := decodeType(dec, d.state)
		if err != nil {
			return err
		}
		d.value.Type = descriptor
		return nil
	case wire.PropertiesKey:
		properties := &propertiesDecoder{state: d.state, bag: dynval.NewPropertyBag()}
		if err := dec.Array(properties); err != nil {
			return err
		}
		d.value.Properties = properties.bag
		return nil
	}
	payload, ok, err := decodePayload(dec, key, d.state)
	if err != nil {
		return err
	}
	if !ok {
		return d.state.unknown(key)
	}
	d.value.Properties = dynval.NewPropertyBag(&dynval.Property{Value: payload})
	return nil
}

func decodePayload(dec *gojay.Decoder, key string, state *decodeState) (interface{}, bool, error) {
	switch key {
	case wire.ValueKey:
		var raw gojay.EmbeddedJSON
		if err := dec.EmbeddedJSON(&raw); err != nil {
			return nil, true, err
		}
		scalar, err := scalarOf(raw)
		return scalar, true, err
	case wire.DynamicValueKey:
		nested := newValueDecoder(state)
		if err := dec.Object(nested); err != nil {
			return nil, true, err
		}
		value, err := nested.result()
		return value, true, err
	case wire.ItemsKey:
		items := &scalarsDecoder{items: []interface{}{}}
		if err := dec.Array(items); err != nil {
			return nil, true, err
		}
		return items.items, true, nil
	case wire.DynamicItemsKey:
		values := &valuesDecoder{state: state, values: []*dynval.Value{}}
		if err := dec.Array(values); err != nil {
			return nil, true, err
		}
		return values.values, true, nil
	}
	return nil, false, nil
}

// scalarOf decodes raw JSON scalar, integral numbers are returned as int64 or uint64
func scalarOf(raw gojay.EmbeddedJSON) (interface{}, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty scalar")
	}
	switch raw[0] {
	case 'n':
		return nil, nil
	case 't':
		return true, nil
	case 'f':
		return false, nil
	case '"':
		var text string
		err := gojay.Unmarshal(raw, &text)
		return text, err
	case '{', '[':
		return nil, fmt.Errorf("expected scalar, got %s", raw)
	}
	return wire.Number(string(raw))
}

type scalarsDecoder struct {
	items []interface{}
}

func (d *scalarsDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	item, err := scalarOf(raw)
	if err != nil {
		return err
	}
	d.items = append(d.items, item)
	return nil
}

type valuesDecoder struct {
	state  *decodeState
	values []*dynval.Value
}

func (d *valuesDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	if isNull(raw) {
		d.values = append(d.values, nil)
		return nil
	}
	nested := newValueDecoder(d.state)
	if err := gojay.UnmarshalJSONObject(raw, nested); err != nil {
		return err
	}
	value, err := nested.result()
	if err != nil {
		return err
	}
	d.values = append(d.values, value)
	return nil
}

type propertiesDecoder struct {
	state *decodeState
	bag   *dynval.PropertyBag
}

func (d *propertiesDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	property := &propertyDecoder{state: d.state}
	if err := dec.Object(property); err != nil {
		return err
	}
	if property.descriptor != nil {
		if nested, ok := property.payload.(*dynval.Value); ok && nested.Type == nil {
			nested.Type = property.descriptor
		}
	}
	d.bag.Append(property.name, property.payload)
	return nil
}

// propertyDecoder decodes property entry, optional Type describes nested value without own descriptor
type propertyDecoder struct {
	state      *decodeState
	name       string
	descriptor *dynval.TypeDescriptor
	payload    interface{}
}

func (d *propertyDecoder) NKeys() int {
	return 0
}

func (d *propertyDecoder) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case wire.NameKey:
		return dec.String(&d.name)
	case wire.TypeKey:
		descriptor, err := decodeType(dec, d.state)
		d.descriptor = descriptor
		return err
	}
	payload, ok, err := decodePayload(dec, key, d.state)
	if err != nil {
		return err
	}
	if !ok {
		return d.state.unknown(key)
	}
	d.payload = payload
	return nil
}

func decodeType(dec *gojay.Decoder, state *decodeState) (*dynval.TypeDescriptor, error) {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return nil, err
	}
	return typeOf(raw, state)
}

// typeOf decodes descriptor object or alias
func typeOf(raw gojay.EmbeddedJSON, state *decodeState) (*dynval.TypeDescriptor, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case isNull(raw):
		return nil, nil
	case len(raw) > 0 && raw[0] == '"':
		var alias string
		if err := gojay.Unmarshal(raw, &alias); err != nil {
			return nil, err
		}
		return state.descriptor(alias)
	}
	decoder := &descriptorDecoder{state: state, descriptor: &dynval.TypeDescriptor{}}
	if err := gojay.UnmarshalJSONObject(raw, decoder); err != nil {
		return nil, err
	}
	return decoder.descriptor, nil
}

type descriptorDecoder struct {
	state      *decodeState
	descriptor *dynval.TypeDescriptor
}

func (d *descriptorDecoder) NKeys() int {
	return 0
}

func (d *descriptorDecoder) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	descriptor := d.descriptor
	switch key {
	case wire.NameKey:
		return dec.String(&descriptor.Name)
	case wire.NamespaceKey:
		return dec.String(&descriptor.Namespace)
	case wire.KindKey:
		return dec.String(&descriptor.Kind)
	case wire.LenKey:
		return dec.Int(&descriptor.Len)
	case wire.VariadicKey:
		return dec.Bool(&descriptor.Variadic)
	case wire.AnonymousKey:
		return dec.Bool(&descriptor.Anonymous)
	case wire.PropertiesKey:
		names := &stringsDecoder{}
		if err := dec.Array(names); err != nil {
			return err
		}
		descriptor.Properties = names.items
		return nil
	case wire.ArgumentsKey, wire.ResultsKey:
		components := &descriptorsDecoder{state: d.state}
		if err := dec.Array(components); err != nil {
			return err
		}
		if key == wire.ArgumentsKey {
			descriptor.Arguments = components.descriptors
		} else {
			descriptor.Results = components.descriptors
		}
		return nil
	case wire.DeclaringKey:
		declaring, err := decodeType(dec, d.state)
		descriptor.Declaring = declaring
		return err
	}
	return d.state.unknown(key)
}

type descriptorsDecoder struct {
	state       *decodeState
	descriptors []*dynval.TypeDescriptor
}

func (d *descriptorsDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	descriptor, err := decodeType(dec, d.state)
	if err != nil {
		return err
	}
	d.descriptors = append(d.descriptors, descriptor)
	return nil
}

type stringsDecoder struct {
	items []string
}

func (d *stringsDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var item string
	if err := dec.String(&item); err != nil {
		return err
	}
	d.items = append(d.items, item)
	return nil
}
