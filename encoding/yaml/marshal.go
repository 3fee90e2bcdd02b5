package yaml

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/dynval"
	"github.com/viant/dynval/encoding/internal/wire"
	"gopkg.in/yaml.v3"
)

const (
	nullTag  = "!!null"
	boolTag  = "!!bool"
	intTag   = "!!int"
	floatTag = "!!float"
	strTag   = "!!str"
)

type encodeState struct {
	options *Options
	ids     map[*dynval.Value]int
	anchors map[*dynval.Value]*yaml.Node
}

// Marshal encodes value document
func Marshal(value *dynval.Value, opts ...Option) ([]byte, error) {
	options := newOptions(opts)
	if value == nil {
		return []byte("null\n"), nil
	}
	state := &encodeState{options: options, ids: wire.References(value), anchors: map[*dynval.Value]*yaml.Node{}}
	node, err := state.valueNode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	buffer := bytes.Buffer{}
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(options.Indent)
	if err = encoder.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if err = encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (s *encodeState) valueNode(value *dynval.Value) (*yaml.Node, error) {
	if anchored, ok := s.anchors[value]; ok {
		return &yaml.Node{Kind: yaml.AliasNode, Value: anchored.Anchor, Alias: anchored}, nil
	}
	ret := &yaml.Node{Kind: yaml.MappingNode}
	if id := s.ids[value]; id > 0 {
		ret.Anchor = "v" + strconv.Itoa(id)
		s.anchors[value] = ret
	}
	if value.Type != nil {
		ret.Content = append(ret.Content, keyNode(wire.TypeKey), s.typeNode(value.Type))
	}
	if value.IsNull() {
		return ret, nil
	}
	if payload, ok := value.Wrapped(); ok {
		key, node, err := s.payloadNode(payload)
		if err != nil {
			return nil, err
		}
		ret.Content = append(ret.Content, keyNode(key), node)
		return ret, nil
	}
	properties := &yaml.Node{Kind: yaml.SequenceNode}
	for _, property := range value.Properties.Properties() {
		key, node, err := s.payloadNode(property.Value)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", property.Name, err)
		}
		properties.Content = append(properties.Content, &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			keyNode(wire.NameKey), stringNode(property.Name), keyNode(key), node,
		}})
	}
	ret.Content = append(ret.Content, keyNode(wire.PropertiesKey), properties)
	return ret, nil
}

func (s *encodeState) payloadNode(payload interface{}) (string, *yaml.Node, error) {
	aPayload, err := wire.PayloadOf(payload)
	if err != nil {
		return "", nil, err
	}
	switch aPayload.Key {
	case wire.DynamicValueKey:
		node, err := s.valueNode(aPayload.Value)
		return aPayload.Key, node, err
	case wire.ItemsKey:
		node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range aPayload.Items {
			node.Content = append(node.Content, scalarNode(item))
		}
		return aPayload.Key, node, nil
	case wire.DynamicItemsKey:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range aPayload.Values {
			if item == nil {
				node.Content = append(node.Content, scalarNode(nil))
				continue
			}
			itemNode, err := s.valueNode(item)
			if err != nil {
				return "", nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return aPayload.Key, node, nil
	}
	return aPayload.Key, scalarNode(aPayload.Scalar), nil
}

func (s *encodeState) typeNode(descriptor *dynval.TypeDescriptor) *yaml.Node {
	if s.options.Aliases != nil {
		if alias, ok := s.options.Aliases.Alias(descriptor); ok {
			return stringNode(alias)
		}
	}
	ret := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, node *yaml.Node) {
		ret.Content = append(ret.Content, keyNode(key), node)
	}
	if descriptor.Name != "" {
		add(wire.NameKey, stringNode(descriptor.Name))
	}
	if descriptor.Namespace != "" {
		add(wire.NamespaceKey, stringNode(descriptor.Namespace))
	}
	if descriptor.Kind != "" {
		add(wire.KindKey, stringNode(descriptor.Kind))
	}
	if descriptor.Len != 0 {
		add(wire.LenKey, scalarNode(int64(descriptor.Len)))
	}
	if descriptor.Variadic {
		add(wire.VariadicKey, scalarNode(true))
	}
	if descriptor.Anonymous {
		add(wire.AnonymousKey, scalarNode(true))
	}
	if len(descriptor.Properties) > 0 {
		names := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, name := range descriptor.Properties {
			names.Content = append(names.Content, stringNode(name))
		}
		add(wire.PropertiesKey, names)
	}
	if !descriptor.IsNamed() {
		if len(descriptor.Arguments) > 0 {
			add(wire.ArgumentsKey, s.typesNode(descriptor.Arguments))
		}
		if len(descriptor.Results) > 0 {
			add(wire.ResultsKey, s.typesNode(descriptor.Results))
		}
	}
	if descriptor.Declaring != nil {
		add(wire.DeclaringKey, s.typeNode(descriptor.Declaring))
	}
	return ret
}

func (s *encodeState) typesNode(descriptors []*dynval.TypeDescriptor) *yaml.Node {
	ret := &yaml.Node{Kind: yaml.SequenceNode}
	for _, descriptor := range descriptors {
		if descriptor == nil {
			ret.Content = append(ret.Content, scalarNode(nil))
			continue
		}
		ret.Content = append(ret.Content, s.typeNode(descriptor))
	}
	return ret
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: key}
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: value}
}

func scalarNode(scalar interface{}) *yaml.Node {
	switch actual := scalar.(type) {
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: boolTag, Value: strconv.FormatBool(actual)}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: intTag, Value: strconv.FormatInt(actual, 10)}
	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: intTag, Value: strconv.FormatUint(actual, 10)}
	case float64:
		text := strconv.FormatFloat(actual, 'g', -1, 64)
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: floatTag, Value: text}
	case string:
		return stringNode(actual)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
}
