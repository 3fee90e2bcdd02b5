package yaml

import (
	"fmt"

	"github.com/viant/dynval"
	"github.com/viant/dynval/encoding/internal/wire"
	"gopkg.in/yaml.v3"
)

type decodeState struct {
	options *Options
	values  map[*yaml.Node]*dynval.Value
}

func (s *decodeState) unknown(node *yaml.Node, key string) error {
	if s.options.Strict {
		return fmt.Errorf("line %v: unknown key %q", node.Line, key)
	}
	return nil
}

// Unmarshal decodes value document
func Unmarshal(data []byte, opts ...Option) (*dynval.Value, error) {
	document := yaml.Node{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	root := &document
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 || isNull(root) {
		return nil, nil
	}
	state := &decodeState{options: newOptions(opts), values: map[*yaml.Node]*dynval.Value{}}
	return state.value(root)
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag
}

func (s *decodeState) value(node *yaml.Node) (*dynval.Value, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if ret, ok := s.values[node]; ok {
		return ret, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %v: expected value mapping", node.Line)
	}
	ret := &dynval.Value{}
	s.values[node] = ret
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, item := node.Content[i].Value, node.Content[i+1]
		switch key {
		case wire.TypeKey:
			descriptor, err := s.descriptor(item)
			if err != nil {
				return nil, err
			}
			ret.Type = descriptor
			continue
		case wire.PropertiesKey:
			bag, err := s.properties(item)
			if err != nil {
				return nil, err
			}
			ret.Properties = bag
			continue
		}
		payload, ok, err := s.payload(key, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			if err = s.unknown(node.Content[i], key); err != nil {
				return nil, err
			}
			continue
		}
		ret.Properties = dynval.NewPropertyBag(&dynval.Property{Value: payload})
	}
	return ret, nil
}

func (s *decodeState) properties(node *yaml.Node) (*dynval.PropertyBag, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %v: expected properties sequence", node.Line)
	}
	ret := dynval.NewPropertyBag()
	for _, entry := range node.Content {
		if entry.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %v: expected property mapping", entry.Line)
		}
		var name string
		var payload interface{}
		var descriptor *dynval.TypeDescriptor
		for i := 0; i+1 < len(entry.Content); i += 2 {
			key, item := entry.Content[i].Value, entry.Content[i+1]
			var err error
			switch key {
			case wire.NameKey:
				name = item.Value
				continue
			case wire.TypeKey:
				if descriptor, err = s.descriptor(item); err != nil {
					return nil, err
				}
				continue
			}
			value, ok, err := s.payload(key, item)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", name, err)
			}
			if !ok {
				if err = s.unknown(entry.Content[i], key); err != nil {
					return nil, err
				}
				continue
			}
			payload = value
		}
		if nested, ok := payload.(*dynval.Value); ok && nested.Type == nil && descriptor != nil {
			nested.Type = descriptor
		}
		ret.Append(name, payload)
	}
	return ret, nil
}

func (s *decodeState) payload(key string, node *yaml.Node) (interface{}, bool, error) {
	switch key {
	case wire.ValueKey:
		scalar, err := scalarOf(node)
		return scalar, true, err
	case wire.DynamicValueKey:
		value, err := s.value(node)
		return value, true, err
	case wire.ItemsKey:
		if node.Kind != yaml.SequenceNode {
			return nil, true, fmt.Errorf("line %v: expected items sequence", node.Line)
		}
		items := make([]interface{}, 0, len(node.Content))
		for _, itemNode := range node.Content {
			item, err := scalarOf(itemNode)
			if err != nil {
				return nil, true, err
			}
			items = append(items, item)
		}
		return items, true, nil
	case wire.DynamicItemsKey:
		if node.Kind != yaml.SequenceNode {
			return nil, true, fmt.Errorf("line %v: expected items sequence", node.Line)
		}
		values := make([]*dynval.Value, 0, len(node.Content))
		for _, itemNode := range node.Content {
			if isNull(itemNode) {
				values = append(values, nil)
				continue
			}
			value, err := s.value(itemNode)
			if err != nil {
				return nil, true, err
			}
			values = append(values, value)
		}
		return values, true, nil
	}
	return nil, false, nil
}

// scalarOf decodes scalar node, integers are returned as int64 or uint64
func scalarOf(node *yaml.Node) (interface{}, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %v: expected scalar", node.Line)
	}
	switch node.ShortTag() {
	case nullTag:
		return nil, nil
	case boolTag:
		var ret bool
		err := node.Decode(&ret)
		return ret, err
	case intTag:
		var ret int64
		if err := node.Decode(&ret); err == nil {
			return ret, nil
		}
		var unsigned uint64
		err := node.Decode(&unsigned)
		return unsigned, err
	case floatTag:
		var ret float64
		err := node.Decode(&ret)
		return ret, err
	}
	return node.Value, nil
}

func (s *decodeState) descriptor(node *yaml.Node) (*dynval.TypeDescriptor, error) {
	switch {
	case isNull(node):
		return nil, nil
	case node.Kind == yaml.ScalarNode:
		aliases := s.options.Aliases
		if aliases == nil {
			aliases = dynval.TypeAliases
		}
		if ret, ok := aliases.Descriptor(node.Value); ok {
			return ret, nil
		}
		return nil, fmt.Errorf("line %v: unknown type alias %q", node.Line, node.Value)
	case node.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("line %v: expected type descriptor", node.Line)
	}
	ret := &dynval.TypeDescriptor{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, item := node.Content[i].Value, node.Content[i+1]
		var err error
		switch key {
		case wire.NameKey:
			ret.Name = item.Value
		case wire.NamespaceKey:
			ret.Namespace = item.Value
		case wire.KindKey:
			ret.Kind = item.Value
		case wire.LenKey:
			err = item.Decode(&ret.Len)
		case wire.VariadicKey:
			err = item.Decode(&ret.Variadic)
		case wire.AnonymousKey:
			err = item.Decode(&ret.Anonymous)
		case wire.PropertiesKey:
			err = item.Decode(&ret.Properties)
		case wire.ArgumentsKey:
			ret.Arguments, err = s.descriptors(item)
		case wire.ResultsKey:
			ret.Results, err = s.descriptors(item)
		case wire.DeclaringKey:
			ret.Declaring, err = s.descriptor(item)
		default:
			err = s.unknown(node.Content[i], key)
		}
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (s *decodeState) descriptors(node *yaml.Node) ([]*dynval.TypeDescriptor, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %v: expected type descriptor sequence", node.Line)
	}
	var ret = make([]*dynval.TypeDescriptor, 0, len(node.Content))
	for _, item := range node.Content {
		descriptor, err := s.descriptor(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, descriptor)
	}
	return ret, nil
}
