package wire

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/viant/dynval"
	"github.com/viant/dynval/conv"
)

// Value document keys
const (
	IDKey           = "Id"
	RefKey          = "Ref"
	TypeKey         = "Type"
	NameKey         = "Name"
	ValueKey        = "Value"
	DynamicValueKey = "DynamicValue"
	ItemsKey        = "Items"
	DynamicItemsKey = "DynamicItems"
	PropertiesKey   = "Properties"
)

// Descriptor document keys
const (
	NamespaceKey = "Namespace"
	KindKey      = "Kind"
	LenKey       = "Len"
	VariadicKey  = "Variadic"
	AnonymousKey = "Anonymous"
	ArgumentsKey = "Arguments"
	ResultsKey   = "Results"
	DeclaringKey = "Declaring"
)

// Payload represents property payload prepared for encoding under Key
type Payload struct {
	Key    string
	Scalar interface{}
	Items  []interface{}
	Value  *dynval.Value
	Values []*dynval.Value
}

// PayloadOf classifies property payload
func PayloadOf(payload interface{}) (*Payload, error) {
	switch actual := payload.(type) {
	case nil:
		return &Payload{Key: ValueKey}, nil
	case *dynval.Value:
		if actual == nil {
			return &Payload{Key: ValueKey}, nil
		}
		return &Payload{Key: DynamicValueKey, Value: actual}, nil
	case []*dynval.Value:
		return &Payload{Key: DynamicItemsKey, Values: actual}, nil
	}
	value := reflect.ValueOf(payload)
	if value.Kind() != reflect.Slice || conv.IsBytes(value.Type()) {
		scalar, err := Scalar(value)
		if err != nil {
			return nil, err
		}
		return &Payload{Key: ValueKey, Scalar: scalar}, nil
	}
	items := make([]interface{}, value.Len())
	dynamic := false
	for i := range items {
		item := value.Index(i)
		if item.Kind() == reflect.Interface {
			item = item.Elem()
		}
		if nested, ok := asValue(item); ok {
			items[i] = nested
			dynamic = true
			continue
		}
		scalar, err := Scalar(item)
		if err != nil {
			return nil, fmt.Errorf("item %v: %w", i, err)
		}
		items[i] = scalar
	}
	if !dynamic {
		return &Payload{Key: ItemsKey, Items: items}, nil
	}
	values := make([]*dynval.Value, len(items))
	for i, item := range items {
		switch actual := item.(type) {
		case nil:
		case *dynval.Value:
			values[i] = actual
		default:
			values[i] = dynval.Wrap(nil, actual)
		}
	}
	return &Payload{Key: DynamicItemsKey, Values: values}, nil
}

func asValue(item reflect.Value) (*dynval.Value, bool) {
	if !item.IsValid() || item.Type() != reflect.TypeOf(&dynval.Value{}) {
		return nil, false
	}
	ret := item.Interface().(*dynval.Value)
	return ret, ret != nil
}

// Scalar returns bool, int64, uint64, float64, string or nil representation of a leaf
func Scalar(value reflect.Value) (interface{}, error) {
	if !value.IsValid() {
		return nil, nil
	}
	if value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil
		}
		value = value.Elem()
	}
	if conv.IsTime(value.Type()) || conv.IsBytes(value.Type()) {
		text, _ := conv.Format(value, "")
		return text, nil
	}
	switch value.Kind() {
	case reflect.Bool:
		return value.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := value.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			text, _ := conv.Format(value, "")
			return text, nil
		}
		return f, nil
	case reflect.String:
		return value.String(), nil
	case reflect.Complex64, reflect.Complex128:
		text, _ := conv.Format(value, "")
		return text, nil
	}
	return nil, fmt.Errorf("unsupported wire payload %v", value.Type())
}

// Number parses JSON or YAML number literal, integral literals are returned as int64 or uint64
func Number(literal string) (interface{}, error) {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(literal, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", literal, err)
	}
	return f, nil
}

// References assigns ids to values reachable more than once from root
func References(root *dynval.Value) map[*dynval.Value]int {
	counts := map[*dynval.Value]int{}
	var order []*dynval.Value
	var visit func(value *dynval.Value)
	var visitPayload func(payload interface{})
	visit = func(value *dynval.Value) {
		if value == nil {
			return
		}
		counts[value]++
		if counts[value] > 1 {
			return
		}
		order = append(order, value)
		if value.Properties == nil {
			return
		}
		for _, prop := range value.Properties.Properties() {
			visitPayload(prop.Value)
		}
	}
	visitPayload = func(payload interface{}) {
		switch actual := payload.(type) {
		case *dynval.Value:
			visit(actual)
		case []*dynval.Value:
			for _, item := range actual {
				visit(item)
			}
		case []interface{}:
			for _, item := range actual {
				visitPayload(item)
			}
		}
	}
	visit(root)
	ret := map[*dynval.Value]int{}
	for _, value := range order {
		if counts[value] > 1 {
			ret[value] = len(ret) + 1
		}
	}
	return ret
}
