package dynval

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/viant/dynval/conv"
	"github.com/viant/dynval/visitor"
)

// Category represents type mapping category
type Category int

const (
	// Unsupported represents type that can not be mapped (channels, plain functions)
	Unsupported Category = iota
	// NativeLeaf represents primitive value mapped without decomposition
	NativeLeaf
	// Enum represents named integer or string type mapped to its symbolic name
	Enum
	// Opaque represents type passed through unmapped
	Opaque
	// Collection represents slice, array, map or sequence
	Collection
	// Complex represents type mapped by decomposition into members
	Complex
	// Handle represents reflect.Type, reflect.StructField or reflect.Method
	Handle
)

var categoryNames = [...]string{"unsupported", "nativeLeaf", "enum", "opaque", "collection", "complex", "handle"}

// String returns category name
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Classifier classifies runtime types
type Classifier struct {
	enums       map[reflect.Type]*EnumType
	opaque      func(t reflect.Type) bool
	passthrough bool
	cache       *visitor.SyncMap[reflect.Type, Category]
}

// Classify returns type category
func (c *Classifier) Classify(t reflect.Type) Category {
	return c.cache.GetOrCompute(t, func() Category {
		return c.classify(t)
	})
}

func (c *Classifier) classify(t reflect.Type) Category {
	if isHandle(t) {
		return Handle
	}
	if c.Enum(t) != nil {
		return Enum
	}
	if isLeaf(t) {
		return NativeLeaf
	}
	if c.passthrough && c.opaque != nil && c.opaque(t) {
		return Opaque
	}
	if t.Kind() == reflect.Ptr {
		if elem := t.Elem(); elem.Kind() != reflect.Struct && elem.Kind() != reflect.Ptr {
			if category := c.Classify(elem); category == Collection || category == Opaque {
				return category
			}
		}
	}
	if isCollection(t) {
		return Collection
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
		return Complex
	case reflect.Ptr:
		if t.Elem().Kind() == reflect.Struct {
			return Complex
		}
	}
	return Unsupported
}

// Enum returns enum type for supplied type or its pointer
func (c *Classifier) Enum(t reflect.Type) *EnumType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if ret, ok := c.enums[t]; ok {
		return ret
	}
	if t.Name() == "" || !isEnumKind(t.Kind()) {
		return nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Implements(stringerType) {
		return &EnumType{Type: t}
	}
	return nil
}

func isEnumKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isLeaf(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if conv.IsTime(t) || conv.IsBytes(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return !conv.IsBytes(t)
	case reflect.Array, reflect.Map:
		return true
	case reflect.Func:
		_, ok := visitor.SeqElem(t)
		return ok
	}
	_, ok := visitor.AllElem(t)
	return ok
}

// NewClassifier creates a classifier
func NewClassifier(options *Options) *Classifier {
	return &Classifier{
		enums:       options.Enums,
		opaque:      options.Opaque,
		passthrough: options.PassthroughOpaqueTypes,
		cache:       visitor.NewSyncMap[reflect.Type, Category](),
	}
}
