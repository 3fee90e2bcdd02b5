package dynval

import "reflect"

var (
	valueType    = reflect.TypeOf(Value{})
	valuePtrType = reflect.TypeOf(&Value{})
)

// Value represents a self describing, reflection free representation of a mapped value.
// Value without properties represents no value of the described type.
type Value struct {
	Type       *TypeDescriptor
	Properties *PropertyBag
}

// IsNull returns true if value is a null marker
func (v *Value) IsNull() bool {
	return v == nil || v.Properties == nil
}

// IsWrapper returns true if value wraps scalar, enum or collection
func (v *Value) IsWrapper() bool {
	return v != nil && v.Properties.IsWrapper()
}

// Wrapped returns wrapped scalar, enum name or collection items
func (v *Value) Wrapped() (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	return v.Properties.Wrapped()
}

// Get returns member value by name
func (v *Value) Get(name string) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	return v.Properties.Get(name)
}

// Set sets member value by name, null marker becomes a structured object
func (v *Value) Set(name string, value interface{}) {
	if v.Properties == nil {
		v.Properties = &PropertyBag{}
	}
	v.Properties.Set(name, value)
}

// NewValue creates a structured value
func NewValue(descriptor *TypeDescriptor, properties ...*Property) *Value {
	return &Value{Type: descriptor, Properties: NewPropertyBag(properties...)}
}

// NullValue creates null marker for supplied type descriptor
func NullValue(descriptor *TypeDescriptor) *Value {
	return &Value{Type: descriptor}
}

// Wrap creates scalar, enum or collection wrapper
func Wrap(descriptor *TypeDescriptor, payload interface{}) *Value {
	ret := &Value{Type: descriptor, Properties: &PropertyBag{}}
	ret.Properties.Append("", payload)
	return ret
}
