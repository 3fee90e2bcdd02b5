package dynval

import (
	"fmt"
	"iter"
	"strings"
)

// Property represents named property value
type Property struct {
	Name  string
	Value interface{}
}

// PropertyBag represents ordered, name addressed properties.
// Lookup returns the most recently explicitly set property, or the first inserted one if none was set.
type PropertyBag struct {
	properties []*Property
	first      map[string]int
	explicit   map[string]int
}

// Len returns number of properties
func (b *PropertyBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.properties)
}

// Add inserts property, returns ErrDuplicateProperty if name already exists
func (b *PropertyBag) Add(name string, value interface{}) error {
	if _, ok := b.first[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProperty, name)
	}
	b.Append(name, value)
	return nil
}

// Append inserts property, duplicated names are kept
func (b *PropertyBag) Append(name string, value interface{}) {
	if b.first == nil {
		b.first = make(map[string]int)
	}
	if _, ok := b.first[name]; !ok {
		b.first[name] = len(b.properties)
	}
	b.properties = append(b.properties, &Property{Name: name, Value: value})
}

// Set updates property returned by Lookup or appends a new one, the property becomes the lookup target
func (b *PropertyBag) Set(name string, value interface{}) {
	if b.explicit == nil {
		b.explicit = make(map[string]int)
	}
	if index, ok := b.index(name); ok {
		b.properties[index].Value = value
		b.explicit[name] = index
		return
	}
	b.Append(name, value)
	b.explicit[name] = len(b.properties) - 1
}

func (b *PropertyBag) index(name string) (int, bool) {
	if b == nil {
		return 0, false
	}
	if index, ok := b.explicit[name]; ok {
		return index, true
	}
	index, ok := b.first[name]
	return index, ok
}

// Lookup returns property for supplied name or nil
func (b *PropertyBag) Lookup(name string) *Property {
	if index, ok := b.index(name); ok {
		return b.properties[index]
	}
	return nil
}

// Fold returns property matching supplied name case insensitively, exact match takes precedence
func (b *PropertyBag) Fold(name string) *Property {
	if prop := b.Lookup(name); prop != nil {
		return prop
	}
	if b == nil {
		return nil
	}
	for _, candidate := range b.properties {
		if strings.EqualFold(candidate.Name, name) {
			return b.Lookup(candidate.Name)
		}
	}
	return nil
}

// Get returns property value
func (b *PropertyBag) Get(name string) (interface{}, bool) {
	prop := b.Lookup(name)
	if prop == nil {
		return nil, false
	}
	return prop.Value, true
}

// Names returns distinct property names in insertion order
func (b *PropertyBag) Names() []string {
	if b == nil {
		return nil
	}
	var result = make([]string, 0, len(b.first))
	for i, prop := range b.properties {
		if b.first[prop.Name] == i {
			result = append(result, prop.Name)
		}
	}
	return result
}

// Properties returns all properties in insertion order
func (b *PropertyBag) Properties() []*Property {
	if b == nil {
		return nil
	}
	return b.properties
}

// All returns property sequence in insertion order
func (b *PropertyBag) All() iter.Seq2[string, interface{}] {
	return func(yield func(string, interface{}) bool) {
		if b == nil {
			return
		}
		for _, prop := range b.properties {
			if !yield(prop.Name, prop.Value) {
				return
			}
		}
	}
}

// IsWrapper returns true if bag holds exactly one empty named property
func (b *PropertyBag) IsWrapper() bool {
	return b.Len() == 1 && b.properties[0].Name == ""
}

// Wrapped returns wrapped payload
func (b *PropertyBag) Wrapped() (interface{}, bool) {
	if !b.IsWrapper() {
		return nil, false
	}
	return b.properties[0].Value, true
}

// NewPropertyBag creates a bag
func NewPropertyBag(properties ...*Property) *PropertyBag {
	ret := &PropertyBag{}
	for _, prop := range properties {
		ret.Append(prop.Name, prop.Value)
	}
	return ret
}
