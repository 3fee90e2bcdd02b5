package dynval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyBag_Add(t *testing.T) {
	bag := NewPropertyBag()
	require.NoError(t, bag.Add("Name", "a"))
	err := bag.Add("Name", "b")
	assert.True(t, errors.Is(err, ErrDuplicateProperty))
	value, ok := bag.Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "a", value)
	assert.Equal(t, 1, bag.Len())
}

func TestPropertyBag_Lookup(t *testing.T) {
	var testCases = []struct {
		description string
		build       func() *PropertyBag
		name        string
		expect      interface{}
		expectFound bool
	}{
		{
			description: "first inserted wins without explicit set",
			build: func() *PropertyBag {
				bag := NewPropertyBag()
				bag.Append("a", 1)
				bag.Append("a", 2)
				return bag
			},
			name:        "a",
			expect:      1,
			expectFound: true,
		},
		{
			description: "explicit set wins",
			build: func() *PropertyBag {
				bag := NewPropertyBag()
				bag.Append("a", 1)
				bag.Append("a", 2)
				bag.Set("a", 3)
				return bag
			},
			name:        "a",
			expect:      3,
			expectFound: true,
		},
		{
			description: "set appends missing property",
			build: func() *PropertyBag {
				bag := NewPropertyBag()
				bag.Set("b", "x")
				return bag
			},
			name:        "b",
			expect:      "x",
			expectFound: true,
		},
		{
			description: "case insensitive fold",
			build: func() *PropertyBag {
				return NewPropertyBag(&Property{Name: "FirstName", Value: "Bob"})
			},
			name:        "firstname",
			expect:      "Bob",
			expectFound: true,
		},
		{
			description: "missing",
			build: func() *PropertyBag {
				return NewPropertyBag(&Property{Name: "a", Value: 1})
			},
			name: "b",
		},
	}

	for _, testCase := range testCases {
		bag := testCase.build()
		prop := bag.Fold(testCase.name)
		if !testCase.expectFound {
			assert.Nil(t, prop, testCase.description)
			continue
		}
		if !assert.NotNil(t, prop, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, prop.Value, testCase.description)
	}
}

func TestPropertyBag_Names(t *testing.T) {
	bag := NewPropertyBag()
	bag.Append("a", 1)
	bag.Append("b", 2)
	bag.Append("a", 3)
	assert.Equal(t, []string{"a", "b"}, bag.Names())
	assert.Equal(t, 3, len(bag.Properties()))
	var names []string
	for name := range bag.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"a", "b", "a"}, names)
}

func TestValue_Wrapper(t *testing.T) {
	wrapper := Wrap(nil, 10)
	assert.True(t, wrapper.IsWrapper())
	payload, ok := wrapper.Wrapped()
	assert.True(t, ok)
	assert.Equal(t, 10, payload)

	structured := NewValue(nil, &Property{Name: "A", Value: 1})
	assert.False(t, structured.IsWrapper())
	assert.False(t, structured.IsNull())

	empty := NewValue(nil)
	assert.False(t, empty.IsWrapper())
	assert.False(t, empty.IsNull())

	null := NullValue(nil)
	assert.True(t, null.IsNull())
	null.Set("A", 1)
	assert.False(t, null.IsNull())
	value, ok := null.Get("A")
	assert.True(t, ok)
	assert.Equal(t, 1, value)
}
