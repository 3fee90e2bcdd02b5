package json

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dynval"
)

type Node struct {
	Name string
	Next *Node
}

type Sample struct {
	ID       int
	Ratio    float64
	Large    uint64
	Flag     bool
	Created  time.Time
	Data     []byte
	Tags     []string
	Scores   map[string]int
	Children []*Node
	Any      interface{}
	Missing  *Node
}

func newMapper() *dynval.Mapper {
	return dynval.New(dynval.WithResolver(dynval.NewRegistry(reflect.TypeOf(Node{}), reflect.TypeOf(Sample{}))))
}

func TestMarshal_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC)
	var testCases = []struct {
		description string
		source      interface{}
		options     []Option
	}{
		{description: "int", source: 42},
		{description: "negative int64", source: int64(math.MinInt64)},
		{description: "max uint64", source: uint64(math.MaxUint64)},
		{description: "float", source: 1.25},
		{description: "nan string", source: "NaN"},
		{description: "string", source: "quote \" and \\ slash"},
		{description: "time", source: created},
		{description: "string slice", source: []string{"a", "", "c"}},
		{description: "nullable ints", source: []*int{nil, new(int)}},
		{description: "string map", source: map[string]string{"k1": "v1", "k2": "v2"}},
		{
			description: "struct",
			source: &Sample{ID: 1, Ratio: 0.5, Large: math.MaxUint64, Flag: true, Created: created, Data: []byte{1, 2, 3},
				Tags: []string{"x"}, Scores: map[string]int{"a": 1}, Children: []*Node{{Name: "c"}, nil}, Any: "text"},
		},
		{
			description: "struct without aliases",
			source:      &Sample{ID: 2, Created: created, Tags: []string{}},
			options:     []Option{WithoutAliases()},
		},
	}

	for _, testCase := range testCases {
		mapper := newMapper()
		value, err := mapper.MapObject(testCase.source, nil)
		require.NoError(t, err, testCase.description)

		data, err := Marshal(value, testCase.options...)
		require.NoError(t, err, testCase.description)
		decoded, err := Unmarshal(data, testCase.options...)
		require.NoError(t, err, testCase.description)

		actual, err := mapper.Map(decoded, nil)
		require.NoError(t, err, testCase.description)
		assert.EqualValues(t, testCase.source, actual, testCase.description)
	}
}

func TestMarshal_Cycle(t *testing.T) {
	a, b := &Node{Name: "a"}, &Node{Name: "b"}
	a.Next, b.Next = b, a
	mapper := newMapper()
	value, err := mapper.MapObject(a, nil)
	require.NoError(t, err)

	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Id":1`)
	assert.Contains(t, string(data), `{"Ref":1}`)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	next, _ := decoded.Get("Next")
	back, _ := next.(*dynval.Value).Get("Next")
	assert.Same(t, decoded, back)

	restored, err := dynval.MapTo[*Node](mapper, decoded)
	require.NoError(t, err)
	assert.Same(t, restored, restored.Next.Next)
	assert.Equal(t, "b", restored.Next.Name)
}

func TestMarshal_Document(t *testing.T) {
	var testCases = []struct {
		description string
		value       *dynval.Value
		expect      string
	}{
		{description: "nil", value: nil, expect: `null`},
		{description: "null marker", value: dynval.NullValue(&dynval.TypeDescriptor{Name: "int", Kind: "int"}), expect: `{"Type":"int"}`},
		{description: "wrapped null", value: dynval.Wrap(nil, nil), expect: `{"Value":null}`},
		{description: "scalar", value: dynval.Wrap(&dynval.TypeDescriptor{Name: "Time", Namespace: "time", Kind: "struct"}, "x"), expect: `{"Type":"time","Value":"x"}`},
		{description: "items", value: dynval.Wrap(nil, []int{1, 2}), expect: `{"Items":[1,2]}`},
		{description: "empty structure", value: dynval.NewValue(nil), expect: `{"Properties":[]}`},
		{
			description: "mixed items",
			value:       dynval.Wrap(nil, []interface{}{1, dynval.NewValue(nil)}),
			expect:      `{"DynamicItems":[{"Value":1},{"Properties":[]}]}`,
		},
		{
			description: "properties",
			value: dynval.NewValue(nil, &dynval.Property{Name: "A", Value: true},
				&dynval.Property{Name: "B", Value: dynval.NullValue(nil)}),
			expect: `{"Properties":[{"Name":"A","Value":true},{"Name":"B","DynamicValue":{}}]}`,
		},
		{
			description: "composite descriptor",
			value:       dynval.NullValue(&dynval.TypeDescriptor{Kind: "slice", Arguments: []*dynval.TypeDescriptor{{Name: "string", Kind: "string"}}}),
			expect:      `{"Type":{"Kind":"slice","Arguments":["string"]}}`,
		},
	}

	for _, testCase := range testCases {
		data, err := Marshal(testCase.value)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, string(data), testCase.description)
	}
}

func TestUnmarshal(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		options     []Option
		expectError bool
		check       func(t *testing.T, value *dynval.Value)
	}{
		{
			description: "null marker",
			input:       `{"Type":"int64"}`,
			check: func(t *testing.T, value *dynval.Value) {
				assert.True(t, value.IsNull())
				assert.Equal(t, "int64", value.Type.Kind)
			},
		},
		{
			description: "numbers",
			input:       `{"Items":[1,-2,18446744073709551615,1.5,null,"s",true]}`,
			check: func(t *testing.T, value *dynval.Value) {
				items, _ := value.Wrapped()
				assert.Equal(t, []interface{}{int64(1), int64(-2), uint64(math.MaxUint64), 1.5, nil, "s", true}, items)
			},
		},
		{
			description: "duplicated property names",
			input:       `{"Properties":[{"Name":"A","Value":1},{"Name":"A","Value":2}]}`,
			check: func(t *testing.T, value *dynval.Value) {
				assert.Equal(t, 2, value.Properties.Len())
				actual, _ := value.Get("A")
				assert.Equal(t, int64(1), actual)
			},
		},
		{
			description: "property type",
			input:       `{"Properties":[{"Name":"A","Type":"time","DynamicValue":{"Value":"2024-01-01T00:00:00Z"}}]}`,
			check: func(t *testing.T, value *dynval.Value) {
				actual, _ := value.Get("A")
				assert.Equal(t, "Time", actual.(*dynval.Value).Type.Name)
			},
		},
		{
			description: "unknown key skipped",
			input:       `{"Extra":{"a":[1,2]},"Value":1}`,
			check: func(t *testing.T, value *dynval.Value) {
				actual, _ := value.Wrapped()
				assert.Equal(t, int64(1), actual)
			},
		},
		{description: "unknown key strict", input: `{"Extra":1,"Value":1}`, options: []Option{WithStrict()}, expectError: true},
		{description: "unknown alias", input: `{"Type":"decimal"}`, expectError: true},
		{description: "undefined reference", input: `{"DynamicValue":{"Ref":3}}`, expectError: true},
		{description: "malformed", input: `{"Value":`, expectError: true},
	}

	for _, testCase := range testCases {
		value, err := Unmarshal([]byte(testCase.input), testCase.options...)
		if testCase.expectError {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		testCase.check(t, value)
	}
}

func TestMarshal_UnsupportedPayload(t *testing.T) {
	_, err := Marshal(dynval.Wrap(nil, make(chan int)))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported wire payload"))
}
