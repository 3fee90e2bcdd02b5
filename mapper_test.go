package dynval

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dynval/conv"
)

type Count int

func TestMapper_RoundTrip_NativeLeaf(t *testing.T) {
	var testCases = []struct {
		description string
		value       interface{}
	}{
		{description: "bool true", value: true},
		{description: "bool false", value: false},
		{description: "int min", value: math.MinInt},
		{description: "int max", value: math.MaxInt},
		{description: "int zero", value: 0},
		{description: "int minus one", value: -1},
		{description: "int8 min", value: int8(math.MinInt8)},
		{description: "int8 max", value: int8(math.MaxInt8)},
		{description: "int16 min", value: int16(math.MinInt16)},
		{description: "int32 max", value: int32(math.MaxInt32)},
		{description: "int64 min", value: int64(math.MinInt64)},
		{description: "int64 max", value: int64(math.MaxInt64)},
		{description: "uint8 max", value: uint8(math.MaxUint8)},
		{description: "uint16 max", value: uint16(math.MaxUint16)},
		{description: "uint32 max", value: uint32(math.MaxUint32)},
		{description: "uint64 max", value: uint64(math.MaxUint64)},
		{description: "uintptr", value: uintptr(1024)},
		{description: "float32 max", value: float32(math.MaxFloat32)},
		{description: "float32 minus one", value: float32(-1)},
		{description: "float64 smallest", value: math.SmallestNonzeroFloat64},
		{description: "float64 max", value: math.MaxFloat64},
		{description: "float64 inf", value: math.Inf(-1)},
		{description: "complex64", value: complex64(complex(1.5, -2))},
		{description: "complex128", value: complex(math.MaxFloat64, 1)},
		{description: "empty string", value: ""},
		{description: "string", value: "dynamic value"},
		{description: "bytes", value: []byte{0, 1, 255}},
		{description: "duration", value: 90 * time.Minute},
		{description: "named int", value: Count(7)},
	}

	for _, formatted := range []bool{false, true} {
		mapper := New(WithFormatNativeTypesAsString(formatted))
		for _, testCase := range testCases {
			value, err := mapper.MapObject(testCase.value, nil)
			if !assert.NoError(t, err, testCase.description) {
				continue
			}
			assert.True(t, value.IsWrapper(), testCase.description)
			if formatted {
				payload, _ := value.Wrapped()
				assert.IsType(t, "", payload, testCase.description)
			}
			actual, err := mapper.Map(value, nil)
			if !assert.NoError(t, err, testCase.description) {
				continue
			}
			assert.Equal(t, testCase.value, actual, testCase.description)
		}
	}
}

func TestMapper_RoundTrip_Special(t *testing.T) {
	for _, formatted := range []bool{false, true} {
		mapper := New(WithFormatNativeTypesAsString(formatted))

		value, err := mapper.MapObject(math.NaN(), nil)
		require.NoError(t, err)
		actual, err := mapper.Map(value, nil)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(actual.(float64)))

		ts := time.Date(2024, 2, 29, 23, 59, 58, 123456789, time.FixedZone("CET", 3600))
		value, err = mapper.MapObject(ts, nil)
		require.NoError(t, err)
		actual, err = mapper.Map(value, nil)
		require.NoError(t, err)
		assert.True(t, ts.Equal(actual.(time.Time)))

		text := "pointer"
		value, err = mapper.MapObject(&text, nil)
		require.NoError(t, err)
		actual, err = mapper.Map(value, reflect.TypeOf(&text))
		require.NoError(t, err)
		assert.Equal(t, text, *actual.(*string))
	}
}

func TestMapper_Cycle(t *testing.T) {
	a, b, c := &Node{Name: "A"}, &Node{Name: "B"}, &Node{Name: "C"}
	a.Next, b.Next, c.Next = b, c, a

	mapper := New()
	value, err := mapper.MapObject(a, nil)
	require.NoError(t, err)

	bValue, _ := value.Get("Next")
	cValue, _ := bValue.(*Value).Get("Next")
	aValue, _ := cValue.(*Value).Get("Next")
	assert.Same(t, value, aValue)
	assert.Contains(t, spew.Sdump(value), "already shown")

	actual, err := mapper.Map(value, reflect.TypeOf(a))
	require.NoError(t, err)
	restored := actual.(*Node)
	assert.Equal(t, "A", restored.Name)
	assert.Equal(t, "B", restored.Next.Name)
	assert.Equal(t, "C", restored.Next.Next.Name)
	assert.Same(t, restored, restored.Next.Next.Next)

	actual, err = mapper.Map(value, nil)
	require.NoError(t, err)
	assert.Same(t, actual.(*Node), actual.(*Node).Next.Next.Next)
}

func TestMapper_Aliasing(t *testing.T) {
	shared := &Node{Name: "shared"}
	mapper := New()
	value, err := mapper.MapObject(&Pair{Left: shared, Right: shared}, nil)
	require.NoError(t, err)
	left, _ := value.Get("Left")
	right, _ := value.Get("Right")
	assert.Same(t, left, right)

	restored, err := MapTo[*Pair](mapper, value)
	require.NoError(t, err)
	assert.Same(t, restored.Left, restored.Right)
	assert.Equal(t, "shared", restored.Left.Name)
}

func TestMapper_RecursiveMap(t *testing.T) {
	tree := Tree{}
	tree["self"] = tree
	mapper := New()
	value, err := mapper.MapObject(tree, nil)
	require.NoError(t, err)
	items, _ := value.Wrapped()
	entries := items.([]*Value)
	require.Len(t, entries, 1)
	self, _ := entries[0].Get("Value")
	assert.Same(t, value, self)

	restored, err := MapTo[Tree](mapper, value)
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(restored).Pointer(), reflect.ValueOf(restored["self"]).Pointer())
}

func TestMapper_CoercionPolicy(t *testing.T) {
	var testCases = []struct {
		description string
		skip        bool
		source      Wide
		expect      Narrow
		expectError bool
	}{
		{description: "in range", skip: true, source: Wide{Value: 7, Name: "x"}, expect: Narrow{Value: 7, Name: "x"}},
		{description: "overflow skipped", skip: true, source: Wide{Value: math.MaxInt32 + 1, Name: "x"}, expect: Narrow{Name: "x"}},
		{description: "overflow raised", skip: false, source: Wide{Value: math.MinInt32 - 1, Name: "x"}, expectError: true},
	}

	for _, testCase := range testCases {
		mapper := New(WithSilentlySkipUnassignableMembers(testCase.skip))
		value, err := mapper.MapObject(testCase.source, nil)
		require.NoError(t, err, testCase.description)
		actual, err := MapTo[Narrow](mapper, value)
		if testCase.expectError {
			var mappingErr *MappingError
			if assert.True(t, errors.As(err, &mappingErr), testCase.description) {
				assert.Equal(t, []string{"Value"}, mappingErr.Path, testCase.description)
			}
			assert.True(t, errors.Is(err, conv.ErrOverflow), testCase.description)
			assert.True(t, errors.Is(err, ErrUnassignable), testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestMapper_NullableStringList(t *testing.T) {
	a, b := "a", "b"
	source := []*string{&a, nil, &b, nil}
	mapper := New()
	value, err := mapper.MapObject(source, nil)
	require.NoError(t, err)
	actual, err := mapper.Map(value, nil)
	require.NoError(t, err)
	assert.Equal(t, source, actual)
	assert.Len(t, actual, 4)

	formatted := New(WithFormatNativeTypesAsString(true))
	value, err = formatted.MapObject(source, nil)
	require.NoError(t, err)
	actual, err = formatted.Map(value, nil)
	require.NoError(t, err)
	assert.Equal(t, source, actual)
}

func TestMapper_NullSemantics(t *testing.T) {
	mapper := New()
	var testCases = []struct {
		description string
		target      reflect.Type
		expect      interface{}
	}{
		{description: "int", target: reflect.TypeOf(0), expect: 0},
		{description: "float", target: reflect.TypeOf(0.0), expect: 0.0},
		{description: "string", target: reflect.TypeOf(""), expect: ""},
		{description: "struct", target: reflect.TypeOf(Point{}), expect: Point{}},
		{description: "pointer", target: reflect.TypeOf(&Node{}), expect: (*Node)(nil)},
		{description: "slice", target: reflect.TypeOf([]int{}), expect: []int(nil)},
	}
	for _, testCase := range testCases {
		actual, err := mapper.Map(NullValue(mapper.Describe(testCase.target)), nil)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	value, err := mapper.MapObject(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, value)

	wrapping := New(WithWrapNullAsDynamicValue(true))
	value, err = wrapping.MapObject((*Node)(nil), nil)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.True(t, value.IsNull())
	actual, err := wrapping.Map(value, nil)
	require.NoError(t, err)
	assert.Nil(t, actual)

	value, err = wrapping.MapObject(&Pair{Left: &Node{Name: "l"}}, nil)
	require.NoError(t, err)
	right, _ := value.Get("Right")
	assert.True(t, right.(*Value).IsNull())
}

func TestMapper_AnonymousShape(t *testing.T) {
	mapper := New()
	value, err := mapper.MapObject(struct {
		Int32Value  int32
		StringValue string
	}{Int32Value: 11, StringValue: "eleven"}, nil)
	require.NoError(t, err)

	reordered := reflect.TypeOf(struct {
		StringValue string
		Int32Value  int32
	}{})
	actual, err := mapper.Map(value, reordered)
	require.NoError(t, err)
	assert.Equal(t, struct {
		StringValue string
		Int32Value  int32
	}{StringValue: "eleven", Int32Value: 11}, actual)

	extended := reflect.TypeOf(struct {
		StringValue string
		Int32Value  int32
		Missing     float64
	}{})
	_, err = mapper.Map(value, extended)
	assert.True(t, errors.Is(err, ErrNoMatchingConstructor))
	assert.Contains(t, err.Error(), "no matching constructor")

	actual, err = mapper.Map(value, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 11, reflect.ValueOf(actual).FieldByName("Int32Value").Int())
}

func TestMapper_MultiDimensionalArray(t *testing.T) {
	var source [2][3][4]*int
	var expect []*int
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				if (i+j+k)%5 == 0 {
					expect = append(expect, nil)
					continue
				}
				item := i*12 + j*4 + k
				source[i][j][k] = &item
				expect = append(expect, &item)
			}
		}
	}
	mapper := New()
	value, err := mapper.MapObject(source, nil)
	require.NoError(t, err)

	flat, err := mapper.Map(value, reflect.TypeOf([]*int{}))
	require.NoError(t, err)
	assert.Equal(t, expect, flat)

	restored, err := mapper.Map(value, nil)
	require.NoError(t, err)
	assert.Equal(t, source, restored)
}

func TestMapper_StringMap(t *testing.T) {
	source := map[string]string{"b": "2", "a": "1", "c": "3"}
	mapper := New()
	value, err := mapper.MapObject(source, nil)
	require.NoError(t, err)
	items, ok := value.Wrapped()
	require.True(t, ok)
	entries := items.([]*Value)
	require.Len(t, entries, 3)
	for i, key := range []string{"a", "b", "c"} {
		actualKey, _ := entries[i].Get("Key")
		actualValue, _ := entries[i].Get("Value")
		assert.Equal(t, key, actualKey)
		assert.Equal(t, source[key], actualValue)
	}
	restored, err := mapper.Map(value, nil)
	require.NoError(t, err)
	assert.Equal(t, source, restored)

	entryType, err := NewRegistry().Resolve(entries[0].Type)
	require.NoError(t, err)
	assert.Equal(t, []string{"Key", "Value"}, []string{entryType.Field(0).Name, entryType.Field(1).Name})
}

func TestMapper_Constructors(t *testing.T) {
	newPoint := func(x, y int) *Point {
		return &Point{X: x, Y: y, Label: "xy"}
	}
	newLabeledPoint := func(x, y int, label string) (Point, error) {
		return Point{X: x, Y: y, Label: "labeled:" + label}, nil
	}
	newSwapped := func(y, x int) *Point {
		return &Point{X: x, Y: y, Label: "swapped"}
	}
	var testCases = []struct {
		description string
		options     []Option
		properties  []*Property
		expect      Point
		expectError error
	}{
		{
			description: "more parameters preferred",
			options:     []Option{WithConstructor(newPoint, "x", "y"), WithConstructor(newLabeledPoint, "x", "y", "label")},
			properties:  []*Property{{Name: "X", Value: 1}, {Name: "Y", Value: 2}, {Name: "Label", Value: "a"}},
			expect:      Point{X: 1, Y: 2, Label: "labeled:a"},
		},
		{
			description: "satisfiable subset",
			options:     []Option{WithConstructor(newPoint, "x", "y"), WithConstructor(newLabeledPoint, "x", "y", "label")},
			properties:  []*Property{{Name: "X", Value: int8(1)}, {Name: "Y", Value: "2"}},
			expect:      Point{X: 1, Y: 2, Label: "xy"},
		},
		{
			description: "remaining members populated",
			options:     []Option{WithConstructor(newPoint, "x", "y")},
			properties:  []*Property{{Name: "X", Value: 1}, {Name: "Y", Value: 2}, {Name: "Label", Value: "set"}},
			expect:      Point{X: 1, Y: 2, Label: "set"},
		},
		{
			description: "ambiguous",
			options:     []Option{WithConstructor(newPoint, "x", "y"), WithConstructor(newSwapped, "y", "x")},
			properties:  []*Property{{Name: "X", Value: 1}, {Name: "Y", Value: 2}},
			expectError: ErrAmbiguousConstructor,
		},
		{
			description: "direct allocation",
			options:     []Option{WithConstructor(newPoint, "x", "y")},
			properties:  []*Property{{Name: "Label", Value: "only"}},
			expect:      Point{Label: "only"},
		},
		{
			description: "no direct allocation",
			options:     []Option{WithConstructor(newPoint, "x", "y"), WithDirectMemberAllocation(false)},
			properties:  []*Property{{Name: "Label", Value: "only"}},
			expectError: ErrNoMatchingConstructor,
		},
		{
			description: "factory",
			options: []Option{WithFactory(reflect.TypeOf(Point{}), func(value *Value) (interface{}, error) {
				return &Point{Label: "factory"}, nil
			})},
			properties: []*Property{{Name: "X", Value: 3}},
			expect:     Point{X: 3, Label: "factory"},
		},
	}

	for _, testCase := range testCases {
		mapper := New(testCase.options...)
		actual, err := MapTo[Point](mapper, NewValue(nil, testCase.properties...))
		if testCase.expectError != nil {
			assert.True(t, errors.Is(err, testCase.expectError), testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestMapper_InvalidConstructor(t *testing.T) {
	mapper := New(WithConstructor(func(x int) *Point { return nil }))
	_, err := mapper.MapObject(&Point{}, nil)
	var mappingErr *MappingError
	assert.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, "configure", mappingErr.Op)
}

func TestMapper_Enum(t *testing.T) {
	mapper := New(WithEnum(map[Color]string{Red: "Red", Green: "Green", Blue: "Blue"}))
	accent := Blue
	value, err := mapper.MapObject(&Paint{Primary: Green, Palette: []Color{Red, Blue}, Accent: &accent}, nil)
	require.NoError(t, err)
	primary, _ := value.Get("Primary")
	assert.Equal(t, "Green", primary)
	palette, _ := value.Get("Palette")
	items, _ := palette.(*Value).Wrapped()
	assert.Equal(t, []string{"Red", "Blue"}, items)
	accentName, _ := value.Get("Accent")
	assert.Equal(t, "Blue", accentName)

	value.Set("Primary", "bLUE")
	restored, err := MapTo[*Paint](mapper, value)
	require.NoError(t, err)
	assert.Equal(t, Blue, restored.Primary)
	assert.Equal(t, []Color{Red, Blue}, restored.Palette)
	assert.Equal(t, Blue, *restored.Accent)

	value, err = mapper.MapObject(Level("info"), nil)
	require.NoError(t, err)
	payload, _ := value.Wrapped()
	assert.Equal(t, "info", payload)
	actual, err := mapper.Map(Wrap(nil, "ERROR"), reflect.TypeOf(Level("")))
	require.NoError(t, err)
	assert.Equal(t, Level("error"), actual)
	_, err = New(WithSilentlySkipUnassignableMembers(false)).Map(Wrap(nil, "trace"), reflect.TypeOf(Level("")))
	assert.True(t, errors.Is(err, ErrUnassignable))
}

func TestMapper_Collections(t *testing.T) {
	mapper := New(WithConstructor(NewNames))

	bag := &Bag{}
	bag.Add("x")
	bag.Add("y")
	value, err := mapper.MapObject(bag, nil)
	require.NoError(t, err)
	items, _ := value.Wrapped()
	assert.Equal(t, []string{"x", "y"}, items)
	restored, err := MapTo[*Bag](mapper, value)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, restored.items)

	names, err := MapTo[*Names](mapper, Wrap(nil, []interface{}{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names.values)

	type Holder struct {
		Seq func(yield func(int) bool)
	}
	holder := Holder{Seq: func(yield func(int) bool) {
		for i := 1; i <= 3; i++ {
			if !yield(i) {
				return
			}
		}
	}}
	value, err = mapper.MapObject(holder, nil)
	require.NoError(t, err)
	seqValue, _ := value.Get("Seq")
	seqItems, _ := seqValue.(*Value).Wrapped()
	assert.Equal(t, []int{1, 2, 3}, seqItems)
	restoredHolder, err := MapTo[Holder](mapper, value)
	require.NoError(t, err)
	var collected []int
	restoredHolder.Seq(func(item int) bool {
		collected = append(collected, item)
		return true
	})
	assert.Equal(t, []int{1, 2, 3}, collected)

	mixed, err := mapper.MapObject([]interface{}{1, "a", &Node{Name: "n"}, nil}, nil)
	require.NoError(t, err)
	mixedItems, _ := mixed.Wrapped()
	require.IsType(t, []interface{}{}, mixedItems)
	restoredMixed, err := mapper.Map(mixed, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, "a", &Node{Name: "n"}, nil}, restoredMixed)

	nodes, err := mapper.MapObject([]*Node{{Name: "a"}, nil}, nil)
	require.NoError(t, err)
	nodeItems, _ := nodes.Wrapped()
	assert.IsType(t, []*Value{}, nodeItems)

	_, err = mapper.Map(Wrap(nil, []int{1}), reflect.TypeOf(Point{}))
	assert.True(t, errors.Is(err, ErrUnsupportedCollection))

	_, err = mapper.Map(Wrap(nil, []int{1, 2, 3}), reflect.TypeOf([2]int{}))
	assert.True(t, errors.Is(err, ErrUnsupportedCollection))
}

func TestMapper_UntypedValue(t *testing.T) {
	mapper := New()
	value := NewValue(nil, &Property{Name: "A", Value: 1}, &Property{Name: "B", Value: Wrap(nil, []string{"x"})})
	actual, err := mapper.Map(value, reflect.TypeOf((*interface{})(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"A": 1, "B": []string{"x"}}, actual)

	_, err = mapper.Map(value, nil)
	assert.True(t, errors.Is(err, ErrUnresolvableType))
}

func TestMapper_MemberTags(t *testing.T) {
	mapper := New()
	value, err := mapper.MapObject(&Document{Audit: Audit{Created: "today"}, ID: 3, Secret: "s", Title: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Created", "id", "Title"}, value.Properties.Names())

	restored, err := MapTo[Document](mapper, value)
	require.NoError(t, err)
	assert.Equal(t, Document{Audit: Audit{Created: "today"}, ID: 3, Title: "t"}, restored)

	_, err = MapTo[Document](mapper, NewValue(nil, &Property{Name: "id", Value: 1}))
	var mappingErr *MappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, []string{"Title"}, mappingErr.Path)

	type Duplicated struct {
		A int `dynval:"name=X"`
		B int `dynval:"name=X"`
	}
	_, err = mapper.MapObject(Duplicated{}, nil)
	assert.True(t, errors.Is(err, ErrDuplicateProperty))
}

func TestMapper_TimeLayout(t *testing.T) {
	type Event struct {
		Day time.Time `dynval:"dateFormat=yyyy-MM-dd"`
		At  time.Time
	}
	at := time.Date(2024, 3, 5, 10, 11, 12, 0, time.UTC)
	mapper := New(WithFormatNativeTypesAsString(true))
	value, err := mapper.MapObject(Event{Day: at, At: at}, nil)
	require.NoError(t, err)
	day, _ := value.Get("Day")
	assert.Equal(t, "2024-03-05", day)
	atText, _ := value.Get("At")
	assert.Equal(t, "2024-03-05T10:11:12Z", atText)

	restored, err := MapTo[Event](mapper, value)
	require.NoError(t, err)
	assert.True(t, restored.At.Equal(at))
	assert.True(t, restored.Day.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestMapper_Opaque(t *testing.T) {
	blobType := reflect.TypeOf(&Blob{})
	mapper := New(WithOpaque(func(t reflect.Type) bool { return t == blobType }))
	blob := &Blob{data: []byte("raw")}
	type Envelope struct {
		Payload *Blob
	}
	value, err := mapper.MapObject(Envelope{Payload: blob}, nil)
	require.NoError(t, err)
	payload, _ := value.Get("Payload")
	assert.Same(t, blob, payload)

	value, err = mapper.MapObject(blob, nil)
	require.NoError(t, err)
	wrapped, _ := value.Wrapped()
	assert.Same(t, blob, wrapped)
	restored, err := MapTo[Envelope](mapper, NewValue(nil, &Property{Name: "Payload", Value: blob}))
	require.NoError(t, err)
	assert.Same(t, blob, restored.Payload)

	decomposed := New(WithOpaque(func(t reflect.Type) bool { return t == blobType }), WithPassthroughOpaqueTypes(false))
	value, err = decomposed.MapObject(blob, nil)
	require.NoError(t, err)
	assert.False(t, value.IsWrapper())
	assert.Equal(t, 0, value.Properties.Len())
}

func TestMapper_TypePolicy(t *testing.T) {
	denied := reflect.TypeOf(Node{})
	mapper := New(WithTypePolicy(func(t reflect.Type) error {
		if t == denied {
			return NewTypeRejectedError(t, "not allowed")
		}
		return nil
	}))
	value, err := mapper.MapObject(Node{Name: "x"}, nil)
	require.NoError(t, err)
	_, err = mapper.Map(value, nil)
	var rejected *TypeRejectedError
	assert.True(t, errors.As(err, &rejected))
	var mappingErr *MappingError
	assert.False(t, errors.As(err, &mappingErr))

	actual, err := mapper.Map(value, denied)
	require.NoError(t, err)
	assert.Equal(t, Node{Name: "x"}, actual)
}

func TestMapper_Include(t *testing.T) {
	mapper := New()
	value, err := mapper.MapObject(&Node{Name: "x"}, func(t reflect.Type) bool { return false })
	require.NoError(t, err)
	assert.Nil(t, value.Type)
	_, err = mapper.Map(value, nil)
	assert.True(t, errors.Is(err, ErrUnresolvableType))
}

func TestMapper_Handles(t *testing.T) {
	mapper := New()
	nodeType := reflect.TypeOf(Node{})

	value, err := mapper.MapObject(nodeType, nil)
	require.NoError(t, err)
	actual, err := mapper.Map(value, nil)
	require.NoError(t, err)
	assert.Equal(t, nodeType, actual)

	field, _ := nodeType.FieldByName("Next")
	value, err = mapper.MapObject(field, nil)
	require.NoError(t, err)
	actual, err = mapper.Map(value, nil)
	require.NoError(t, err)
	restoredField := actual.(reflect.StructField)
	assert.Equal(t, field.Name, restoredField.Name)
	assert.Equal(t, field.Type, restoredField.Type)
	assert.Equal(t, field.Index, restoredField.Index)

	method, _ := reflect.TypeOf(&Node{}).MethodByName("Path")
	value, err = mapper.MapObject(method, nil)
	require.NoError(t, err)
	actual, err = mapper.Map(value, reflect.TypeOf(reflect.Method{}))
	require.NoError(t, err)
	restoredMethod := actual.(reflect.Method)
	assert.Equal(t, method.Name, restoredMethod.Name)
	assert.Equal(t, method.Type, restoredMethod.Type)
	assert.Equal(t, method.Index, restoredMethod.Index)
}

func TestMapper_MapCollection(t *testing.T) {
	shared := &Node{Name: "s"}
	mapper := New()
	values, err := mapper.MapCollection([]*Node{shared, shared, nil}, nil)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Same(t, values[0], values[1])
	assert.Nil(t, values[2])

	values, err = mapper.MapCollection(&Node{Name: "one"}, nil)
	require.NoError(t, err)
	require.Len(t, values, 1)
	name, _ := values[0].Get("Name")
	assert.Equal(t, "one", name)

	values, err = mapper.MapCollection([]int{1, 2}, nil)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, values[1].IsWrapper())
}

func TestMapper_PreserveMappingCache(t *testing.T) {
	node := &Node{Name: "n"}

	mapper := New()
	first, err := mapper.MapObject(node, nil)
	require.NoError(t, err)
	second, err := mapper.MapObject(node, nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, mapper.forwardRefs.len())

	preserving := New(WithPreserveMappingCache(true))
	first, err = preserving.MapObject(node, nil)
	require.NoError(t, err)
	second, err = preserving.MapObject(node, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)

	restoredFirst, err := MapTo[*Node](preserving, first)
	require.NoError(t, err)
	restoredSecond, err := MapTo[*Node](preserving, first)
	require.NoError(t, err)
	assert.Same(t, restoredFirst, restoredSecond)
	assert.True(t, preserving.reverseRefs.len() > 0)

	preserving.ClearCache()
	third, err := preserving.MapObject(node, nil)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestMapper_CaseFormat(t *testing.T) {
	type Person struct {
		FirstName string
		LastName  string
	}
	mapper := New(WithCaseFormat("lowerCamel"))
	value, err := mapper.MapObject(Person{FirstName: "Ada", LastName: "Lovelace"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "lastName"}, value.Properties.Names())
	restored, err := MapTo[Person](mapper, value)
	require.NoError(t, err)
	assert.Equal(t, Person{FirstName: "Ada", LastName: "Lovelace"}, restored)
}

func TestMapper_ValuePassThrough(t *testing.T) {
	mapper := New()
	inner := NewValue(nil, &Property{Name: "A", Value: 1})
	value, err := mapper.MapObject(inner, nil)
	require.NoError(t, err)
	assert.Same(t, inner, value)

	type Carrier struct {
		Name    string
		Payload *Value
	}
	value, err = mapper.MapObject(Carrier{Name: "c", Payload: inner}, nil)
	require.NoError(t, err)
	payload, _ := value.Get("Payload")
	assert.Same(t, inner, payload)
	restored, err := MapTo[Carrier](mapper, value)
	require.NoError(t, err)
	assert.Same(t, inner, restored.Payload)

	actual, err := mapper.Map(inner, reflect.TypeOf(&Value{}))
	require.NoError(t, err)
	assert.Same(t, inner, actual)
}
