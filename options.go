package dynval

import (
	"reflect"

	"github.com/viant/tagly/format/text"
)

// Options represents mapper settings
type Options struct {
	//SilentlySkipUnassignableMembers leaves unassignable members at their defaults instead of failing
	SilentlySkipUnassignableMembers bool
	//FormatNativeTypesAsString maps native leaves to canonical round-trip strings
	FormatNativeTypesAsString bool
	//UseDirectMemberAllocation allows zero value allocation when no constructor matches and direct storage writes
	UseDirectMemberAllocation bool
	//PassthroughOpaqueTypes returns values matched by Opaque predicate unmapped
	PassthroughOpaqueTypes bool
	//WrapNullAsDynamicValue maps nil to a null marker instead of nil
	WrapNullAsDynamicValue bool
	//PreserveMappingCache keeps reference maps between calls
	PreserveMappingCache bool

	AccessUnexported bool
	CaseFormat       text.CaseFormat
	TimeLayout       string
	Resolver         TypeResolver
	TypePolicy       func(t reflect.Type) error
	Opaque           func(t reflect.Type) bool
	Factories        map[reflect.Type]Factory
	Constructors     map[reflect.Type][]*Constructor
	Enums            map[reflect.Type]*EnumType
	MemberSelector   func(t reflect.Type) []*Member
}

// Option represents mapper option
type Option func(o *Options)

// Factory creates an instance for a structured value, returned instance has to be T or *T
type Factory func(value *Value) (interface{}, error)

func newOptions(opts []Option) *Options {
	ret := &Options{
		SilentlySkipUnassignableMembers: true,
		UseDirectMemberAllocation:       true,
		PassthroughOpaqueTypes:          true,
		Factories:                       map[reflect.Type]Factory{},
		Constructors:                    map[reflect.Type][]*Constructor{},
		Enums:                           map[reflect.Type]*EnumType{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.Resolver == nil {
		ret.Resolver = NewRegistry()
	}
	return ret
}

// WithSilentlySkipUnassignableMembers sets unassignable member policy
func WithSilentlySkipUnassignableMembers(flag bool) Option {
	return func(o *Options) {
		o.SilentlySkipUnassignableMembers = flag
	}
}

// WithFormatNativeTypesAsString sets native leaf string formatting
func WithFormatNativeTypesAsString(flag bool) Option {
	return func(o *Options) {
		o.FormatNativeTypesAsString = flag
	}
}

// WithDirectMemberAllocation sets direct member allocation
func WithDirectMemberAllocation(flag bool) Option {
	return func(o *Options) {
		o.UseDirectMemberAllocation = flag
	}
}

// WithPassthroughOpaqueTypes sets opaque type passthrough
func WithPassthroughOpaqueTypes(flag bool) Option {
	return func(o *Options) {
		o.PassthroughOpaqueTypes = flag
	}
}

// WithWrapNullAsDynamicValue sets null marker wrapping
func WithWrapNullAsDynamicValue(flag bool) Option {
	return func(o *Options) {
		o.WrapNullAsDynamicValue = flag
	}
}

// WithPreserveMappingCache sets reference map preservation between calls
func WithPreserveMappingCache(flag bool) Option {
	return func(o *Options) {
		o.PreserveMappingCache = flag
	}
}

// WithAccessUnexported includes unexported struct fields
func WithAccessUnexported() Option {
	return func(o *Options) {
		o.AccessUnexported = true
	}
}

// WithCaseFormat sets member name case format, member names are assumed upper camel
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(o *Options) {
		o.CaseFormat = caseFormat
	}
}

// WithTimeLayout sets default time layout used by string formatting and parsing
func WithTimeLayout(layout string) Option {
	return func(o *Options) {
		o.TimeLayout = layout
	}
}

// WithResolver sets type resolver
func WithResolver(resolver TypeResolver) Option {
	return func(o *Options) {
		o.Resolver = resolver
	}
}

// WithTypePolicy sets type policy checked for every resolved type, policy should return TypeRejectedError to deny a type
func WithTypePolicy(policy func(t reflect.Type) error) Option {
	return func(o *Options) {
		o.TypePolicy = policy
	}
}

// WithOpaque sets opaque type predicate
func WithOpaque(predicate func(t reflect.Type) bool) Option {
	return func(o *Options) {
		o.Opaque = predicate
	}
}

// WithFactory sets instance factory for supplied type
func WithFactory(t reflect.Type, factory Factory) Option {
	return func(o *Options) {
		o.Factories[t] = factory
	}
}

// WithConstructor registers constructor function, paramNames name function parameters.
// Function has to return T, *T or (T, error); single slice parameter function without names acts as collection constructor.
func WithConstructor(fn interface{}, paramNames ...string) Option {
	return func(o *Options) {
		constructor := NewConstructor(fn, paramNames...)
		o.Constructors[constructor.Type] = append(o.Constructors[constructor.Type], constructor)
	}
}

// WithEnum registers enum symbolic names
func WithEnum[E EnumKind](names map[E]string) Option {
	return func(o *Options) {
		enum := newEnumType(names)
		o.Enums[enum.Type] = enum
	}
}

// WithMemberSelector replaces default member discovery
func WithMemberSelector(selector func(t reflect.Type) []*Member) Option {
	return func(o *Options) {
		o.MemberSelector = selector
	}
}
