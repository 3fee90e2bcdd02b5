package dynval

import (
	"fmt"
	"reflect"

	"github.com/viant/dynval/conv"
	"github.com/viant/dynval/tags"
	"github.com/viant/tagly/format/text"
)

// Member represents mapped member of a complex type, owner is an addressable struct value
type Member struct {
	Name       string
	Type       reflect.Type
	Required   bool
	TimeLayout string
	Get        func(owner reflect.Value) (reflect.Value, error)
	Set        func(owner reflect.Value, value reflect.Value) error
}

type memberSet struct {
	members []*Member
	err     error
}

func (m *Mapper) members(t reflect.Type) ([]*Member, error) {
	set := m.memberCache.GetOrCompute(t, func() *memberSet {
		if m.options.MemberSelector != nil && !isShape(t) {
			return &memberSet{members: m.options.MemberSelector(t)}
		}
		members, err := discoverMembers(t, m.options)
		return &memberSet{members: members, err: err}
	})
	return set.members, set.err
}

func discoverMembers(t reflect.Type, options *Options) ([]*Member, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	var result []*Member
	for _, field := range reflect.VisibleFields(t) {
		if field.Anonymous && isFlattened(field.Type) {
			continue
		}
		exported := field.IsExported()
		if !exported && !options.AccessUnexported {
			continue
		}
		tag, err := tags.ParseMember(field.Tag)
		if err != nil {
			return nil, fmt.Errorf("invalid %v.%v tag: %w", t, field.Name, err)
		}
		if tag.Ignore {
			continue
		}
		member := &Member{Name: field.Name, Type: field.Type, Required: tag.Required, TimeLayout: tag.TimeLayout}
		switch {
		case tag.Name != "":
			member.Name = tag.Name
		case options.CaseFormat != text.CaseFormatUndefined:
			member.Name = text.CaseFormatUpperCamel.To(options.CaseFormat).Format(field.Name)
		}
		if exported {
			member.Get = exportedGetter(field.Index)
			member.Set = exportedSetter(field.Index)
		} else {
			if !directAccessAvailable {
				return nil, fmt.Errorf("%v.%v: %w", t, field.Name, ErrDirectAccessUnavailable)
			}
			member.Get = directGetter(field.Index)
			member.Set = directSetter(field.Index, options.UseDirectMemberAllocation)
		}
		result = append(result, member)
	}
	return result, nil
}

func isFlattened(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && !conv.IsTime(t)
}

func exportedGetter(index []int) func(owner reflect.Value) (reflect.Value, error) {
	return func(owner reflect.Value) (reflect.Value, error) {
		field, err := owner.FieldByIndexErr(index)
		if err != nil {
			return reflect.Value{}, nil
		}
		return field, nil
	}
}

func exportedSetter(index []int) func(owner reflect.Value, value reflect.Value) error {
	return func(owner reflect.Value, value reflect.Value) error {
		field, err := fieldByIndexAlloc(owner, index)
		if err != nil {
			return err
		}
		if !field.CanSet() {
			return fmt.Errorf("%w: %v is not settable", ErrUnassignable, field.Type())
		}
		field.Set(value)
		return nil
	}
}

func directGetter(index []int) func(owner reflect.Value) (reflect.Value, error) {
	return func(owner reflect.Value) (reflect.Value, error) {
		if _, err := owner.FieldByIndexErr(index); err != nil {
			return reflect.Value{}, nil
		}
		return directField(owner, index)
	}
}

func directSetter(index []int, enabled bool) func(owner reflect.Value, value reflect.Value) error {
	return func(owner reflect.Value, value reflect.Value) error {
		if !enabled {
			return fmt.Errorf("%w: direct member storage is disabled", ErrUnassignable)
		}
		field, err := directField(owner, index)
		if err != nil {
			return err
		}
		field.Set(value)
		return nil
	}
}

// fieldByIndexAlloc returns nested field, nil embedded pointers are allocated
func fieldByIndexAlloc(owner reflect.Value, index []int) (reflect.Value, error) {
	value := owner
	for i, fieldIndex := range index {
		if i > 0 && value.Kind() == reflect.Ptr {
			if value.IsNil() {
				if !value.CanSet() {
					return reflect.Value{}, fmt.Errorf("%w: can not allocate embedded %v", ErrUnassignable, value.Type())
				}
				value.Set(reflect.New(value.Type().Elem()))
			}
			value = value.Elem()
		}
		value = value.Field(fieldIndex)
	}
	return value, nil
}

func addressable(value reflect.Value) reflect.Value {
	if value.CanAddr() {
		return value
	}
	ret := reflect.New(value.Type()).Elem()
	ret.Set(value)
	return ret
}
