package dynval

import (
	"reflect"
	"strings"

	"github.com/viant/dynval/visitor"
)

// TypeDescriptor represents portable, structural type description
type TypeDescriptor struct {
	Name       string
	Namespace  string
	Kind       string
	Len        int
	Declaring  *TypeDescriptor
	Arguments  []*TypeDescriptor
	Results    []*TypeDescriptor
	Variadic   bool
	Anonymous  bool
	Properties []string
	rType      reflect.Type
}

// Type returns in process type the descriptor was built for or nil
func (d *TypeDescriptor) Type() reflect.Type {
	if d == nil {
		return nil
	}
	return d.rType
}

// IsNamed returns true if descriptor represents a named type
func (d *TypeDescriptor) IsNamed() bool {
	return d != nil && d.Name != ""
}

// QualifiedName returns namespace qualified type name
func (d *TypeDescriptor) QualifiedName() string {
	if d == nil {
		return ""
	}
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// String returns descriptor text representation
func (d *TypeDescriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	if d.IsNamed() {
		return d.QualifiedName()
	}
	var args []string
	for _, arg := range d.Arguments {
		args = append(args, arg.String())
	}
	switch d.Kind {
	case reflect.Struct.String():
		return "struct{" + strings.Join(d.Properties, ";") + "}"
	case reflect.Func.String():
		var results []string
		for _, result := range d.Results {
			results = append(results, result.String())
		}
		return "func(" + strings.Join(args, ",") + ")(" + strings.Join(results, ",") + ")"
	}
	if d.Declaring != nil {
		return d.Declaring.String() + "." + d.Kind + "[" + strings.Join(args, ",") + "]"
	}
	return d.Kind + "[" + strings.Join(args, ",") + "]"
}

type descriptorBuilder struct {
	cache   *visitor.SyncMap[reflect.Type, *TypeDescriptor]
	members func(t reflect.Type) ([]*Member, error)
	seen    map[reflect.Type]*TypeDescriptor
}

// build registers descriptor before descending into component types so that recursive types terminate
func (b *descriptorBuilder) build(t reflect.Type) *TypeDescriptor {
	if ret, ok := b.cache.Get(t); ok {
		return ret
	}
	if ret, ok := b.seen[t]; ok {
		return ret
	}
	ret := &TypeDescriptor{Name: t.Name(), Namespace: t.PkgPath(), Kind: t.Kind().String(), rType: t}
	b.seen[t] = ret
	switch t.Kind() {
	case reflect.Array:
		ret.Len = t.Len()
		ret.Arguments = []*TypeDescriptor{b.build(t.Elem())}
	case reflect.Slice, reflect.Ptr, reflect.Chan:
		ret.Arguments = []*TypeDescriptor{b.build(t.Elem())}
	case reflect.Map:
		ret.Arguments = []*TypeDescriptor{b.build(t.Key()), b.build(t.Elem())}
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			ret.Arguments = append(ret.Arguments, b.build(t.In(i)))
		}
		for i := 0; i < t.NumOut(); i++ {
			ret.Results = append(ret.Results, b.build(t.Out(i)))
		}
		ret.Variadic = t.IsVariadic()
	case reflect.Struct:
		ret.Anonymous = t.Name() == ""
		members, _ := b.members(t)
		for _, member := range members {
			ret.Properties = append(ret.Properties, member.Name)
			if ret.Anonymous {
				ret.Arguments = append(ret.Arguments, b.build(member.Type))
			}
		}
	}
	return ret
}

func (b *descriptorBuilder) commit() {
	for t, descriptor := range b.seen {
		b.cache.Put(t, descriptor)
	}
}

// entryDescriptor returns synthesized key/value pair descriptor declared by map descriptor
func entryDescriptor(mapDescriptor *TypeDescriptor, entryType reflect.Type) *TypeDescriptor {
	ret := &TypeDescriptor{
		Name:       "Entry",
		Kind:       reflect.Struct.String(),
		Declaring:  mapDescriptor,
		Properties: []string{entryKey, entryValue},
		rType:      entryType,
	}
	if mapDescriptor != nil {
		ret.Namespace = mapDescriptor.Namespace
		ret.Arguments = mapDescriptor.Arguments
	}
	return ret
}
