package dynval

import (
	"fmt"
	"strings"

	"github.com/viant/dynval/tags"
)

const typeAliasLiterals = "bool=bool,int=int,int8=int8,int16=int16,int32=int32,int64=int64," +
	"uint=uint,uint8=uint8,uint16=uint16,uint32=uint32,uint64=uint64,uintptr=uintptr," +
	"float32=float32,float64=float64,complex64=complex64,complex128=complex128,string=string," +
	"time=time.Time,duration=time.Duration,type=reflect.Type,field=reflect.StructField,method=reflect.Method"

// TypeAliases represents immutable short names of well known named types used by wire formats
var TypeAliases = mustTypeAliases(typeAliasLiterals)

// Aliases maps short alias to qualified type name and back
type Aliases struct {
	byAlias map[string]string
	byName  map[string]string
}

// Alias returns alias for named descriptor
func (a *Aliases) Alias(descriptor *TypeDescriptor) (string, bool) {
	if !descriptor.IsNamed() || descriptor.Declaring != nil {
		return "", false
	}
	alias, ok := a.byName[descriptor.QualifiedName()]
	return alias, ok
}

// Descriptor returns named descriptor for supplied alias
func (a *Aliases) Descriptor(alias string) (*TypeDescriptor, bool) {
	qualified, ok := a.byAlias[alias]
	if !ok {
		return nil, false
	}
	ret := &TypeDescriptor{Name: qualified, Kind: qualified}
	if index := strings.LastIndexByte(qualified, '.'); index != -1 {
		ret.Namespace, ret.Name, ret.Kind = qualified[:index], qualified[index+1:], ""
	}
	return ret, true
}

// NewAliases parses alias=qualified.Name pair literals
func NewAliases(literals string) (*Aliases, error) {
	pairs, err := tags.Values(literals).Pairs()
	if err != nil {
		return nil, err
	}
	ret := &Aliases{byAlias: make(map[string]string, len(pairs)), byName: make(map[string]string, len(pairs))}
	for _, pair := range pairs {
		alias, qualified := pair[0], pair[1]
		if alias == "" || qualified == "" {
			return nil, fmt.Errorf("invalid type alias %q=%q", alias, qualified)
		}
		if _, ok := ret.byAlias[alias]; ok {
			return nil, fmt.Errorf("duplicated type alias %q", alias)
		}
		ret.byAlias[alias] = qualified
		ret.byName[qualified] = alias
	}
	return ret, nil
}

func mustTypeAliases(literals string) *Aliases {
	ret, err := NewAliases(literals)
	if err != nil {
		panic(err)
	}
	return ret
}
