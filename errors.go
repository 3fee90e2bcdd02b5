package dynval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	//ErrNoMatchingConstructor reports that no construction path exists for a complex type
	ErrNoMatchingConstructor = errors.New("no matching constructor")
	//ErrAmbiguousConstructor reports equally ranked constructor candidates
	ErrAmbiguousConstructor = errors.New("ambiguous constructor match")
	//ErrDuplicateProperty reports strict insertion of an existing property name
	ErrDuplicateProperty = errors.New("duplicate property")
	//ErrUnresolvableType reports type descriptor that can not be resolved
	ErrUnresolvableType = errors.New("unresolvable type")
	//ErrUnassignable reports value that can not be assigned to a member or parameter
	ErrUnassignable = errors.New("unassignable value")
	//ErrDirectAccessUnavailable reports direct storage access on a platform without unsafe support
	ErrDirectAccessUnavailable = errors.New("direct member access is not available on this platform")
	//ErrUnsupportedCollection reports collection target that can not be built
	ErrUnsupportedCollection = errors.New("unsupported collection")
)

// MappingError represents the single error kind raised by the Mapper
type MappingError struct {
	Op   string
	Type reflect.Type
	Path []string
	Err  error
}

// Error returns error message
func (e *MappingError) Error() string {
	builder := strings.Builder{}
	builder.WriteString("dynval: ")
	builder.WriteString(e.Op)
	if e.Type != nil {
		builder.WriteString(" ")
		builder.WriteString(e.Type.String())
	}
	if len(e.Path) > 0 {
		builder.WriteString(" at ")
		builder.WriteString(strings.Join(e.Path, "."))
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

// Unwrap returns underlying error
func (e *MappingError) Unwrap() error {
	return e.Err
}

// TypeRejectedError is returned by type policy to deny a type, it is never wrapped by the Mapper
type TypeRejectedError struct {
	Type   reflect.Type
	Reason string
}

// Error returns error message
func (e *TypeRejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("type %v rejected by policy", e.Type)
	}
	return fmt.Sprintf("type %v rejected by policy: %v", e.Type, e.Reason)
}

// NewTypeRejectedError creates a policy rejection
func NewTypeRejectedError(t reflect.Type, reason string) *TypeRejectedError {
	return &TypeRejectedError{Type: t, Reason: reason}
}

func asMappingError(op string, t reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	var mappingErr *MappingError
	if errors.As(err, &mappingErr) {
		return err
	}
	var rejected *TypeRejectedError
	if errors.As(err, &rejected) {
		return rejected
	}
	return &MappingError{Op: op, Type: t, Err: err}
}

// pathError carries member path of a nested failure until it is raised as MappingError
type pathError struct {
	path []string
	err  error
}

func (e *pathError) Error() string {
	return strings.Join(e.path, ".") + ": " + e.err.Error()
}

func (e *pathError) Unwrap() error {
	return e.err
}

func withPath(name string, err error) error {
	var rejected *TypeRejectedError
	if errors.As(err, &rejected) {
		return err
	}
	var pErr *pathError
	if errors.As(err, &pErr) {
		pErr.path = append([]string{name}, pErr.path...)
		return pErr
	}
	return &pathError{path: []string{name}, err: err}
}

func raise(op string, t reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	var pErr *pathError
	if errors.As(err, &pErr) {
		var mappingErr *MappingError
		if errors.As(pErr.err, &mappingErr) {
			return pErr.err
		}
		var rejected *TypeRejectedError
		if errors.As(pErr.err, &rejected) {
			return rejected
		}
		return &MappingError{Op: op, Type: t, Path: pErr.path, Err: pErr.err}
	}
	return asMappingError(op, t, err)
}
