package conv

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	//ErrOverflow reports value out of the destination range
	ErrOverflow = errors.New("overflow")
	//ErrNotConvertible reports missing conversion path
	ErrNotConvertible = errors.New("not convertible")
)

// Narrowing represents checked explicit conversion into dest type
type Narrowing func(value reflect.Value, dest reflect.Type) (reflect.Value, error)

// narrowing holds a checked conversion for every ordered pair of numeric kinds
var narrowing = map[kindPair]Narrowing{}

func init() {
	for _, src := range numericKinds {
		for _, dest := range numericKinds {
			narrowing[kindPair{src, dest}] = newNarrowing(src, dest)
		}
	}
}

// LookupNarrowing returns a checked conversion between supplied kinds or nil
func LookupNarrowing(src, dest reflect.Kind) Narrowing {
	return narrowing[kindPair{src, dest}]
}

// Narrow converts value into target numeric type failing on overflow
func Narrow(value reflect.Value, target reflect.Type) (reflect.Value, error) {
	fn := LookupNarrowing(value.Kind(), target.Kind())
	if fn == nil {
		return reflect.Value{}, fmt.Errorf("cannot narrow %v to %v: %w", value.Type(), target, ErrNotConvertible)
	}
	return fn(value, target)
}

func newNarrowing(src, dest reflect.Kind) Narrowing {
	read := reader(src)
	write := writer(dest)
	return func(value reflect.Value, destType reflect.Type) (reflect.Value, error) {
		number := read(value)
		ret := reflect.New(destType).Elem()
		if err := write(number, ret); err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %v(%v) to %v: %w", value.Type(), value.Interface(), destType, err)
		}
		return ret, nil
	}
}

// number is a canonical numeric holder
type number struct {
	class numericClass
	i     int64
	u     uint64
	f     float64
	c     complex128
}

func reader(kind reflect.Kind) func(value reflect.Value) number {
	switch classOf(kind) {
	case signedClass:
		return func(value reflect.Value) number { return number{class: signedClass, i: value.Int()} }
	case unsignedClass:
		return func(value reflect.Value) number { return number{class: unsignedClass, u: value.Uint()} }
	case floatClass:
		return func(value reflect.Value) number { return number{class: floatClass, f: value.Float()} }
	}
	return func(value reflect.Value) number { return number{class: complexClass, c: value.Complex()} }
}

func writer(kind reflect.Kind) func(n number, dest reflect.Value) error {
	bits := bitsOf(kind)
	switch classOf(kind) {
	case signedClass:
		minimum, maximum := int64(math.MinInt64)>>(64-bits), int64(math.MaxInt64)>>(64-bits)
		return func(n number, dest reflect.Value) error {
			v, err := n.asInt64()
			if err != nil {
				return err
			}
			if v < minimum || v > maximum {
				return ErrOverflow
			}
			dest.SetInt(v)
			return nil
		}
	case unsignedClass:
		maximum := uint64(math.MaxUint64) >> (64 - bits)
		return func(n number, dest reflect.Value) error {
			v, err := n.asUint64()
			if err != nil {
				return err
			}
			if v > maximum {
				return ErrOverflow
			}
			dest.SetUint(v)
			return nil
		}
	case floatClass:
		return func(n number, dest reflect.Value) error {
			v, err := n.asFloat64()
			if err != nil {
				return err
			}
			if bits == 32 && !math.IsInf(v, 0) && !math.IsNaN(v) && math.Abs(v) > math.MaxFloat32 {
				return ErrOverflow
			}
			dest.SetFloat(v)
			return nil
		}
	}
	return func(n number, dest reflect.Value) error {
		v := n.asComplex128()
		if bits == 64 {
			for _, part := range []float64{real(v), imag(v)} {
				if !math.IsInf(part, 0) && !math.IsNaN(part) && math.Abs(part) > math.MaxFloat32 {
					return ErrOverflow
				}
			}
		}
		dest.SetComplex(v)
		return nil
	}
}

func (n number) realPart() (float64, error) {
	if n.class == complexClass {
		if imag(n.c) != 0 {
			return 0, fmt.Errorf("imaginary part %v: %w", imag(n.c), ErrOverflow)
		}
		return real(n.c), nil
	}
	return n.f, nil
}

func (n number) asInt64() (int64, error) {
	switch n.class {
	case signedClass:
		return n.i, nil
	case unsignedClass:
		if n.u > math.MaxInt64 {
			return 0, ErrOverflow
		}
		return int64(n.u), nil
	}
	f, err := n.realPart()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, ErrOverflow
	}
	return int64(f), nil
}

func (n number) asUint64() (uint64, error) {
	switch n.class {
	case signedClass:
		if n.i < 0 {
			return 0, ErrOverflow
		}
		return uint64(n.i), nil
	case unsignedClass:
		return n.u, nil
	}
	f, err := n.realPart()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f <= -1 || f >= 1<<64 {
		return 0, ErrOverflow
	}
	return uint64(f), nil
}

func (n number) asFloat64() (float64, error) {
	switch n.class {
	case signedClass:
		return float64(n.i), nil
	case unsignedClass:
		return float64(n.u), nil
	}
	return n.realPart()
}

func (n number) asComplex128() complex128 {
	switch n.class {
	case signedClass:
		return complex(float64(n.i), 0)
	case unsignedClass:
		return complex(float64(n.u), 0)
	case floatClass:
		return complex(n.f, 0)
	}
	return n.c
}
