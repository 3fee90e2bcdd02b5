package conv

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayout is the canonical round-trip time layout
const DefaultTimeLayout = time.RFC3339Nano

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Format returns canonical round-trip string for a native value, false if value is not native
func Format(value reflect.Value, layout string) (string, bool) {
	if !value.IsValid() {
		return "", false
	}
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return "", false
		}
		value = value.Elem()
	}
	switch value.Type() {
	case timeType:
		if layout == "" {
			layout = DefaultTimeLayout
		}
		return value.Interface().(time.Time).Format(layout), true
	case durationType:
		return time.Duration(value.Int()).String(), true
	}
	switch value.Kind() {
	case reflect.String:
		return value.String(), true
	case reflect.Bool:
		return strconv.FormatBool(value.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(value.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(value.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'g', -1, 64), true
	case reflect.Complex64:
		return strconv.FormatComplex(value.Complex(), 'g', -1, 64), true
	case reflect.Complex128:
		return strconv.FormatComplex(value.Complex(), 'g', -1, 128), true
	case reflect.Slice:
		if IsBytes(value.Type()) {
			return base64.StdEncoding.EncodeToString(value.Bytes()), true
		}
	}
	return "", false
}

// ParseString parses text into target native type using invariant formats
func ParseString(text string, target reflect.Type, layout string) (reflect.Value, error) {
	if target.Kind() == reflect.Ptr {
		elem, err := ParseString(text, target.Elem(), layout)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	ret := reflect.New(target).Elem()
	var err error
	switch target {
	case timeType:
		var ts time.Time
		if ts, err = parseTime(text, layout); err == nil {
			ret.Set(reflect.ValueOf(ts))
		}
		return ret, wrapParseError(text, target, err)
	case durationType:
		var d time.Duration
		if d, err = time.ParseDuration(text); err != nil {
			var nanos int64
			if nanos, err = strconv.ParseInt(text, 10, 64); err == nil {
				d = time.Duration(nanos)
			}
		}
		ret.SetInt(int64(d))
		return ret, wrapParseError(text, target, err)
	}
	switch target.Kind() {
	case reflect.String:
		ret.SetString(text)
	case reflect.Bool:
		var b bool
		b, err = strconv.ParseBool(text)
		ret.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		i, err = strconv.ParseInt(strings.TrimSpace(text), 10, bitsOf(target.Kind()))
		ret.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		u, err = strconv.ParseUint(strings.TrimSpace(text), 10, bitsOf(target.Kind()))
		ret.SetUint(u)
	case reflect.Float32, reflect.Float64:
		var f float64
		f, err = strconv.ParseFloat(strings.TrimSpace(text), bitsOf(target.Kind()))
		ret.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		var c complex128
		c, err = strconv.ParseComplex(strings.TrimSpace(text), bitsOf(target.Kind()))
		ret.SetComplex(c)
	case reflect.Slice:
		if !IsBytes(target) {
			return reflect.Value{}, fmt.Errorf("cannot parse %q into %v: %w", text, target, ErrNotConvertible)
		}
		var data []byte
		if data, err = base64.StdEncoding.DecodeString(text); err == nil {
			ret.SetBytes(data)
		}
	default:
		return reflect.Value{}, fmt.Errorf("cannot parse %q into %v: %w", text, target, ErrNotConvertible)
	}
	return ret, wrapParseError(text, target, err)
}

func wrapParseError(text string, target reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to parse %q into %v: %w", text, target, err)
}

func parseTime(text, layout string) (time.Time, error) {
	if layout != "" {
		return time.Parse(layout, text)
	}
	var err error
	for _, candidate := range timeLayouts {
		var ts time.Time
		if ts, err = time.Parse(candidate, text); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
