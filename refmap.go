package dynval

import "reflect"

type forwardKey struct {
	ptr uintptr
	len int
	t   reflect.Type
}

// identityOf returns source identity for reference kinds
func identityOf(value reflect.Value) (forwardKey, bool) {
	switch value.Kind() {
	case reflect.Ptr, reflect.Map:
		if value.IsNil() {
			return forwardKey{}, false
		}
		return forwardKey{ptr: value.Pointer(), t: value.Type()}, true
	case reflect.Slice:
		if value.Len() == 0 {
			return forwardKey{}, false
		}
		return forwardKey{ptr: value.Pointer(), len: value.Len(), t: value.Type()}, true
	}
	return forwardKey{}, false
}

type forwardRefs struct {
	values map[forwardKey]*Value
}

func (r *forwardRefs) lookup(key forwardKey) (*Value, bool) {
	ret, ok := r.values[key]
	return ret, ok
}

// register stores value for supplied key, the earliest registration wins
func (r *forwardRefs) register(key forwardKey, value *Value) *Value {
	if prev, ok := r.values[key]; ok {
		return prev
	}
	r.values[key] = value
	return value
}

func (r *forwardRefs) reset() {
	r.values = map[forwardKey]*Value{}
}

func (r *forwardRefs) len() int {
	return len(r.values)
}

type reverseKey struct {
	t     reflect.Type
	value *Value
}

type reverseRefs struct {
	instances map[reverseKey]reflect.Value
}

func (r *reverseRefs) lookup(key reverseKey) (reflect.Value, bool) {
	ret, ok := r.instances[key]
	return ret, ok
}

func (r *reverseRefs) register(key reverseKey, instance reflect.Value) {
	if key.value == nil {
		return
	}
	if _, ok := r.instances[key]; ok {
		return
	}
	r.instances[key] = instance
}

func (r *reverseRefs) reset() {
	r.instances = map[reverseKey]reflect.Value{}
}

func (r *reverseRefs) len() int {
	return len(r.instances)
}

func newForwardRefs() *forwardRefs {
	ret := &forwardRefs{}
	ret.reset()
	return ret
}

func newReverseRefs() *reverseRefs {
	ret := &reverseRefs{}
	ret.reset()
	return ret
}
