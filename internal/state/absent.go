package state

import "reflect"

// Absent reports whether v carries no snapshot: an untyped nil, or a nil
// pointer, interface, map, slice, func or channel.
func Absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
