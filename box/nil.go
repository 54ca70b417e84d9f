package box

import "reflect"

// IsNil reports whether el is absent. Typed nil pointers count as absent;
// they show up when a pane field is handed out before it is constructed.
func IsNil(el Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
