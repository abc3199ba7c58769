package store

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/spf13/cast"
)

// KeyString converts a key value into its canonical string form.
//
// nil, nil pointers and the empty string are rejected with RetCMissingKey.
// Every other value that spf13/cast can turn into a string is accepted,
// including 0 and false. Values without a string form are rejected with RetCInvalidKey.
func KeyString(key any) (string, error) {
	if isNil(key) {
		return "", NewError(RetCMissingKey, "missing key")
	}
	s, err := cast.ToStringE(indirect(key))
	if err != nil {
		return "", WrapError(RetCInvalidKey, fmt.Sprintf("key of type %T can not be used", key), err)
	}
	if s == "" {
		return "", NewError(RetCMissingKey, "missing key")
	}
	if s == "." || s == ".." {
		return "", NewError(RetCInvalidKey, fmt.Sprintf("key %q can not be used as file name", s))
	}
	return s, nil
}

// fileStem returns the file name (without extension) for a canonical key.
// Path separators and other reserved characters are escaped, so a key can
// never address a file outside of the namespace root.
func fileStem(key string) string {
	return url.PathEscape(key)
}

// isNil reports whether v is nil or a nil pointer/interface/map/slice.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// indirect dereferences pointers so that *string keys behave like string keys.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}
