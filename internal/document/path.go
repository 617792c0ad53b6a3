package document

import (
	"fmt"
	"strings"

	"github.com/starford/pacofilter/internal/apperr"
)

// Lookup walks nested objects along path and returns the value found there.
// A missing key yields apperr.ErrMissingExpectedKey, a non-object on the way
// yields apperr.ErrMalformedInput.
func Lookup(root *Object, path ...string) (Value, error) {
	if len(path) == 0 {
		return ObjectValue(root), nil
	}
	cur := root
	for i, key := range path {
		val, ok := cur.Get(key)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s", apperr.ErrMissingExpectedKey, strings.Join(path[:i+1], "."))
		}
		if i == len(path)-1 {
			return val, nil
		}
		next, ok := val.AsObject()
		if !ok {
			return Value{}, fmt.Errorf("%w: %s is not an object", apperr.ErrMalformedInput, strings.Join(path[:i+1], "."))
		}
		cur = next
	}
	return Value{}, nil
}

// LookupArray is Lookup for values that must be arrays.
func LookupArray(root *Object, path ...string) ([]Value, error) {
	val, err := Lookup(root, path...)
	if err != nil {
		return nil, err
	}
	items, ok := val.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", apperr.ErrMalformedInput, strings.Join(path, "."))
	}
	return items, nil
}

// LookupString is Lookup for values that must be strings.
func LookupString(root *Object, path ...string) (string, error) {
	val, err := Lookup(root, path...)
	if err != nil {
		return "", err
	}
	s, ok := val.AsString()
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", apperr.ErrMalformedInput, strings.Join(path, "."))
	}
	return s, nil
}

// Replace sets the value at path. Every parent must already exist.
func Replace(root *Object, value Value, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("replace: empty path")
	}
	parent := root
	if len(path) > 1 {
		val, err := Lookup(root, path[:len(path)-1]...)
		if err != nil {
			return err
		}
		obj, ok := val.AsObject()
		if !ok {
			return fmt.Errorf("%w: %s is not an object", apperr.ErrMalformedInput, strings.Join(path[:len(path)-1], "."))
		}
		parent = obj
	}
	parent.Set(path[len(path)-1], value)
	return nil
}

// Records returns items as objects, failing on the first entry that is not
// one. section names the array in error messages.
func Records(items []Value, section string) ([]*Object, error) {
	out := make([]*Object, 0, len(items))
	for i, item := range items {
		obj, ok := item.AsObject()
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", apperr.ErrMalformedInput, section, i)
		}
		out = append(out, obj)
	}
	return out, nil
}
