// Package document models a JSON configuration tree whose objects keep their
// key order from decode through encode.
package document

import (
	"bytes"
	"encoding/json"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers insertion order.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// Value is any JSON value. Objects are held as *Object, arrays as []Value,
// numbers as json.Number so their text survives a round trip.
type Value struct {
	v any
}

// ObjectValue wraps o.
func ObjectValue(o *Object) Value { return Value{v: o} }

// ArrayValue wraps items. A nil slice encodes as [] rather than null.
func ArrayValue(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{v: items}
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{v: s} }

// IntValue wraps n as a JSON number.
func IntValue(n int64) Value { return Value{v: json.Number(strconv.FormatInt(n, 10))} }

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, bool) {
	o, ok := v.v.(*Object)
	return o, ok && o != nil
}

// AsArray returns the array held by v.
func (v Value) AsArray() ([]Value, bool) {
	a, ok := v.v.([]Value)
	return a, ok
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// AsInt returns v as an integer when it is a JSON number without fraction.
func (v Value) AsInt() (int64, bool) {
	n, ok := v.v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// IsNull reports whether v is JSON null (or the zero Value).
func (v Value) IsNull() bool { return v.v == nil }

// Clone returns a deep copy of v. Scalars are immutable and shared.
func (v Value) Clone() Value {
	switch t := v.v.(type) {
	case *Object:
		return ObjectValue(CloneObject(t))
	case []Value:
		out := make([]Value, len(t))
		for i := range t {
			out[i] = t[i].Clone()
		}
		return Value{v: out}
	default:
		return v
	}
}

// CloneObject returns a deep copy of o with the same key order.
func CloneObject(o *Object) *Object {
	if o == nil {
		return nil
	}
	out := orderedmap.New[string, Value](o.Len())
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone())
	}
	return out
}

// UnmarshalJSON decodes objects into ordered maps and keeps numbers as text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		v.v = nil
		return nil
	}

	switch data[0] {
	case '{':
		obj := NewObject()
		if err := json.Unmarshal(data, obj); err != nil {
			return err
		}
		v.v = obj
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		v.v = items
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var scalar any
		if err := dec.Decode(&scalar); err != nil {
			return err
		}
		v.v = scalar
	}
	return nil
}

// MarshalJSON encodes v compactly. Strings are not HTML-escaped so that
// untouched values are written back as they were read.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.v.(type) {
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for pair, first := t.Oldest(), true; pair != nil; pair, first = pair.Next(), false {
			if !first {
				buf.WriteByte(',')
			}
			if err := appendScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []Value:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return appendScalar(buf, t)
	}
	return nil
}

func appendScalar(buf *bytes.Buffer, scalar any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(scalar); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
