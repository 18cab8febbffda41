// Package jsonvalue builds an in-memory JSON value tree on top of
// github.com/pushjson/jsonparser. It is an ordinary consumer of that
// package's Callbacks contract, not a privileged part of it: anything this
// package does, a caller-written callback bundle could do too.
package jsonvalue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrType is returned by the AsXxx accessors when a Value holds a different
// type than the one requested.
var ErrType = errors.New("jsonvalue: type error")

// Type identifies the kind of value a Value holds.
type Type int

// Possible value kinds. Number and Integer are reported separately so that
// whole numbers big enough to lose float64 precision can still round-trip
// exactly through AsInteger.
const (
	Null Type = iota
	Number
	Integer
	String
	Boolean
	Array
	Object
	numTypes
	typeUnknown Type = -1
)

var typeStrings = [numTypes]string{
	"<null>",
	"<number>",
	"<integer>",
	"<string>",
	"<boolean>",
	"<array>",
	"<object>",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return "<unknown>"
	}
	return typeStrings[t]
}

// Value is a node of a JSON document under construction or already built.
//
// A Value is not assembled in one shot the way a decoded struct literal
// would be: strings, array elements and object members each arrive as one
// or more separate events, so a Value spends part of its life open,
// accumulating content a caller-driven parse feeds it, before it closes and
// becomes safe to read through the AsXxx accessors. open is false for any
// Value returned to a caller of Parse/ParseString/ParseBytes, since those
// entry points only hand back a tree once the whole document has closed;
// it exists so a consumer that wires its own jsonparser.Callbacks and walks
// partially-built Values mid-stream (rather than waiting for Parse to
// return one) has a way to tell an in-progress node from a finished one.
type Value struct {
	jsonType     Type
	open         bool
	numberValue  float64
	integerValue int64
	text         strings.Builder
	booleanValue bool
	arrayValue   []*Value
	objectValue  []pair
}

type pair struct {
	key string
	val *Value
}

func newNull() *Value { return &Value{jsonType: Null} }

func newBoolean(b bool) *Value { return &Value{jsonType: Boolean, booleanValue: b} }

func newInteger(n int64) *Value { return &Value{jsonType: Integer, integerValue: n} }

func newNumber(f float64) *Value { return &Value{jsonType: Number, numberValue: f} }

// newOpenString starts a String value with no content yet; the parser may
// deliver it in several spans (escape sequences each break the surrounding
// run of literal bytes into a separate OnString call), so construction has
// to support repeated appends rather than a single assignment.
func newOpenString() *Value { return &Value{jsonType: String, open: true} }

// newOpenArray and newOpenObject start their respective containers empty;
// elements and members arrive one at a time as later events close and merge
// sibling Values into them, and the container itself only closes when its
// own terminating brace or bracket is seen.
func newOpenArray() *Value { return &Value{jsonType: Array, open: true} }

func newOpenObject() *Value { return &Value{jsonType: Object, open: true} }

// appendText grows a String value by one more span. It panics if v was not
// created open, since that would mean the builder driving it lost track of
// which Value a span belongs to.
func (v *Value) appendText(data []byte) {
	if v.jsonType != String || !v.open {
		panic("jsonvalue: appendText on a Value that isn't an open string")
	}
	v.text.Write(data)
}

// appendElement merges a completed child into an open array, in the order
// the parser produced it.
func (v *Value) appendElement(child *Value) {
	v.arrayValue = append(v.arrayValue, child)
}

// setMember merges a completed key/value pair into an open object. Order is
// preserved and duplicate keys are not rejected; see Key for how a repeated
// key is resolved on lookup.
func (v *Value) setMember(key string, child *Value) {
	v.objectValue = append(v.objectValue, pair{key: key, val: child})
}

// close marks v as fully built by clearing its open flag. A closed string
// rejects further appendText calls; appendElement and setMember do not check
// the flag.
func (v *Value) close() {
	v.open = false
}

// IsComplete reports whether v has received everything it is going to
// receive. Values returned by Parse, ParseString and ParseBytes are always
// complete; it is meaningful only for a caller that inspects a Value tree
// being built by a jsonparser.Callbacks bundle of its own, before the
// parse finishes.
func (v *Value) IsComplete() bool {
	return !v.open
}

// Type reports the kind of value v holds.
func (v *Value) Type() Type {
	if v.jsonType >= 0 && v.jsonType < numTypes {
		return v.jsonType
	}
	return typeUnknown
}

// AsNull reports whether v is a JSON null.
func (v *Value) AsNull() (struct{}, error) {
	if v.jsonType == Null {
		return struct{}{}, nil
	}
	return struct{}{}, fmt.Errorf("%w: value not null (%v)", ErrType, v)
}

// AsNumber extracts a float64, widening an Integer value if necessary. Use
// AsInteger instead when exact whole-number precision matters.
func (v *Value) AsNumber() (float64, error) {
	if v.jsonType == Integer {
		return float64(v.integerValue), nil
	}
	if v.jsonType == Number {
		return v.numberValue, nil
	}
	return 0, fmt.Errorf("%w: value not a number (%v)", ErrType, v)
}

// AsInteger extracts an int64. It does not convert a decimal/exponent
// literal; use AsNumber for that.
func (v *Value) AsInteger() (int64, error) {
	if v.jsonType == Integer {
		return v.integerValue, nil
	}
	return 0, fmt.Errorf("%w: value not an integer (%v)", ErrType, v)
}

// AsString extracts a string value. Calling it on a Value that is still
// open returns whatever content has arrived so far rather than an error,
// since a partially-streamed string is still a valid (if incomplete) string.
func (v *Value) AsString() (string, error) {
	if v.jsonType == String {
		return v.text.String(), nil
	}
	return "", fmt.Errorf("%w: value not a string (%v)", ErrType, v)
}

// AsBoolean extracts a boolean value.
func (v *Value) AsBoolean() (bool, error) {
	if v.jsonType == Boolean {
		return v.booleanValue, nil
	}
	return false, fmt.Errorf("%w: value not a boolean (%v)", ErrType, v)
}

// AsArray extracts the element slice of an array value, in document order.
func (v *Value) AsArray() ([]*Value, error) {
	if v.jsonType == Array {
		return v.arrayValue, nil
	}
	return nil, fmt.Errorf("%w: value not an array (%v)", ErrType, v)
}

// AsObject extracts an object value as a map. Member order is not
// preserved; use Key for order-independent lookup on the Value itself if
// duplicate keys matter, since the last one wins here.
func (v *Value) AsObject() (map[string]*Value, error) {
	if v.jsonType == Object {
		m := make(map[string]*Value, len(v.objectValue))
		for _, p := range v.objectValue {
			m[p.key] = p.val
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: value not an object (%v)", ErrType, v)
}

// String renders a debug view of v. It is not guaranteed to be valid JSON
// (in particular, string escaping is whatever strconv.Quote produces). A
// Value still open prints "..." where its unfinished content would go.
func (v *Value) String() string {
	switch v.jsonType {
	case Null:
		return "null"
	case Integer:
		return strconv.FormatInt(v.integerValue, 10)
	case Number:
		return strconv.FormatFloat(v.numberValue, 'f', -1, 64)
	case String:
		if v.open {
			return strconv.Quote(v.text.String()) + "..."
		}
		return strconv.Quote(v.text.String())
	case Boolean:
		if v.booleanValue {
			return "true"
		}
		return "false"
	case Array:
		var b strings.Builder
		b.WriteByte('[')
		for i, val := range v.arrayValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(val.String())
		}
		if v.open {
			if len(v.arrayValue) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteByte(']')
		return b.String()
	case Object:
		var b strings.Builder
		b.WriteByte('{')
		for i, p := range v.objectValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(p.key))
			b.WriteString(": ")
			b.WriteString(p.val.String())
		}
		if v.open {
			if len(v.objectValue) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteByte('}')
		return b.String()
	}
	return "<unknown>"
}

// Index provides fluent array access; out-of-range or non-array access
// yields a null Value rather than a panic or error, so lookups can be
// chained freely.
func (v *Value) Index(i int) *Value {
	if v.jsonType != Array {
		return newNull()
	}
	if i < 0 || i >= len(v.arrayValue) {
		return newNull()
	}
	return v.arrayValue[i]
}

// Key provides fluent object access; a missing key or non-object receiver
// yields a null Value. The first matching pair wins if the document had
// duplicate keys, since nothing about the grammar rejects them.
func (v *Value) Key(k string) *Value {
	if v.jsonType != Object {
		return newNull()
	}
	for _, p := range v.objectValue {
		if p.key == k {
			return p.val
		}
	}
	return newNull()
}
