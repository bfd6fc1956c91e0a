// Package jvalue is the tagged-variant value tree at the center of the
// library: every JSON document, once parsed, is one Value. Null, True, and
// False carry no payload; Number carries one float64; String carries an
// owned, length-prefixed byte sequence (a Go string already satisfies this
// — it may contain embedded NULs and is never implicitly terminated);
// Array and Object carry owned, contiguous, insertion-ordered children.
package jvalue

import (
	"errors"
	"fmt"
)

// ErrType is returned by the As* accessors when a Value's Kind does not
// match the requested type.
var ErrType = errors.New("jvalue: type mismatch")

// Kind identifies which variant a Value currently holds.
type Kind int

// The seven JSON value kinds.
const (
	Null Kind = iota
	False
	True
	Number
	String
	Array
	Object

	numKinds
)

var kindNames = [numKinds]string{
	"null", "false", "true", "number", "string", "array", "object",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "<unknown>"
	}
	return kindNames[k]
}

// Member is an object's key/value entry. Keys are opaque byte sequences;
// the library never normalizes, case-folds, or deduplicates them.
type Member struct {
	Key   string
	Value Value
}

// Value is the tagged variant. The fields below are deliberately exported:
// jvparse builds them directly while staging children, and jvtree/jvser
// walk them directly, without accessor overhead. Exactly one of Num, Str,
// Elems, Members is meaningful at a time, selected by Kind; reading a field
// that doesn't match Kind is a programmer error (see the As* accessors for
// a checked alternative).
type Value struct {
	Kind    Kind
	Num     float64
	Str     string
	Elems   []Value
	Members []Member
}

// Init resets v to Null, releasing any prior payload. A freshly declared
// Value (the Go zero value) is already Null, so Init is only needed to
// reuse a Value that may hold something else.
func (v *Value) Init() {
	*v = Value{}
}

// Free recursively releases v's descendants and resets v to Null. It is
// idempotent: calling Free on an already-Null Value is a no-op. In a
// garbage-collected runtime this does not reclaim memory eagerly, but it
// preserves the documented contract (Free leaves v Null, safe to call
// again) for callers migrating mental models from the C original, and it
// does sever references promptly for large trees held behind a smaller
// surviving one.
func (v *Value) Free() {
	switch v.Kind {
	case Array:
		for i := range v.Elems {
			v.Elems[i].Free()
		}
	case Object:
		for i := range v.Members {
			v.Members[i].Value.Free()
		}
	}
	*v = Value{}
}

// SetNull sets v to Null, freeing any prior payload.
func (v *Value) SetNull() {
	v.Free()
}

// SetBool sets v to True or False, freeing any prior payload.
func (v *Value) SetBool(b bool) {
	v.Free()
	if b {
		v.Kind = True
	} else {
		v.Kind = False
	}
}

// SetNumber sets v to Number with the given payload, freeing any prior payload.
func (v *Value) SetNumber(f float64) {
	v.Free()
	v.Kind = Number
	v.Num = f
}

// SetString sets v to String, copying s, freeing any prior payload. Go
// strings are immutable, so assignment already is a logical copy: no
// aliasing mutation of s can ever be observed through v.
func (v *Value) SetString(s string) {
	v.Free()
	v.Kind = String
	v.Str = s
}

// SetArray installs an empty Array with the given initial capacity,
// freeing any prior payload. capacity == 0 is allowed and leaves the
// backing storage absent (a nil slice) until the first growth.
func (v *Value) SetArray(capacity int) {
	v.Free()
	v.Kind = Array
	if capacity > 0 {
		v.Elems = make([]Value, 0, capacity)
	}
}

// SetObject installs an empty Object with the given initial capacity,
// freeing any prior payload.
func (v *Value) SetObject(capacity int) {
	v.Free()
	v.Kind = Object
	if capacity > 0 {
		v.Members = make([]Member, 0, capacity)
	}
}

// AsNull returns an error if v is not Null.
func (v *Value) AsNull() error {
	if v.Kind == Null {
		return nil
	}
	return fmt.Errorf("%w: value is %s, not null", ErrType, v.Kind)
}

// AsBool extracts a boolean. Returns ErrType if v is neither True nor False.
func (v *Value) AsBool() (bool, error) {
	switch v.Kind {
	case True:
		return true, nil
	case False:
		return false, nil
	default:
		return false, fmt.Errorf("%w: value is %s, not a boolean", ErrType, v.Kind)
	}
}

// AsNumber extracts the float64 payload. Returns ErrType if v is not Number.
func (v *Value) AsNumber() (float64, error) {
	if v.Kind == Number {
		return v.Num, nil
	}
	return 0, fmt.Errorf("%w: value is %s, not a number", ErrType, v.Kind)
}

// AsString extracts the string payload. Returns ErrType if v is not String.
func (v *Value) AsString() (string, error) {
	if v.Kind == String {
		return v.Str, nil
	}
	return "", fmt.Errorf("%w: value is %s, not a string", ErrType, v.Kind)
}

// AsArray returns the element slice. Returns ErrType if v is not Array.
// The returned slice aliases v's storage and is only valid until the next
// mutation of v.
func (v *Value) AsArray() ([]Value, error) {
	if v.Kind == Array {
		return v.Elems, nil
	}
	return nil, fmt.Errorf("%w: value is %s, not an array", ErrType, v.Kind)
}

// AsObject returns the member slice. Returns ErrType if v is not Object.
// The returned slice aliases v's storage and is only valid until the next
// mutation of v.
func (v *Value) AsObject() ([]Member, error) {
	if v.Kind == Object {
		return v.Members, nil
	}
	return nil, fmt.Errorf("%w: value is %s, not an object", ErrType, v.Kind)
}

// Debug returns a non-JSON, human-readable representation of v, useful in
// test failure messages and panics. It is NOT valid JSON; use jvser.Stringify
// for that.
func (v *Value) Debug() string {
	switch v.Kind {
	case Null:
		return "null"
	case True:
		return "true"
	case False:
		return "false"
	case Number:
		return fmt.Sprintf("%g", v.Num)
	case String:
		return fmt.Sprintf("%q", v.Str)
	case Array:
		s := "["
		for i := range v.Elems {
			if i > 0 {
				s += ", "
			}
			s += v.Elems[i].Debug()
		}
		return s + "]"
	case Object:
		s := "{"
		for i := range v.Members {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%q: %s", v.Members[i].Key, v.Members[i].Value.Debug())
		}
		return s + "}"
	default:
		return "<unknown>"
	}
}
