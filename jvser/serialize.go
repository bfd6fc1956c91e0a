// Package jvser serializes a jvalue.Value tree back to JSON text. Array
// elements and object members are emitted in the order they are stored in
// the tree — the library never reorders an object's members, so a tree
// built by the parser round-trips in parse order, and a tree built or
// edited through jvtree serializes in whatever order its editor left it.
package jvser

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/latticevalue/jsontree/jvalue"
	"github.com/latticevalue/jsontree/jvfloat"
)

// Stringify renders v as a JSON byte sequence. It returns an error if v
// (or any descendant) holds a non-finite number or invalid UTF-8 string,
// neither of which has a JSON representation.
func Stringify(v *jvalue.Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("jvser: nil value")
	}
	return appendValue(nil, v)
}

func appendValue(buf []byte, v *jvalue.Value) ([]byte, error) {
	switch v.Kind {
	case jvalue.Null:
		return append(buf, "null"...), nil
	case jvalue.False:
		return append(buf, "false"...), nil
	case jvalue.True:
		return append(buf, "true"...), nil
	case jvalue.Number:
		return appendNumber(buf, v.Num)
	case jvalue.String:
		return appendString(buf, v.Str)
	case jvalue.Array:
		return appendArray(buf, v)
	case jvalue.Object:
		return appendObject(buf, v)
	default:
		return nil, fmt.Errorf("jvser: unknown value kind %d", v.Kind)
	}
}

func appendNumber(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("jvser: number is not finite")
	}
	s, err := jvfloat.FormatDouble(f)
	if err != nil {
		return nil, fmt.Errorf("jvser: %w", err)
	}
	return append(buf, s...), nil
}

// appendString escapes s per the standard JSON string grammar: the named
// two-character escapes for backspace/tab/newline/formfeed/return/quote/
// backslash, \u00XX for the remaining control bytes, and the solidus and
// all valid UTF-8 at or above U+0020 passed through unescaped.
func appendString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("jvser: string is not valid UTF-8")
	}

	buf = append(buf, '"')
	for i := 0; i < len(s); {
		next, consumed := appendEscapedByte(buf, s[i])
		if consumed {
			buf = next
			i++
			continue
		}
		size := byteSpanForCopy(s, i)
		buf = append(buf, s[i:i+size]...)
		i += size
	}
	buf = append(buf, '"')
	return buf, nil
}

func appendEscapedByte(buf []byte, b byte) ([]byte, bool) {
	switch b {
	case '"':
		return append(buf, '\\', '"'), true
	case '\\':
		return append(buf, '\\', '\\'), true
	case '\b':
		return append(buf, '\\', 'b'), true
	case '\t':
		return append(buf, '\\', 't'), true
	case '\n':
		return append(buf, '\\', 'n'), true
	case '\f':
		return append(buf, '\\', 'f'), true
	case '\r':
		return append(buf, '\\', 'r'), true
	default:
		if b < 0x20 {
			return append(buf, '\\', 'u', '0', '0', hexDigit(b>>4), hexDigit(b&0x0F)), true
		}
		return buf, false
	}
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}

func byteSpanForCopy(s string, i int) int {
	b := s[i]
	if b < 0x80 {
		return 1
	}
	size := utf8SeqLen(b)
	if i+size > len(s) {
		return len(s) - i
	}
	return size
}

func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

func appendArray(buf []byte, v *jvalue.Value) ([]byte, error) {
	buf = append(buf, '[')
	for i := range v.Elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendValue(buf, &v.Elems[i])
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

// appendObject emits members in storage order. Unlike canonicalization
// schemes that sort member names, this library treats object member order
// as part of the document's content.
func appendObject(buf []byte, v *jvalue.Value) ([]byte, error) {
	buf = append(buf, '{')
	for i := range v.Members {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendString(buf, v.Members[i].Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ':')
		buf, err = appendValue(buf, &v.Members[i].Value)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, '}')
	return buf, nil
}
