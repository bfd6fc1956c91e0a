// Package jvparse implements the recursive-descent JSON parser: it turns a
// byte slice into a jvalue.Value tree or a jverr.ParseError. Object and
// array children are staged on shared, transient jvstack arenas while
// nested parsing is in progress, then copied into an exact-size final
// slice when the enclosing bracket closes — so the parser never leaves an
// over-allocated, repeatedly-regrown slice hanging off any Value in the
// result tree.
package jvparse

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/latticevalue/jsontree/jverr"
	"github.com/latticevalue/jsontree/jvalue"
	"github.com/latticevalue/jsontree/jvstack"
)

// DefaultMaxDepth bounds array/object nesting so a pathological or
// adversarial input cannot exhaust the Go call stack via recursion.
const DefaultMaxDepth = 1024

// Options controls parser limits. The zero value selects the defaults.
type Options struct {
	// MaxDepth is the maximum combined array/object nesting depth. 0
	// selects DefaultMaxDepth.
	MaxDepth int
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int

	strBuf *jvstack.Buffer
	vals   *jvstack.ValueStack
	mems   *jvstack.MemberStack
}

// Parse parses a complete JSON text using default options.
func Parse(data []byte) (*jvalue.Value, *jverr.ParseError) {
	return ParseWithOptions(data, nil)
}

// ParseString is a convenience wrapper over Parse for string input.
func ParseString(s string) (*jvalue.Value, *jverr.ParseError) {
	return Parse([]byte(s))
}

// ParseWithOptions parses a complete JSON text: optional whitespace, one
// value, optional whitespace, end of input. Trailing non-whitespace
// content is rejected as jverr.RootNotSingular.
func ParseWithOptions(data []byte, opts *Options) (*jvalue.Value, *jverr.ParseError) {
	p := &parser{
		data:     data,
		maxDepth: opts.maxDepth(),
		strBuf:   jvstack.NewBuffer(256),
		vals:     jvstack.NewValueStack(32),
		mems:     jvstack.NewMemberStack(32),
	}

	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return nil, jverr.New(jverr.ExpectValue, p.pos, "input is empty or whitespace only")
	}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.pos != len(p.data) {
		return nil, jverr.New(jverr.RootNotSingular, p.pos, "unexpected content after root value")
	}
	return v, nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) pushDepth() *jverr.ParseError {
	p.depth++
	if p.depth > p.maxDepth {
		return jverr.New(jverr.InvalidValue, p.pos, fmt.Sprintf("nesting depth exceeds maximum %d", p.maxDepth))
	}
	return nil
}

func (p *parser) popDepth() { p.depth-- }

func (p *parser) parseValue() (*jvalue.Value, *jverr.ParseError) {
	c, ok := p.peek()
	if !ok {
		return nil, jverr.New(jverr.ExpectValue, p.pos, "unexpected end of input")
	}

	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString()
	case 't', 'f':
		return p.parseBool()
	case 'n':
		return p.parseNull()
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.parseNumber()
	default:
		return nil, jverr.New(jverr.InvalidValue, p.pos, fmt.Sprintf("unexpected character %q", string(c)))
	}
}

func (p *parser) parseNull() (*jvalue.Value, *jverr.ParseError) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "null" {
		p.pos += 4
		v := &jvalue.Value{}
		v.SetNull()
		return v, nil
	}
	return nil, jverr.New(jverr.InvalidValue, p.pos, "invalid literal, expected null")
}

func (p *parser) parseBool() (*jvalue.Value, *jverr.ParseError) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "true" {
		p.pos += 4
		v := &jvalue.Value{}
		v.SetBool(true)
		return v, nil
	}
	if p.pos+5 <= len(p.data) && string(p.data[p.pos:p.pos+5]) == "false" {
		p.pos += 5
		v := &jvalue.Value{}
		v.SetBool(false)
		return v, nil
	}
	return nil, jverr.New(jverr.InvalidValue, p.pos, "invalid literal, expected true or false")
}

// parseNumber accepts the strict JSON number grammar: an optional '-', an
// integer part with no leading zeros (except a lone "0"), an optional
// fraction, and an optional exponent. "-0" is accepted and equals 0.
func (p *parser) parseNumber() (*jvalue.Value, *jverr.ParseError) {
	start := p.pos

	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}
	if err := p.scanIntegerPart(); err != nil {
		return nil, err
	}
	if err := p.scanFractionPart(); err != nil {
		return nil, err
	}
	if err := p.scanExponentPart(); err != nil {
		return nil, err
	}

	raw := string(p.data[start:p.pos])
	// ParseFloat reports ErrRange both for magnitudes that overflow to
	// +/-Inf and for magnitudes that underflow to 0; only the former is a
	// parse failure here, so a tiny exponent like 1e-10000 legitimately
	// parses to 0 instead of being rejected.
	f, _ := strconv.ParseFloat(raw, 64)
	if math.IsInf(f, 0) {
		return nil, jverr.New(jverr.NumberTooBig, start, fmt.Sprintf("number %q out of double range", raw))
	}

	v := &jvalue.Value{}
	v.SetNumber(f)
	return v, nil
}

func (p *parser) scanIntegerPart() *jverr.ParseError {
	if p.pos >= len(p.data) {
		return jverr.New(jverr.InvalidValue, p.pos, "unexpected end of input in number")
	}
	if p.data[p.pos] == '0' {
		p.pos++
		return nil
	}
	if !isDigit(p.data[p.pos]) {
		return jverr.New(jverr.InvalidValue, p.pos, fmt.Sprintf("invalid number character %q", string(p.data[p.pos])))
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

func (p *parser) scanFractionPart() *jverr.ParseError {
	if p.pos >= len(p.data) || p.data[p.pos] != '.' {
		return nil
	}
	p.pos++
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return jverr.New(jverr.InvalidValue, p.pos, "expected digit after decimal point")
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

func (p *parser) scanExponentPart() *jverr.ParseError {
	if p.pos >= len(p.data) || (p.data[p.pos] != 'e' && p.data[p.pos] != 'E') {
		return nil
	}
	p.pos++
	if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
		p.pos++
	}
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return jverr.New(jverr.InvalidValue, p.pos, "expected digit in exponent")
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseString parses a JSON string, decoding escapes, and returns a String
// Value. The decoded bytes are staged on the shared byte buffer and
// popped back off before returning, so nested string parsing (inside
// array/object recursion) never corrupts an enclosing string's region.
func (p *parser) parseString() (*jvalue.Value, *jverr.ParseError) {
	s, err := p.parseStringBytes()
	if err != nil {
		return nil, err
	}
	v := &jvalue.Value{}
	v.SetString(s)
	return v, nil
}

func (p *parser) parseStringBytes() (string, *jverr.ParseError) {
	if p.pos >= len(p.data) || p.data[p.pos] != '"' {
		return "", jverr.New(jverr.InvalidValue, p.pos, "expected '\"'")
	}
	p.pos++

	base := p.strBuf.Len()
	for {
		if p.pos >= len(p.data) {
			p.strBuf.Pop(p.strBuf.Len() - base)
			return "", jverr.New(jverr.MissQuotationMark, p.pos, "unterminated string")
		}
		b := p.data[p.pos]
		if b == '"' {
			p.pos++
			region := p.strBuf.Pop(p.strBuf.Len() - base)
			return string(region), nil
		}
		if b == '\\' {
			if err := p.consumeEscape(); err != nil {
				p.strBuf.Pop(p.strBuf.Len() - base)
				return "", err
			}
			continue
		}
		if b < 0x20 {
			p.strBuf.Pop(p.strBuf.Len() - base)
			return "", jverr.New(jverr.InvalidStringChar, p.pos, fmt.Sprintf("unescaped control byte 0x%02X in string", b))
		}
		if err := p.consumeUTF8Byte(); err != nil {
			p.strBuf.Pop(p.strBuf.Len() - base)
			return "", err
		}
	}
}

func (p *parser) consumeUTF8Byte() *jverr.ParseError {
	r, size := utf8.DecodeRune(p.data[p.pos:])
	if r == utf8.RuneError && size <= 1 {
		b := byte(0)
		if p.pos < len(p.data) {
			b = p.data[p.pos]
		}
		return jverr.New(jverr.InvalidStringChar, p.pos, fmt.Sprintf("invalid UTF-8 byte 0x%02X in string", b))
	}
	p.strBuf.PushString(string(p.data[p.pos : p.pos+size]))
	p.pos += size
	return nil
}

func (p *parser) consumeEscape() *jverr.ParseError {
	p.pos++ // consume '\\'
	if p.pos >= len(p.data) {
		return jverr.New(jverr.InvalidStringEscape, p.pos, "unterminated escape sequence")
	}
	b := p.data[p.pos]
	if b == 'u' {
		p.pos++
		return p.consumeUnicodeEscape()
	}
	r, ok := escapedRune(b)
	if !ok {
		return jverr.New(jverr.InvalidStringEscape, p.pos, fmt.Sprintf("invalid escape character %q", string(b)))
	}
	p.pos++
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	p.strBuf.PushString(string(tmp[:n]))
	return nil
}

func escapedRune(b byte) (rune, bool) {
	switch b {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// consumeUnicodeEscape handles \uXXXX, including the trailing low
// surrogate of a surrogate pair. A high surrogate not immediately
// followed by \uXXXX, or not followed by a valid low surrogate, is
// rejected as jverr.InvalidUnicodeSurrogate; likewise a lone low surrogate.
func (p *parser) consumeUnicodeEscape() *jverr.ParseError {
	r1, err := p.readHex4()
	if err != nil {
		return err
	}

	if !utf16.IsSurrogate(r1) {
		p.appendRune(r1)
		return nil
	}
	if r1 >= 0xDC00 {
		return jverr.New(jverr.InvalidUnicodeSurrogate, p.pos, fmt.Sprintf("lone low surrogate U+%04X", r1))
	}

	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return jverr.New(jverr.InvalidUnicodeSurrogate, p.pos, fmt.Sprintf("high surrogate U+%04X not followed by \\u", r1))
	}
	p.pos += 2

	r2, err := p.readHex4()
	if err != nil {
		return err
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return jverr.New(jverr.InvalidUnicodeSurrogate, p.pos, fmt.Sprintf("high surrogate U+%04X not followed by a low surrogate", r1))
	}

	decoded := utf16.DecodeRune(r1, r2)
	p.appendRune(decoded)
	return nil
}

func (p *parser) appendRune(r rune) {
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	p.strBuf.PushString(string(tmp[:n]))
}

func (p *parser) readHex4() (rune, *jverr.ParseError) {
	if p.pos+4 > len(p.data) {
		return 0, jverr.New(jverr.InvalidUnicodeHex, p.pos, "incomplete \\u escape")
	}
	hex := string(p.data[p.pos : p.pos+4])
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, jverr.New(jverr.InvalidUnicodeHex, p.pos, fmt.Sprintf("invalid hex digits %q in \\u escape", hex))
	}
	p.pos += 4
	return rune(val), nil
}

// parseArray stages elements on the shared value stack so deep sibling
// arrays don't each pay for an independent growing slice; on close, the
// staged region is copied into an exact-size final slice.
func (p *parser) parseArray() (*jvalue.Value, *jverr.ParseError) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.pos++ // consume '['
	p.skipWhitespace()

	base := p.vals.Len()

	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		v := &jvalue.Value{}
		v.SetArray(0)
		return v, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			p.vals.Pop(p.vals.Len() - base)
			return nil, err
		}
		p.vals.Push(*elem)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			p.vals.Pop(p.vals.Len() - base)
			return nil, jverr.New(jverr.MissCommaOrSquareBracket, p.pos, "unexpected end of input in array")
		}
		if c == ']' {
			p.pos++
			elems := p.vals.Pop(p.vals.Len() - base)
			v := &jvalue.Value{}
			v.SetArray(len(elems))
			v.Elems = append(v.Elems, elems...)
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		p.vals.Pop(p.vals.Len() - base)
		return nil, jverr.New(jverr.MissCommaOrSquareBracket, p.pos, fmt.Sprintf("expected ',' or ']', got %q", string(c)))
	}
}

// parseObject stages members on the shared member stack. Per the
// library's permissive-duplicate-key contract, a repeated key is kept
// rather than rejected: all members survive in parse order, leaving
// duplicate resolution to jvtree's set_value/find_index semantics.
func (p *parser) parseObject() (*jvalue.Value, *jverr.ParseError) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.pos++ // consume '{'
	p.skipWhitespace()

	base := p.mems.Len()

	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		v := &jvalue.Value{}
		v.SetObject(0)
		return v, nil
	}

	for {
		p.skipWhitespace()
		if c, ok := p.peek(); !ok || c != '"' {
			p.mems.Pop(p.mems.Len() - base)
			if !ok {
				return nil, jverr.New(jverr.MissKey, p.pos, "unexpected end of input, expected key")
			}
			return nil, jverr.New(jverr.MissKey, p.pos, fmt.Sprintf("expected string key, got %q", string(c)))
		}
		key, err := p.parseStringBytes()
		if err != nil {
			p.mems.Pop(p.mems.Len() - base)
			return nil, err
		}

		p.skipWhitespace()
		if c, ok := p.peek(); !ok || c != ':' {
			p.mems.Pop(p.mems.Len() - base)
			return nil, jverr.New(jverr.MissColon, p.pos, "expected ':' after object key")
		}
		p.pos++
		p.skipWhitespace()

		val, err := p.parseValue()
		if err != nil {
			p.mems.Pop(p.mems.Len() - base)
			return nil, err
		}
		p.mems.Push(jvalue.Member{Key: key, Value: *val})

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			p.mems.Pop(p.mems.Len() - base)
			return nil, jverr.New(jverr.MissCommaOrCurlyBracket, p.pos, "unexpected end of input in object")
		}
		if c == '}' {
			p.pos++
			members := p.mems.Pop(p.mems.Len() - base)
			v := &jvalue.Value{}
			v.SetObject(len(members))
			v.Members = append(v.Members, members...)
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		p.mems.Pop(p.mems.Len() - base)
		return nil, jverr.New(jverr.MissCommaOrCurlyBracket, p.pos, fmt.Sprintf("expected ',' or '}', got %q", string(c)))
	}
}
