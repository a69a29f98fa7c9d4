package lite3

import (
	"strconv"
	"unicode/utf8"
)

// JSONDecode parses JSON text into the caller-supplied buffer, producing
// a root object or array at offset 0, and returns the buffer extended to
// the used length. The buffer is never reallocated; if its capacity is
// insufficient the call fails with ErrCapacity. On any error the
// buffer's logical content is undefined (bounded-mode contract).
//
// Only objects and arrays are accepted at the top level. Integer
// literals that fit become Int64 values; all other numbers become
// Float64 (integers beyond the int64 range lose precision the same way
// they do in every double-based JSON reader).
func JSONDecode(buf []byte, text []byte) ([]byte, error) {
	if !jsonEnabled {
		return buf, ErrJSONDisabled
	}
	p := jsonParser{s: text, b: builder{buf: buf[:0]}}
	if err := p.parseDocument(); err != nil {
		return buf, err
	}
	return p.b.buf, nil
}

// JSONDecode replaces the document's content with the parsed form of
// text. On error the document is unchanged.
func (d *Doc) JSONDecode(text []byte) error {
	if !jsonEnabled {
		return ErrJSONDisabled
	}
	if d.maxSize == 0 {
		d.maxSize = DefaultMaxSize
	}
	p := jsonParser{s: text, b: newGrowableBuilder(len(text)+containerHdrSize, d.maxSize)}
	if err := p.parseDocument(); err != nil {
		return err
	}
	d.buf = p.b.buf
	d.gen++
	return nil
}

type jsonParser struct {
	s []byte
	i int
	b builder
}

// valSink names the container a decoded value lands in: a key slot of an
// object, or the tail of an array. Shared by the JSON and MessagePack
// importers.
type valSink struct {
	ofs int
	key string
	arr bool
}

func emitVal(b *builder, sink valSink, v val) error {
	if sink.arr {
		return b.do(func(buf []byte) ([]byte, error) {
			buf, _, err := arrAppend(buf, sink.ofs, v)
			return buf, err
		})
	}
	return b.do(func(buf []byte) ([]byte, error) {
		buf, _, err := setKey(buf, sink.ofs, sink.key, v)
		return buf, err
	})
}

func emitContainer(b *builder, sink valSink, tag byte) (int, error) {
	if sink.arr {
		return b.doOfs(func(buf []byte) ([]byte, int, error) {
			return arrAppend(buf, sink.ofs, val{tag: tag})
		})
	}
	return b.doOfs(func(buf []byte) ([]byte, int, error) {
		return setKey(buf, sink.ofs, sink.key, val{tag: tag})
	})
}

func (p *jsonParser) parseDocument() error {
	p.skipWS()
	if p.i >= len(p.s) {
		return syntaxErrf(p.i, "empty input")
	}
	var rootErr error
	switch p.s[p.i] {
	case '{':
		p.i++
		rootErr = p.b.do(InitObject)
		if rootErr == nil {
			rootErr = p.parseObject(0, 1)
		}
	case '[':
		p.i++
		rootErr = p.b.do(InitArray)
		if rootErr == nil {
			rootErr = p.parseArray(0, 1)
		}
	default:
		return syntaxErrf(p.i, "document root must be an object or array, got %q", p.s[p.i])
	}
	if rootErr != nil {
		return rootErr
	}
	p.skipWS()
	if p.i < len(p.s) {
		return syntaxErrf(p.i, "unexpected trailing data")
	}
	return nil
}

func (p *jsonParser) skipWS() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}

// parseObject parses the body of an object; the opening brace has been
// consumed, ofs is the already-written container.
func (p *jsonParser) parseObject(ofs int, depth int) error {
	if depth > MaxDepth {
		return ErrDepthLimit
	}
	p.skipWS()
	if p.i >= len(p.s) {
		return syntaxErrf(p.i, "unexpected end of object")
	}
	if p.s[p.i] == '}' {
		p.i++
		return nil
	}
	for {
		p.skipWS()
		if p.i >= len(p.s) || p.s[p.i] != '"' {
			return syntaxErrf(p.i, "object key must be a string")
		}
		key, err := p.parseString()
		if err != nil {
			return err
		}
		p.skipWS()
		if p.i >= len(p.s) || p.s[p.i] != ':' {
			return syntaxErrf(p.i, "missing ':' after object key")
		}
		p.i++
		if err := p.parseValue(valSink{ofs: ofs, key: string(key)}, depth); err != nil {
			return err
		}
		p.skipWS()
		if p.i >= len(p.s) {
			return syntaxErrf(p.i, "unexpected end of object")
		}
		switch p.s[p.i] {
		case ',':
			p.i++
		case '}':
			p.i++
			return nil
		default:
			return syntaxErrf(p.i, "expected ',' or '}' in object, got %q", p.s[p.i])
		}
	}
}

// parseArray parses the body of an array; the opening bracket has been
// consumed.
func (p *jsonParser) parseArray(ofs int, depth int) error {
	if depth > MaxDepth {
		return ErrDepthLimit
	}
	p.skipWS()
	if p.i >= len(p.s) {
		return syntaxErrf(p.i, "unexpected end of array")
	}
	if p.s[p.i] == ']' {
		p.i++
		return nil
	}
	for {
		if err := p.parseValue(valSink{ofs: ofs, arr: true}, depth); err != nil {
			return err
		}
		p.skipWS()
		if p.i >= len(p.s) {
			return syntaxErrf(p.i, "unexpected end of array")
		}
		switch p.s[p.i] {
		case ',':
			p.i++
		case ']':
			p.i++
			return nil
		default:
			return syntaxErrf(p.i, "expected ',' or ']' in array, got %q", p.s[p.i])
		}
	}
}

func (p *jsonParser) parseValue(sink valSink, depth int) error {
	p.skipWS()
	if p.i >= len(p.s) {
		return syntaxErrf(p.i, "unexpected end of input")
	}
	switch c := p.s[p.i]; {
	case c == '{':
		p.i++
		childOfs, err := p.emitContainer(sink, tagObject)
		if err != nil {
			return err
		}
		return p.parseObject(childOfs, depth+1)
	case c == '[':
		p.i++
		childOfs, err := p.emitContainer(sink, tagArray)
		if err != nil {
			return err
		}
		return p.parseArray(childOfs, depth+1)
	case c == '"':
		v, err := p.parseString()
		if err != nil {
			return err
		}
		return p.emit(sink, val{tag: tagString, s: v})
	case c == 't':
		if err := p.literal("true"); err != nil {
			return err
		}
		return p.emit(sink, val{tag: tagBool, b: true})
	case c == 'f':
		if err := p.literal("false"); err != nil {
			return err
		}
		return p.emit(sink, val{tag: tagBool, b: false})
	case c == 'n':
		if err := p.literal("null"); err != nil {
			return err
		}
		return p.emit(sink, val{tag: tagNull})
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber(sink)
	default:
		return syntaxErrf(p.i, "unexpected character %q", c)
	}
}

func (p *jsonParser) literal(lit string) error {
	if p.i+len(lit) > len(p.s) || string(p.s[p.i:p.i+len(lit)]) != lit {
		return syntaxErrf(p.i, "invalid literal")
	}
	p.i += len(lit)
	return nil
}

func (p *jsonParser) emit(sink valSink, v val) error {
	return emitVal(&p.b, sink, v)
}

func (p *jsonParser) emitContainer(sink valSink, tag byte) (int, error) {
	return emitContainer(&p.b, sink, tag)
}

// parseString parses a quoted string. The fast path returns a subslice
// of the input; the slow path unescapes into a fresh buffer.
func (p *jsonParser) parseString() ([]byte, error) {
	// opening quote
	p.i++
	start := p.i
	s := p.s
	for p.i < len(s) {
		c := s[p.i]
		if c == '"' {
			v := s[start:p.i]
			p.i++
			return v, nil
		}
		if c == '\\' {
			return p.parseStringSlow(start)
		}
		if c < 0x20 {
			return nil, syntaxErrf(p.i, "invalid control character 0x%02x in string", c)
		}
		p.i++
	}
	return nil, syntaxErrf(p.i, "unterminated string")
}

// parseStringSlow re-parses from the content start, handling escapes.
func (p *jsonParser) parseStringSlow(start int) ([]byte, error) {
	s := p.s
	buf := make([]byte, 0, len(s)-start)
	buf = append(buf, s[start:p.i]...)
	for p.i < len(s) {
		c := s[p.i]
		if c == '"' {
			p.i++
			return buf, nil
		}
		if c < 0x20 {
			return nil, syntaxErrf(p.i, "invalid control character 0x%02x in string", c)
		}
		if c != '\\' {
			buf = append(buf, c)
			p.i++
			continue
		}
		p.i++
		if p.i >= len(s) {
			return nil, syntaxErrf(p.i, "unterminated escape sequence")
		}
		switch s[p.i] {
		case '"', '\\', '/':
			buf = append(buf, s[p.i])
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			r, size, err := p.hexRune()
			if err != nil {
				return nil, err
			}
			buf = utf8.AppendRune(buf, r)
			p.i += size
		default:
			return nil, syntaxErrf(p.i, "invalid escape character %q", s[p.i])
		}
		p.i++
	}
	return nil, syntaxErrf(p.i, "unterminated string")
}

// hexRune parses \uXXXX at p.i (positioned on the 'u'), including
// surrogate pairs, returning the rune and how far past 'u' it extends.
func (p *jsonParser) hexRune() (rune, int, error) {
	s := p.s[p.i+1:]
	if len(s) < 4 {
		return 0, 0, syntaxErrf(p.i, "truncated unicode escape")
	}
	r1 := hexDigits4(s)
	if r1 < 0 {
		return 0, 0, syntaxErrf(p.i, "invalid unicode escape")
	}
	if r1 < 0xD800 || r1 > 0xDFFF {
		return r1, 4, nil
	}
	if r1 > 0xDBFF {
		return 0, 0, syntaxErrf(p.i, "unexpected low surrogate")
	}
	if len(s) < 10 || s[4] != '\\' || s[5] != 'u' {
		return 0, 0, syntaxErrf(p.i, "missing low surrogate")
	}
	r2 := hexDigits4(s[6:])
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, 0, syntaxErrf(p.i, "invalid low surrogate")
	}
	return 0x10000 + (r1-0xD800)<<10 + (r2 - 0xDC00), 10, nil
}

func hexDigits4(s []byte) rune {
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return -1
		}
	}
	return r
}

func (p *jsonParser) parseNumber(sink valSink) error {
	s := p.s
	start := p.i
	isFloat := false
	if p.i < len(s) && s[p.i] == '-' {
		p.i++
	}
	switch {
	case p.i >= len(s):
		return syntaxErrf(p.i, "unexpected end of number")
	case s[p.i] == '0':
		p.i++
	case s[p.i] >= '1' && s[p.i] <= '9':
		for p.i < len(s) && s[p.i] >= '0' && s[p.i] <= '9' {
			p.i++
		}
	default:
		return syntaxErrf(p.i, "invalid number")
	}
	if p.i < len(s) && s[p.i] == '.' {
		isFloat = true
		p.i++
		if p.i >= len(s) || s[p.i] < '0' || s[p.i] > '9' {
			return syntaxErrf(p.i, "missing digit after decimal point")
		}
		for p.i < len(s) && s[p.i] >= '0' && s[p.i] <= '9' {
			p.i++
		}
	}
	if p.i < len(s) && (s[p.i] == 'e' || s[p.i] == 'E') {
		isFloat = true
		p.i++
		if p.i < len(s) && (s[p.i] == '+' || s[p.i] == '-') {
			p.i++
		}
		if p.i >= len(s) || s[p.i] < '0' || s[p.i] > '9' {
			return syntaxErrf(p.i, "missing digit in exponent")
		}
		for p.i < len(s) && s[p.i] >= '0' && s[p.i] <= '9' {
			p.i++
		}
	}
	lit := string(s[start:p.i])
	if !isFloat {
		if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return p.emit(sink, val{tag: tagInt, i: v})
		}
		// out of int64 range, fall through to float
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return syntaxErrf(start, "invalid number %q", lit)
	}
	return p.emit(sink, val{tag: tagFloat, f: v})
}
