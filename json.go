package lite3

import (
	"math"
	"strconv"
	"strings"
)

// JSONEncode serializes the subtree rooted at ofs into compact JSON text.
//
// Int64 values render as integer literals; Float64 values render in a
// shortest form that parses back to the same bit pattern, always with a
// fractional or exponent part so they decode back as floats. Bytes
// values and NaN/infinite floats have no JSON representation and fail
// with ErrJSONUnsupported.
func JSONEncode(buf []byte, ofs int) ([]byte, error) {
	return jsonEncode(buf, ofs, false)
}

// JSONEncodePretty is JSONEncode with two-space indentation.
func JSONEncodePretty(buf []byte, ofs int) ([]byte, error) {
	return jsonEncode(buf, ofs, true)
}

func jsonEncode(buf []byte, ofs int, pretty bool) ([]byte, error) {
	if !jsonEnabled {
		return nil, ErrJSONDisabled
	}
	w := jsonWriter{pretty: pretty}
	if err := w.writeValue(buf, ofs, 0); err != nil {
		return nil, err
	}
	return w.out, nil
}

// JSONEncodeTo serializes the subtree at ofs into dst, returning the
// required length. If dst is too small nothing is written past its
// bounds; call again with a buffer of the returned size.
func JSONEncodeTo(buf []byte, ofs int, dst []byte) (int, error) {
	text, err := JSONEncode(buf, ofs)
	if err != nil {
		return 0, err
	}
	if len(text) <= len(dst) {
		copy(dst, text)
	}
	return len(text), nil
}

// JSONEncode serializes the subtree rooted at ofs into compact JSON text.
func (d *Doc) JSONEncode(ofs int) ([]byte, error) {
	return JSONEncode(d.buf, ofs)
}

// JSONEncodePretty is JSONEncode with two-space indentation.
func (d *Doc) JSONEncodePretty(ofs int) ([]byte, error) {
	return JSONEncodePretty(d.buf, ofs)
}

type jsonWriter struct {
	out    []byte
	pretty bool
}

func (w *jsonWriter) writeValue(buf []byte, ofs int, depth int) error {
	if depth > MaxDepth {
		return ErrDepthLimit
	}
	tag, err := readTag(buf, ofs)
	if err != nil {
		return err
	}
	switch tag {
	case tagNull:
		w.out = append(w.out, "null"...)
	case tagBool:
		v, err := readBool(buf, ofs)
		if err != nil {
			return err
		}
		if v {
			w.out = append(w.out, "true"...)
		} else {
			w.out = append(w.out, "false"...)
		}
	case tagInt:
		v, err := readInt(buf, ofs)
		if err != nil {
			return err
		}
		w.out = strconv.AppendInt(w.out, v, 10)
	case tagFloat:
		v, err := readFloat(buf, ofs)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrJSONUnsupported
		}
		w.writeFloat(v)
	case tagString:
		off, n, err := strRefAt(buf, ofs, tagString)
		if err != nil {
			return err
		}
		w.writeQuoted(buf[off : off+n])
	case tagBytes:
		return ErrJSONUnsupported
	case tagObject, tagArray:
		return w.writeContainer(buf, ofs, tag, depth)
	default:
		panic("unreachable")
	}
	return nil
}

func (w *jsonWriter) writeContainer(buf []byte, ofs int, tag byte, depth int) error {
	lb, rb := byte('{'), byte('}')
	if tag == tagArray {
		lb, rb = '[', ']'
	}
	it, err := NewIter(buf, ofs)
	if err != nil {
		return err
	}
	w.out = append(w.out, lb)
	first := true
	for it.Next(buf) {
		if !first {
			w.out = append(w.out, ',')
		}
		first = false
		w.newlineIndent(depth + 1)
		if tag == tagObject {
			w.writeQuoted(it.Key())
			w.out = append(w.out, ':')
			if w.pretty {
				w.out = append(w.out, ' ')
			}
		}
		if err := w.writeValue(buf, it.Offset(), depth+1); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	if !first {
		w.newlineIndent(depth)
	}
	w.out = append(w.out, rb)
	return nil
}

func (w *jsonWriter) newlineIndent(depth int) {
	if !w.pretty {
		return
	}
	w.out = append(w.out, '\n')
	w.out = append(w.out, strings.Repeat("  ", depth)...)
}

// writeFloat renders v so that parsing the text yields the same bits.
// Integral values get a trailing ".0" so they decode back as floats
// rather than ints.
func (w *jsonWriter) writeFloat(v float64) {
	start := len(w.out)
	w.out = strconv.AppendFloat(w.out, v, 'g', -1, 64)
	lit := w.out[start:]
	for _, c := range lit {
		if c == '.' || c == 'e' || c == 'E' {
			return
		}
	}
	w.out = append(w.out, '.', '0')
}

const jsonHexDigits = "0123456789abcdef"

// writeQuoted appends s as a quoted JSON string, escaping quotes,
// backslashes and control characters. Payload bytes pass through
// otherwise (strings are UTF-8 by convention).
func (w *jsonWriter) writeQuoted(s []byte) {
	w.out = append(w.out, '"')
	needsEscape := false
	for _, c := range s {
		if c < 0x20 || c == '"' || c == '\\' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		w.out = append(w.out, s...)
		w.out = append(w.out, '"')
		return
	}
	for _, c := range s {
		switch {
		case c == '"':
			w.out = append(w.out, '\\', '"')
		case c == '\\':
			w.out = append(w.out, '\\', '\\')
		case c == '\n':
			w.out = append(w.out, '\\', 'n')
		case c == '\r':
			w.out = append(w.out, '\\', 'r')
		case c == '\t':
			w.out = append(w.out, '\\', 't')
		case c < 0x20:
			w.out = append(w.out, '\\', 'u', '0', '0', jsonHexDigits[c>>4], jsonHexDigits[c&0xF])
		default:
			w.out = append(w.out, c)
		}
	}
	w.out = append(w.out, '"')
}
