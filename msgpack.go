package lite3

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MsgpackEncode serializes the container at ofs to MessagePack. Unlike
// JSON, every value kind has a native representation: Bytes values map
// to bin, and non-finite floats encode as-is.
func MsgpackEncode(buf []byte, ofs int) ([]byte, error) {
	if _, err := readContainer(buf, ofs); err != nil {
		return nil, err
	}
	var bb bytesBuilder
	enc := msgpack.GetEncoder()
	enc.ResetDict(&bb, nil)
	err := msgpackEncodeValue(enc, buf, ofs, 1)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, err
	}
	return bb.Buf, nil
}

// MsgpackEncode serializes the document root to MessagePack.
func (d *Doc) MsgpackEncode() ([]byte, error) {
	return MsgpackEncode(d.buf, 0)
}

func msgpackEncodeValue(enc *msgpack.Encoder, buf []byte, ofs int, depth int) error {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return err
	}
	switch tag {
	case tagNull:
		return enc.EncodeNil()
	case tagBool:
		v, err := readBool(buf, ofs)
		if err != nil {
			return err
		}
		return enc.EncodeBool(v)
	case tagInt:
		v, err := readInt(buf, ofs)
		if err != nil {
			return err
		}
		return enc.EncodeInt(v)
	case tagFloat:
		v, err := readFloat(buf, ofs)
		if err != nil {
			return err
		}
		return enc.EncodeFloat64(v)
	case tagString:
		off, n, err := strRefAt(buf, ofs, tagString)
		if err != nil {
			return err
		}
		return enc.EncodeString(string(buf[off : off+n]))
	case tagBytes:
		off, n, err := strRefAt(buf, ofs, tagBytes)
		if err != nil {
			return err
		}
		return enc.EncodeBytes(buf[off : off+n])
	case tagObject, tagArray:
		if depth > MaxDepth {
			return ErrDepthLimit
		}
		c, err := readContainer(buf, ofs)
		if err != nil {
			return err
		}
		if tag == tagObject {
			if err := enc.EncodeMapLen(int(c.count)); err != nil {
				return err
			}
		} else {
			if err := enc.EncodeArrayLen(int(c.count)); err != nil {
				return err
			}
		}
		it, err := NewIter(buf, ofs)
		if err != nil {
			return err
		}
		for it.Next(buf) {
			if tag == tagObject {
				if err := enc.EncodeString(string(it.Key())); err != nil {
					return err
				}
			}
			if err := msgpackEncodeValue(enc, buf, it.Offset(), depth+1); err != nil {
				return err
			}
		}
		return it.Err()
	default:
		return corruptErrf(buf, ofs, "unknown value tag 0x%02x", tag)
	}
}

// MsgpackDecode replaces the document's content with the parsed form of
// a MessagePack document. Map entry order is preserved as read; on
// error the document is unchanged.
func (d *Doc) MsgpackDecode(data []byte) error {
	if d.maxSize == 0 {
		d.maxSize = DefaultMaxSize
	}
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	b := newGrowableBuilder(len(data)+containerHdrSize, d.maxSize)
	err := msgpackDecodeRoot(dec, &b)
	msgpack.PutDecoder(dec)
	if err != nil {
		return err
	}
	d.buf = b.buf
	d.gen++
	return nil
}

func msgpackDecodeRoot(dec *msgpack.Decoder, b *builder) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		if err := b.do(InitObject); err != nil {
			return err
		}
		return msgpackDecodeMap(dec, b, 0, 1)
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		if err := b.do(InitArray); err != nil {
			return err
		}
		return msgpackDecodeArray(dec, b, 0, 1)
	default:
		return fmt.Errorf("msgpack document root must be a map or array, got code 0x%02x", c)
	}
}

func msgpackDecodeMap(dec *msgpack.Decoder, b *builder, ofs int, depth int) error {
	if depth > MaxDepth {
		return ErrDepthLimit
	}
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		if err := msgpackDecodeValue(dec, b, valSink{ofs: ofs, key: key}, depth); err != nil {
			return err
		}
	}
	return nil
}

func msgpackDecodeArray(dec *msgpack.Decoder, b *builder, ofs int, depth int) error {
	if depth > MaxDepth {
		return ErrDepthLimit
	}
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := msgpackDecodeValue(dec, b, valSink{ofs: ofs, arr: true}, depth); err != nil {
			return err
		}
	}
	return nil
}

func msgpackDecodeValue(dec *msgpack.Decoder, b *builder, sink valSink, depth int) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagNull})
	case c == msgpcode.True || c == msgpcode.False:
		v, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagBool, b: v})
	case msgpcode.IsFixedNum(c) || c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64:
		v, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagInt, i: v})
	case c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		if u > math.MaxInt64 {
			return emitVal(b, sink, val{tag: tagFloat, f: float64(u)})
		}
		return emitVal(b, sink, val{tag: tagInt, i: int64(u)})
	case c == msgpcode.Float || c == msgpcode.Double:
		v, err := dec.DecodeFloat64()
		if err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagFloat, f: v})
	case msgpcode.IsString(c):
		v, err := dec.DecodeString()
		if err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagString, s: []byte(v)})
	case msgpcode.IsBin(c):
		v, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		return emitVal(b, sink, val{tag: tagBytes, s: v})
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		childOfs, err := emitContainer(b, sink, tagObject)
		if err != nil {
			return err
		}
		return msgpackDecodeMap(dec, b, childOfs, depth+1)
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		childOfs, err := emitContainer(b, sink, tagArray)
		if err != nil {
			return err
		}
		return msgpackDecodeArray(dec, b, childOfs, depth+1)
	default:
		return fmt.Errorf("unsupported msgpack code 0x%02x", c)
	}
}
