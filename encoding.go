package lite3

import "math"

const (
	tagNull   = 0x00
	tagBool   = 0x01
	tagInt    = 0x02
	tagFloat  = 0x03
	tagString = 0x04
	tagBytes  = 0x05
	tagObject = 0x06
	tagArray  = 0x07

	tagMax = tagArray
)

const (
	// object/array value: tag + count:u32 + head:u32 + tail:u32
	containerHdrSize = 13

	hdrCountOff = 1
	hdrHeadOff  = 5
	hdrTailOff  = 9

	// object entry: next:u32 + val:u32 + klen:u32 + key
	objEntryHdrSize = 12
	// array entry: next:u32 + val:u32
	arrEntryHdrSize = 8

	entryNextOff = 0
	entryValOff  = 4
	entryKlenOff = 8
)

// payloadFits reports whether a string, bytes or key length fits the
// u32 length field of the wire format.
func payloadFits(n uint64) bool {
	return n <= math.MaxUint32
}

func readTag(buf []byte, ofs int) (byte, error) {
	if ofs < 0 || ofs >= len(buf) {
		return 0, corruptErrf(buf, ofs, "value offset beyond buffer length %d", len(buf))
	}
	tag := buf[ofs]
	if tag > tagMax {
		return 0, corruptErrf(buf, ofs, "invalid type tag 0x%02x", tag)
	}
	return tag, nil
}

// TypeAt returns the variant of the value stored at ofs.
func TypeAt(buf []byte, ofs int) (Type, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return 0, err
	}
	return Type(tag), nil
}

// val is a scalar or empty-container value about to be written.
type val struct {
	tag byte
	b   bool
	i   int64
	f   float64
	s   []byte // string/bytes payload
}

// encodedSize is the number of bytes the value occupies when written.
func (v val) encodedSize() int {
	switch v.tag {
	case tagNull:
		return 1
	case tagBool:
		return 2
	case tagInt, tagFloat:
		return 9
	case tagString, tagBytes:
		return 5 + len(v.s)
	case tagObject, tagArray:
		return containerHdrSize
	default:
		panic("unreachable")
	}
}

// writeValAt writes v into buf at ofs. The caller has already reserved
// v.encodedSize() bytes there.
func writeValAt(buf []byte, ofs int, v val) {
	buf[ofs] = v.tag
	switch v.tag {
	case tagNull:
	case tagBool:
		if v.b {
			buf[ofs+1] = 1
		} else {
			buf[ofs+1] = 0
		}
	case tagInt:
		putU64(buf, ofs+1, uint64(v.i))
	case tagFloat:
		putU64(buf, ofs+1, math.Float64bits(v.f))
	case tagString, tagBytes:
		putU32(buf, ofs+1, uint32(len(v.s)))
		copy(buf[ofs+5:], v.s)
	case tagObject, tagArray:
		putU32(buf, ofs+hdrCountOff, 0)
		putU32(buf, ofs+hdrHeadOff, 0)
		putU32(buf, ofs+hdrTailOff, 0)
	default:
		panic("unreachable")
	}
}

// shallowSize returns the encoded size of the value at ofs without
// descending into children (containers count their 13-byte header only).
// Used to decide whether an overwrite fits in place.
func shallowSize(buf []byte, ofs int) (int, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return 0, err
	}
	switch tag {
	case tagNull:
		return 1, nil
	case tagBool:
		if ofs+2 > len(buf) {
			return 0, corruptErrf(buf, ofs, "truncated bool")
		}
		return 2, nil
	case tagInt, tagFloat:
		if ofs+9 > len(buf) {
			return 0, corruptErrf(buf, ofs, "truncated %s", Type(tag))
		}
		return 9, nil
	case tagString, tagBytes:
		n, err := readU32(buf, ofs+1)
		if err != nil {
			return 0, err
		}
		if ofs+5+int(n) > len(buf) {
			return 0, corruptErrf(buf, ofs, "%s length %d exceeds buffer length %d", Type(tag), n, len(buf))
		}
		return 5 + int(n), nil
	case tagObject, tagArray:
		if ofs+containerHdrSize > len(buf) {
			return 0, corruptErrf(buf, ofs, "truncated %s header", Type(tag))
		}
		return containerHdrSize, nil
	default:
		panic("unreachable")
	}
}

// container is the decoded header of an object or array value.
type container struct {
	ofs   int
	tag   byte
	count uint32
	head  int // absolute offset of first entry, 0 if empty
	tail  int // absolute offset of last entry, 0 if empty
}

func readContainer(buf []byte, ofs int) (container, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return container{}, err
	}
	if tag != tagObject && tag != tagArray {
		return container{}, ErrTypeMismatch
	}
	if ofs+containerHdrSize > len(buf) {
		return container{}, corruptErrf(buf, ofs, "truncated %s header", Type(tag))
	}
	count, err := readU32(buf, ofs+hdrCountOff)
	if err != nil {
		return container{}, err
	}
	head, err := readDelta(buf, ofs+hdrHeadOff)
	if err != nil {
		return container{}, err
	}
	tail, err := readDelta(buf, ofs+hdrTailOff)
	if err != nil {
		return container{}, err
	}
	if (count == 0) != (head == 0) {
		return container{}, corruptErrf(buf, ofs, "inconsistent %s header: count=%d head=%d", Type(tag), count, head)
	}
	return container{ofs, tag, count, head, tail}, nil
}

// entry is a decoded object or array entry.
type entry struct {
	ofs  int
	next int    // absolute offset of next entry, 0 if last
	val  int    // absolute offset of the entry's value
	key  []byte // borrowed from buf; nil for array entries
}

func readEntry(buf []byte, ofs int, isObj bool) (entry, error) {
	hdrSize := arrEntryHdrSize
	if isObj {
		hdrSize = objEntryHdrSize
	}
	if ofs < 0 || ofs+hdrSize > len(buf) {
		return entry{}, corruptErrf(buf, ofs, "truncated entry")
	}
	next, err := readDelta(buf, ofs+entryNextOff)
	if err != nil {
		return entry{}, err
	}
	val, err := readDelta(buf, ofs+entryValOff)
	if err != nil {
		return entry{}, err
	}
	if val == 0 {
		return entry{}, corruptErrf(buf, ofs, "entry has no value link")
	}
	e := entry{ofs: ofs, next: next, val: val}
	if isObj {
		klen, err := readU32(buf, ofs+entryKlenOff)
		if err != nil {
			return entry{}, err
		}
		keyEnd := ofs + objEntryHdrSize + int(klen)
		if keyEnd > len(buf) {
			return entry{}, corruptErrf(buf, ofs, "key length %d exceeds buffer length %d", klen, len(buf))
		}
		e.key = buf[ofs+objEntryHdrSize : keyEnd]
	}
	return e, nil
}

// InitObject writes an empty root object at offset 0 of an empty buffer
// and returns the buffer extended to the used length.
func InitObject(buf []byte) ([]byte, error) {
	return initRoot(buf, tagObject)
}

// InitArray writes an empty root array at offset 0 of an empty buffer.
func InitArray(buf []byte) ([]byte, error) {
	return initRoot(buf, tagArray)
}

func initRoot(buf []byte, tag byte) ([]byte, error) {
	buf = buf[:0]
	off, buf, err := growChecked(buf, containerHdrSize)
	if err != nil {
		return buf, err
	}
	writeValAt(buf, off, val{tag: tag})
	return buf, nil
}

// Count returns the number of entries of the object or array at ofs.
func Count(buf []byte, ofs int) (int, error) {
	c, err := readContainer(buf, ofs)
	if err != nil {
		return 0, err
	}
	return int(c.count), nil
}
