package lite3

import "math"

// findKey walks the object's entry chain looking for an exact key match.
// The walk is bounded by the stored entry count, so a corrupt chain with
// a cycle cannot loop forever.
func findKey(buf []byte, ofs int, key string) (entry, error) {
	c, err := readContainer(buf, ofs)
	if err != nil {
		return entry{}, err
	}
	if c.tag != tagObject {
		return entry{}, ErrTypeMismatch
	}
	cur := c.head
	for i := uint32(0); i < c.count && cur != 0; i++ {
		e, err := readEntry(buf, cur, true)
		if err != nil {
			return entry{}, err
		}
		if string(e.key) == key {
			return e, nil
		}
		cur = e.next
	}
	return entry{}, ErrKeyNotFound
}

// GetType returns the variant of the value stored under key in the object
// at ofs.
func GetType(buf []byte, ofs int, key string) (Type, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return 0, err
	}
	return TypeAt(buf, e.val)
}

// Exists reports whether the object at ofs has an entry for key.
func Exists(buf []byte, ofs int, key string) bool {
	_, err := findKey(buf, ofs, key)
	return err == nil
}

// GetBool returns the bool stored under key in the object at ofs.
func GetBool(buf []byte, ofs int, key string) (bool, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return false, err
	}
	return readBool(buf, e.val)
}

// GetInt64 returns the int64 stored under key in the object at ofs.
func GetInt64(buf []byte, ofs int, key string) (int64, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return 0, err
	}
	return readInt(buf, e.val)
}

// GetFloat64 returns the float64 stored under key in the object at ofs.
func GetFloat64(buf []byte, ofs int, key string) (float64, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return 0, err
	}
	return readFloat(buf, e.val)
}

// GetStr returns the string stored under key in the object at ofs.
//
// The returned slice borrows from buf and is only valid until the next
// mutating call on the same buffer.
func GetStr(buf []byte, ofs int, key string) ([]byte, error) {
	off, n, err := getStrRef(buf, ofs, key, tagString)
	if err != nil {
		return nil, err
	}
	return buf[off : off+n : off+n], nil
}

// GetBytes returns the byte blob stored under key in the object at ofs.
// The returned slice borrows from buf; see GetStr.
func GetBytes(buf []byte, ofs int, key string) ([]byte, error) {
	off, n, err := getStrRef(buf, ofs, key, tagBytes)
	if err != nil {
		return nil, err
	}
	return buf[off : off+n : off+n], nil
}

// GetObject returns the offset of the object stored under key in the
// object at ofs.
func GetObject(buf []byte, ofs int, key string) (int, error) {
	return getContainer(buf, ofs, key, tagObject)
}

// GetArray returns the offset of the array stored under key in the
// object at ofs.
func GetArray(buf []byte, ofs int, key string) (int, error) {
	return getContainer(buf, ofs, key, tagArray)
}

func getContainer(buf []byte, ofs int, key string, wantTag byte) (int, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return 0, err
	}
	tag, err := readTag(buf, e.val)
	if err != nil {
		return 0, err
	}
	if tag != wantTag {
		return 0, ErrTypeMismatch
	}
	if _, err := readContainer(buf, e.val); err != nil {
		return 0, err
	}
	return e.val, nil
}

func getStrRef(buf []byte, ofs int, key string, wantTag byte) (int, int, error) {
	e, err := findKey(buf, ofs, key)
	if err != nil {
		return 0, 0, err
	}
	return strRefAt(buf, e.val, wantTag)
}

// strRefAt resolves the payload span of the string or bytes value at ofs.
func strRefAt(buf []byte, ofs int, wantTag byte) (int, int, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return 0, 0, err
	}
	if tag != wantTag {
		return 0, 0, ErrTypeMismatch
	}
	n, err := readU32(buf, ofs+1)
	if err != nil {
		return 0, 0, err
	}
	if ofs+5+int(n) > len(buf) {
		return 0, 0, corruptErrf(buf, ofs, "%s length %d exceeds buffer length %d", Type(tag), n, len(buf))
	}
	return ofs + 5, int(n), nil
}

func readBool(buf []byte, ofs int) (bool, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return false, err
	}
	if tag != tagBool {
		return false, ErrTypeMismatch
	}
	if ofs+2 > len(buf) {
		return false, corruptErrf(buf, ofs, "truncated bool")
	}
	return buf[ofs+1] != 0, nil
}

func readInt(buf []byte, ofs int) (int64, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return 0, err
	}
	if tag != tagInt {
		return 0, ErrTypeMismatch
	}
	v, err := readU64(buf, ofs+1)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func readFloat(buf []byte, ofs int) (float64, error) {
	tag, err := readTag(buf, ofs)
	if err != nil {
		return 0, err
	}
	if tag != tagFloat {
		return 0, ErrTypeMismatch
	}
	v, err := readU64(buf, ofs+1)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
