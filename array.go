package lite3

// AppendNull appends null to the array at ofs, returning the buffer
// extended to the new used length.
func AppendNull(buf []byte, ofs int) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagNull})
	return buf, err
}

// AppendBool appends a bool to the array at ofs.
func AppendBool(buf []byte, ofs int, v bool) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagBool, b: v})
	return buf, err
}

// AppendInt64 appends an int64 to the array at ofs.
func AppendInt64(buf []byte, ofs int, v int64) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagInt, i: v})
	return buf, err
}

// AppendFloat64 appends a float64 to the array at ofs.
func AppendFloat64(buf []byte, ofs int, v float64) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagFloat, f: v})
	return buf, err
}

// AppendStr appends a string to the array at ofs.
func AppendStr(buf []byte, ofs int, v string) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagString, s: []byte(v)})
	return buf, err
}

// AppendStrBytes appends a string to the array at ofs, taking the UTF-8
// payload as a byte slice to avoid a conversion copy.
func AppendStrBytes(buf []byte, ofs int, v []byte) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagString, s: v})
	return buf, err
}

// AppendBytes appends a binary blob to the array at ofs.
func AppendBytes(buf []byte, ofs int, v []byte) ([]byte, error) {
	buf, _, err := arrAppend(buf, ofs, val{tag: tagBytes, s: v})
	return buf, err
}

// AppendObject appends a new empty object to the array at ofs and
// returns its offset for further population.
func AppendObject(buf []byte, ofs int) ([]byte, int, error) {
	return arrAppend(buf, ofs, val{tag: tagObject})
}

// AppendArray appends a new empty array to the array at ofs and returns
// its offset for further population.
func AppendArray(buf []byte, ofs int) ([]byte, int, error) {
	return arrAppend(buf, ofs, val{tag: tagArray})
}

func arrAppend(buf []byte, ofs int, v val) ([]byte, int, error) {
	if !payloadFits(uint64(len(v.s))) {
		return buf, 0, ErrTooLarge
	}
	c, err := readContainer(buf, ofs)
	if err != nil {
		return buf, 0, err
	}
	if c.tag != tagArray {
		return buf, 0, ErrTypeMismatch
	}
	need := arrEntryHdrSize + v.encodedSize()
	eOff, buf, err := growChecked(buf, need)
	if err != nil {
		return buf, 0, err
	}
	valOff := eOff + arrEntryHdrSize
	putU32(buf, eOff+entryNextOff, 0)
	putDelta(buf, eOff+entryValOff, valOff)
	writeValAt(buf, valOff, v)
	linkEntry(buf, c, eOff)
	return buf, valOff, nil
}

// arrEntryAt walks the chain to the entry at the given index.
func arrEntryAt(buf []byte, ofs int, index int) (entry, error) {
	c, err := readContainer(buf, ofs)
	if err != nil {
		return entry{}, err
	}
	if c.tag != tagArray {
		return entry{}, ErrTypeMismatch
	}
	if index < 0 || uint32(index) >= c.count {
		return entry{}, ErrIndexOutOfRange
	}
	cur := c.head
	for i := 0; ; i++ {
		if cur == 0 {
			return entry{}, corruptErrf(buf, ofs, "array chain ends at %d of %d entries", i, c.count)
		}
		e, err := readEntry(buf, cur, false)
		if err != nil {
			return entry{}, err
		}
		if i == index {
			return e, nil
		}
		cur = e.next
	}
}

// ArrGetType returns the variant of the array element at index.
func ArrGetType(buf []byte, ofs int, index int) (Type, error) {
	e, err := arrEntryAt(buf, ofs, index)
	if err != nil {
		return 0, err
	}
	return TypeAt(buf, e.val)
}

// ArrGetBool returns the bool element at index of the array at ofs.
func ArrGetBool(buf []byte, ofs int, index int) (bool, error) {
	e, err := arrEntryAt(buf, ofs, index)
	if err != nil {
		return false, err
	}
	return readBool(buf, e.val)
}

// ArrGetInt64 returns the int64 element at index of the array at ofs.
func ArrGetInt64(buf []byte, ofs int, index int) (int64, error) {
	e, err := arrEntryAt(buf, ofs, index)
	if err != nil {
		return 0, err
	}
	return readInt(buf, e.val)
}

// ArrGetFloat64 returns the float64 element at index of the array at ofs.
func ArrGetFloat64(buf []byte, ofs int, index int) (float64, error) {
	e, err := arrEntryAt(buf, ofs, index)
	if err != nil {
		return 0, err
	}
	return readFloat(buf, e.val)
}

// ArrGetStr returns the string element at index of the array at ofs.
// The returned slice borrows from buf; see GetStr.
func ArrGetStr(buf []byte, ofs int, index int) ([]byte, error) {
	off, n, err := arrGetStrRef(buf, ofs, index, tagString)
	if err != nil {
		return nil, err
	}
	return buf[off : off+n : off+n], nil
}

// ArrGetBytes returns the byte blob element at index of the array at ofs.
// The returned slice borrows from buf; see GetStr.
func ArrGetBytes(buf []byte, ofs int, index int) ([]byte, error) {
	off, n, err := arrGetStrRef(buf, ofs, index, tagBytes)
	if err != nil {
		return nil, err
	}
	return buf[off : off+n : off+n], nil
}

func arrGetStrRef(buf []byte, ofs int, index int, wantTag byte) (int, int, error) {
	e, err := arrEntryAt(buf, ofs, index)
	if err != nil {
		return 0, 0, err
	}
	return strRefAt(buf, e.val, wantTag)
}

// ArrGetObject returns the offset of the object element at index of the
// array at ofs.
func ArrGetObject(buf []byte, ofs int, index int) (int, error) {
	return arrGetContainer(buf, ofs, index, tagObject)
}

// ArrGetArray returns the offset of the array element at index of the
// array at ofs.
func ArrGetArray(buf []byte, ofs int, index int) (int, error) {
	return arrGetContainer(buf, ofs, index, tagArray)
}

func arrGetContainer(buf []byte, ofs int, index int, wantTag byte) (int, error) {
	e, err := arrEntryAt(buf, ofs, index)
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
