package lite3

// SetNull stores null under key in the object at ofs, returning the
// buffer extended to the new used length.
func SetNull(buf []byte, ofs int, key string) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagNull})
	return buf, err
}

// SetBool stores a bool under key in the object at ofs.
func SetBool(buf []byte, ofs int, key string, v bool) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagBool, b: v})
	return buf, err
}

// SetInt64 stores an int64 under key in the object at ofs.
func SetInt64(buf []byte, ofs int, key string, v int64) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagInt, i: v})
	return buf, err
}

// SetFloat64 stores a float64 under key in the object at ofs.
func SetFloat64(buf []byte, ofs int, key string, v float64) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagFloat, f: v})
	return buf, err
}

// SetStr stores a string under key in the object at ofs.
func SetStr(buf []byte, ofs int, key string, v string) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagString, s: []byte(v)})
	return buf, err
}

// SetStrBytes stores a string under key in the object at ofs, taking the
// UTF-8 payload as a byte slice to avoid a conversion copy.
func SetStrBytes(buf []byte, ofs int, key string, v []byte) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagString, s: v})
	return buf, err
}

// SetBytes stores a binary blob under key in the object at ofs.
func SetBytes(buf []byte, ofs int, key string, v []byte) ([]byte, error) {
	buf, _, err := setKey(buf, ofs, key, val{tag: tagBytes, s: v})
	return buf, err
}

// SetObject stores a new empty object under key in the object at ofs and
// returns its offset for further population.
func SetObject(buf []byte, ofs int, key string) ([]byte, int, error) {
	return setKey(buf, ofs, key, val{tag: tagObject})
}

// SetArray stores a new empty array under key in the object at ofs and
// returns its offset for further population.
func SetArray(buf []byte, ofs int, key string) ([]byte, int, error) {
	return setKey(buf, ofs, key, val{tag: tagArray})
}

// setKey implements last-write-wins object assignment. A same-size value
// overwrites in place; a different-size value is appended at the end of
// the used region and the entry is repointed, leaving the old bytes
// unreachable (space is not reclaimed). Other entries' offsets never
// change. A missing key appends a fresh entry.
//
// Capacity is verified before any byte is written, so a failed call
// leaves the buffer exactly as it was.
func setKey(buf []byte, ofs int, key string, v val) ([]byte, int, error) {
	if !payloadFits(uint64(len(key))) || !payloadFits(uint64(len(v.s))) {
		return buf, 0, ErrTooLarge
	}
	c, err := readContainer(buf, ofs)
	if err != nil {
		return buf, 0, err
	}
	if c.tag != tagObject {
		return buf, 0, ErrTypeMismatch
	}

	cur := c.head
	for i := uint32(0); i < c.count && cur != 0; i++ {
		e, err := readEntry(buf, cur, true)
		if err != nil {
			return buf, 0, err
		}
		if string(e.key) == key {
			return overwriteValue(buf, e, v)
		}
		cur = e.next
	}

	// New entry plus its value, written contiguously at the end.
	need := objEntryHdrSize + len(key) + v.encodedSize()
	eOff, buf, err := growChecked(buf, need)
	if err != nil {
		return buf, 0, err
	}
	valOff := eOff + objEntryHdrSize + len(key)
	putU32(buf, eOff+entryNextOff, 0)
	putDelta(buf, eOff+entryValOff, valOff)
	putU32(buf, eOff+entryKlenOff, uint32(len(key)))
	copy(buf[eOff+objEntryHdrSize:], key)
	writeValAt(buf, valOff, v)
	linkEntry(buf, c, eOff)
	return buf, valOff, nil
}

// overwriteValue replaces the value an entry points at.
func overwriteValue(buf []byte, e entry, v val) ([]byte, int, error) {
	oldSize, err := shallowSize(buf, e.val)
	if err != nil {
		return buf, 0, err
	}
	newSize := v.encodedSize()
	if newSize == oldSize {
		writeValAt(buf, e.val, v)
		return buf, e.val, nil
	}
	valOff, buf, err := growChecked(buf, newSize)
	if err != nil {
		return buf, 0, err
	}
	writeValAt(buf, valOff, v)
	putDelta(buf, e.ofs+entryValOff, valOff)
	return buf, valOff, nil
}

// linkEntry attaches a freshly written entry at eOff to the end of the
// container's chain and bumps the count. All patched fields are
// fixed-width, so this never moves data.
func linkEntry(buf []byte, c container, eOff int) {
	if c.tail != 0 {
		putDelta(buf, c.tail+entryNextOff, eOff)
	} else {
		putDelta(buf, c.ofs+hdrHeadOff, eOff)
	}
	putDelta(buf, c.ofs+hdrTailOff, eOff)
	putU32(buf, c.ofs+hdrCountOff, c.count+1)
}
