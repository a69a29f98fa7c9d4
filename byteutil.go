package lite3

import (
	"encoding/binary"
	"io"
)

// growCapacity reallocates buf with roughly double the capacity (with a
// floor), clamped to maxSize. Fails with ErrTooLarge once the buffer
// cannot grow any further. Doc and builder both grow through this.
func growCapacity(buf []byte, maxSize int) ([]byte, error) {
	newCap := cap(buf) * 2
	if newCap < defaultDocCapacity {
		newCap = defaultDocCapacity
	}
	if newCap > maxSize {
		newCap = maxSize
	}
	if newCap <= cap(buf) {
		return nil, ErrTooLarge
	}
	newBuf := make([]byte, len(buf), newCap)
	copy(newBuf, buf)
	return newBuf, nil
}

// growChecked extends buf by n bytes within its existing capacity,
// returning the offset of the new region. Fails with ErrCapacity without
// touching the buffer if the capacity is insufficient.
func growChecked(buf []byte, n int) (int, []byte, error) {
	off := len(buf)
	if off+n > cap(buf) {
		return 0, buf, ErrCapacity
	}
	return off, buf[:off+n], nil
}

type bytesBuilder struct {
	Buf []byte
}

var _ io.Writer = (*bytesBuilder)(nil)

func (bb *bytesBuilder) Write(b []byte) (int, error) {
	bb.Buf = append(bb.Buf, b...)
	return len(b), nil
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func putU64(buf []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(buf[off:], v)
}

// readU32 is the bounds-checked read behind every length and link field.
func readU32(buf []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, corruptErrf(buf, off, "truncated u32")
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

func readU64(buf []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(buf) {
		return 0, corruptErrf(buf, off, "truncated u64")
	}
	return binary.LittleEndian.Uint64(buf[off:]), nil
}

// readDelta resolves a self-relative u32 link field at off. Returns 0 for
// a zero delta (“none”); otherwise the absolute target offset, validated
// to land inside the buffer.
func readDelta(buf []byte, off int) (int, error) {
	d, err := readU32(buf, off)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, nil
	}
	target := off + int(d)
	if target >= len(buf) {
		return 0, corruptErrf(buf, off, "link target %d beyond buffer length %d", target, len(buf))
	}
	return target, nil
}

// putDelta writes the self-relative link field at off pointing at target.
func putDelta(buf []byte, off, target int) {
	if target == 0 {
		putU32(buf, off, 0)
	} else {
		putU32(buf, off, uint32(target-off))
	}
}
