package lite3

import "errors"

// builder runs bounded-mode operations against a buffer that may either
// be fixed (bounded decode into a caller buffer) or growable (decode
// into a fresh owned buffer). The JSON and MessagePack importers build
// documents through it.
type builder struct {
	buf     []byte
	grow    bool
	maxSize int
}

func newGrowableBuilder(sizeHint, maxSize int) builder {
	if sizeHint < defaultDocCapacity {
		sizeHint = defaultDocCapacity
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if sizeHint > maxSize {
		sizeHint = maxSize
	}
	return builder{buf: make([]byte, 0, sizeHint), grow: true, maxSize: maxSize}
}

func (b *builder) do(op func(buf []byte) ([]byte, error)) error {
	for {
		newBuf, err := op(b.buf)
		if err == nil {
			b.buf = newBuf
			return nil
		}
		if !b.grow || !errors.Is(err, ErrCapacity) {
			return err
		}
		grown, err := growCapacity(b.buf, b.maxSize)
		if err != nil {
			return err
		}
		b.buf = grown
	}
}

func (b *builder) doOfs(op func(buf []byte) ([]byte, int, error)) (int, error) {
	var valOfs int
	err := b.do(func(buf []byte) ([]byte, error) {
		buf, ofs, err := op(buf)
		valOfs = ofs
		return buf, err
	})
	return valOfs, err
}
