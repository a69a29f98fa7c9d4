package lite3

import "errors"

const (
	defaultDocCapacity = 256

	// DefaultMaxSize caps Doc growth unless overridden with SetMaxSize.
	DefaultMaxSize = 1 << 30
)

// Doc is a growable owned document buffer. It wraps the bounded
// accessors with transparent reallocation: when an operation runs out of
// capacity, the buffer is reallocated (doubling, with a floor) and the
// operation retried. Growth copies all existing bytes, so offsets into
// the document remain valid; previously resolved Views do not (see View).
//
// A Doc is not safe for concurrent use.
type Doc struct {
	buf     []byte
	gen     uint64
	maxSize int
}

// NewDoc returns a document initialized as an empty root object.
func NewDoc() *Doc {
	return NewDocSize(defaultDocCapacity)
}

// NewDocSize is NewDoc with an explicit initial capacity.
func NewDocSize(capacity int) *Doc {
	if capacity < containerHdrSize {
		capacity = defaultDocCapacity
	}
	d := &Doc{buf: make([]byte, 0, capacity), maxSize: DefaultMaxSize}
	d.buf, _ = InitObject(d.buf)
	return d
}

// LoadDoc copies externally supplied encoded bytes into a new document.
// Only the root is validated here; the rest of the structure is checked
// lazily as it is accessed.
func LoadDoc(data []byte) (*Doc, error) {
	d := &Doc{maxSize: DefaultMaxSize}
	if err := d.Import(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Import replaces the document's content with a copy of data. On error
// the document is unchanged.
func (d *Doc) Import(data []byte) error {
	if _, err := readContainer(data, 0); err != nil {
		return err
	}
	if d.maxSize == 0 {
		d.maxSize = DefaultMaxSize
	}
	if len(data) > d.maxSize {
		return ErrTooLarge
	}
	buf := make([]byte, len(data), max(cap(d.buf), len(data)))
	copy(buf, data)
	d.buf = buf
	d.gen++
	return nil
}

// InitObject resets the document to an empty root object.
func (d *Doc) InitObject() error {
	return d.mutate(InitObject)
}

// InitArray resets the document to an empty root array.
func (d *Doc) InitArray() error {
	return d.mutate(InitArray)
}

// Bytes returns the encoded document. The slice borrows the document's
// buffer: it is valid for reading until the next mutating call.
func (d *Doc) Bytes() []byte {
	return d.buf
}

// Len returns the used length of the document buffer in bytes.
func (d *Doc) Len() int {
	return len(d.buf)
}

// Cap returns the current capacity of the document buffer in bytes.
func (d *Doc) Cap() int {
	return cap(d.buf)
}

// Generation returns a counter incremented by every successful mutation.
// Views record it to detect staleness.
func (d *Doc) Generation() uint64 {
	return d.gen
}

// SetMaxSize bounds the document's growth; mutations that would grow the
// buffer past n fail with ErrTooLarge. Zero restores DefaultMaxSize.
func (d *Doc) SetMaxSize(n int) {
	if n <= 0 {
		n = DefaultMaxSize
	}
	d.maxSize = n
}

// mutate runs a bounded-mode operation, growing the buffer and retrying
// on ErrCapacity. On any error the document is left unchanged: bounded
// ops write nothing when they fail, and a failed growth leaves the old
// buffer in place.
func (d *Doc) mutate(op func(buf []byte) ([]byte, error)) error {
	for {
		newBuf, err := op(d.buf)
		if err == nil {
			d.buf = newBuf
			d.gen++
			return nil
		}
		if !errors.Is(err, ErrCapacity) {
			return err
		}
		if err := d.growBuf(); err != nil {
			return err
		}
	}
}

// mutateOfs is mutate for operations that also return a value offset.
func (d *Doc) mutateOfs(op func(buf []byte) ([]byte, int, error)) (int, error) {
	var valOfs int
	err := d.mutate(func(buf []byte) ([]byte, error) {
		buf, ofs, err := op(buf)
		valOfs = ofs
		return buf, err
	})
	return valOfs, err
}

func (d *Doc) growBuf() error {
	newBuf, err := growCapacity(d.buf, d.maxSize)
	if err != nil {
		return err
	}
	d.buf = newBuf
	return nil
}

// ---- Object set ----

func (d *Doc) SetNull(ofs int, key string) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetNull(buf, ofs, key) })
}

func (d *Doc) SetBool(ofs int, key string, v bool) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetBool(buf, ofs, key, v) })
}

func (d *Doc) SetInt64(ofs int, key string, v int64) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetInt64(buf, ofs, key, v) })
}

func (d *Doc) SetFloat64(ofs int, key string, v float64) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetFloat64(buf, ofs, key, v) })
}

func (d *Doc) SetStr(ofs int, key string, v string) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetStr(buf, ofs, key, v) })
}

func (d *Doc) SetBytes(ofs int, key string, v []byte) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return SetBytes(buf, ofs, key, v) })
}

func (d *Doc) SetObject(ofs int, key string) (int, error) {
	return d.mutateOfs(func(buf []byte) ([]byte, int, error) { return SetObject(buf, ofs, key) })
}

func (d *Doc) SetArray(ofs int, key string) (int, error) {
	return d.mutateOfs(func(buf []byte) ([]byte, int, error) { return SetArray(buf, ofs, key) })
}

// ---- Object get ----

func (d *Doc) Type(ofs int) (Type, error) {
	return TypeAt(d.buf, ofs)
}

func (d *Doc) GetType(ofs int, key string) (Type, error) {
	return GetType(d.buf, ofs, key)
}

func (d *Doc) Exists(ofs int, key string) bool {
	return Exists(d.buf, ofs, key)
}

func (d *Doc) GetBool(ofs int, key string) (bool, error) {
	return GetBool(d.buf, ofs, key)
}

func (d *Doc) GetInt64(ofs int, key string) (int64, error) {
	return GetInt64(d.buf, ofs, key)
}

func (d *Doc) GetFloat64(ofs int, key string) (float64, error) {
	return GetFloat64(d.buf, ofs, key)
}

// GetStr returns a generation-checked view of the string under key.
func (d *Doc) GetStr(ofs int, key string) (View, error) {
	off, n, err := getStrRef(d.buf, ofs, key, tagString)
	if err != nil {
		return View{}, err
	}
	return View{d, off, n, d.gen}, nil
}

// GetBytes returns a generation-checked view of the blob under key.
func (d *Doc) GetBytes(ofs int, key string) (View, error) {
	off, n, err := getStrRef(d.buf, ofs, key, tagBytes)
	if err != nil {
		return View{}, err
	}
	return View{d, off, n, d.gen}, nil
}

// GetString returns the string under key as an owned copy.
func (d *Doc) GetString(ofs int, key string) (string, error) {
	off, n, err := getStrRef(d.buf, ofs, key, tagString)
	if err != nil {
		return "", err
	}
	return string(d.buf[off : off+n]), nil
}

func (d *Doc) GetObject(ofs int, key string) (int, error) {
	return GetObject(d.buf, ofs, key)
}

func (d *Doc) GetArray(ofs int, key string) (int, error) {
	return GetArray(d.buf, ofs, key)
}

// ---- Array ----

func (d *Doc) AppendNull(ofs int) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendNull(buf, ofs) })
}

func (d *Doc) AppendBool(ofs int, v bool) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendBool(buf, ofs, v) })
}

func (d *Doc) AppendInt64(ofs int, v int64) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendInt64(buf, ofs, v) })
}

func (d *Doc) AppendFloat64(ofs int, v float64) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendFloat64(buf, ofs, v) })
}

func (d *Doc) AppendStr(ofs int, v string) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendStr(buf, ofs, v) })
}

func (d *Doc) AppendBytes(ofs int, v []byte) error {
	return d.mutate(func(buf []byte) ([]byte, error) { return AppendBytes(buf, ofs, v) })
}

func (d *Doc) AppendObject(ofs int) (int, error) {
	return d.mutateOfs(func(buf []byte) ([]byte, int, error) { return AppendObject(buf, ofs) })
}

func (d *Doc) AppendArray(ofs int) (int, error) {
	return d.mutateOfs(func(buf []byte) ([]byte, int, error) { return AppendArray(buf, ofs) })
}

func (d *Doc) ArrGetType(ofs, index int) (Type, error) {
	return ArrGetType(d.buf, ofs, index)
}

func (d *Doc) ArrGetBool(ofs, index int) (bool, error) {
	return ArrGetBool(d.buf, ofs, index)
}

func (d *Doc) ArrGetInt64(ofs, index int) (int64, error) {
	return ArrGetInt64(d.buf, ofs, index)
}

func (d *Doc) ArrGetFloat64(ofs, index int) (float64, error) {
	return ArrGetFloat64(d.buf, ofs, index)
}

// ArrGetStr returns a generation-checked view of the string at index.
func (d *Doc) ArrGetStr(ofs, index int) (View, error) {
	off, n, err := arrGetStrRef(d.buf, ofs, index, tagString)
	if err != nil {
		return View{}, err
	}
	return View{d, off, n, d.gen}, nil
}

// ArrGetBytes returns a generation-checked view of the blob at index.
func (d *Doc) ArrGetBytes(ofs, index int) (View, error) {
	off, n, err := arrGetStrRef(d.buf, ofs, index, tagBytes)
	if err != nil {
		return View{}, err
	}
	return View{d, off, n, d.gen}, nil
}

func (d *Doc) ArrGetObject(ofs, index int) (int, error) {
	return ArrGetObject(d.buf, ofs, index)
}

func (d *Doc) ArrGetArray(ofs, index int) (int, error) {
	return ArrGetArray(d.buf, ofs, index)
}

// ---- Utility ----

func (d *Doc) Count(ofs int) (int, error) {
	return Count(d.buf, ofs)
}

func (d *Doc) Iter(ofs int) (Iter, error) {
	return NewIter(d.buf, ofs)
}
