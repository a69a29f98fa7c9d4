package lite3

// Iter is a fixed-size cursor over the entries of one object or array.
// It holds no reference to the buffer; the buffer is passed to Next, so
// the same cursor works across reallocations of the same logical
// document (offsets are stable, memory is not).
//
// A cursor never mutates the container: fresh cursors over an unchanged
// container yield identical sequences. Once exhausted a cursor stays
// exhausted; create a new one to start over.
type Iter struct {
	obj       bool
	remaining uint32
	nextOfs   int    // 0 when exhausted
	key       []byte // borrowed from buf; nil for arrays
	valOfs    int
	err       error
}

// NewIter validates that ofs refers to an object or array and returns a
// cursor positioned before the first entry.
func NewIter(buf []byte, ofs int) (Iter, error) {
	c, err := readContainer(buf, ofs)
	if err != nil {
		return Iter{}, err
	}
	return Iter{
		obj:       c.tag == tagObject,
		remaining: c.count,
		nextOfs:   c.head,
	}, nil
}

// Next advances to the next entry, reporting false when the container is
// exhausted or decoding fails (check Err to distinguish).
func (it *Iter) Next(buf []byte) bool {
	if it.err != nil || it.nextOfs == 0 || it.remaining == 0 {
		return false
	}
	e, err := readEntry(buf, it.nextOfs, it.obj)
	if err != nil {
		it.err = err
		return false
	}
	it.key = e.key
	it.valOfs = e.val
	it.nextOfs = e.next
	it.remaining--
	return true
}

// Key returns the key of the current entry, nil when iterating an array.
// The slice borrows from the buffer passed to Next and is only valid
// until the next mutating call.
func (it *Iter) Key() []byte {
	return it.key
}

// Offset returns the offset of the current entry's value.
func (it *Iter) Offset() int {
	return it.valOfs
}

// Err returns the decoding error that stopped iteration, if any.
func (it *Iter) Err() error {
	return it.err
}
