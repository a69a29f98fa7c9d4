package lite3

// View is a borrowed reference to a string or bytes payload inside a
// Doc. It records the document generation at the time it was obtained;
// once the document mutates, the view is stale and refuses to resolve.
// Offsets stay valid across mutation, so re-running the Get that
// produced the view yields a fresh one for the same (or updated) data.
type View struct {
	d   *Doc
	off int
	n   int
	gen uint64
}

// Len returns the payload length in bytes. Valid even for stale views.
func (v View) Len() int {
	return v.n
}

// Valid reports whether the view still matches the document generation.
func (v View) Valid() bool {
	return v.d != nil && v.gen == v.d.gen
}

// Bytes resolves the view into the document's buffer. The returned slice
// borrows document memory and is only valid until the next mutating
// call. Fails with ErrStaleView if the document has mutated since the
// view was obtained.
func (v View) Bytes() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrStaleView
	}
	return v.d.buf[v.off : v.off+v.n : v.off+v.n], nil
}

// String resolves the view and returns an owned copy of the payload.
func (v View) String() (string, error) {
	b, err := v.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
