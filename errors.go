package lite3

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by object getters when the key is absent.
	ErrKeyNotFound = errors.New("lite3: key not found")

	// ErrIndexOutOfRange is returned by array getters for indexes past the end.
	ErrIndexOutOfRange = errors.New("lite3: array index out of range")

	// ErrTypeMismatch is returned when an accessor is used against a value
	// of a different variant (say, GetBool on a string).
	ErrTypeMismatch = errors.New("lite3: type mismatch")

	// ErrCapacity is returned by bounded-mode mutators when the operation
	// would grow the buffer past its capacity. The buffer is unmodified.
	ErrCapacity = errors.New("lite3: buffer capacity exceeded")

	// ErrTooLarge is returned by Doc mutators when growth would exceed the
	// document's maximum size, and by any mutator given a key or payload
	// longer than the wire format's u32 length field can record. The
	// target is unmodified.
	ErrTooLarge = errors.New("lite3: document exceeds maximum size")

	// ErrMalformed is wrapped by every error caused by corrupt, truncated
	// or otherwise invalid encoded data.
	ErrMalformed = errors.New("lite3: malformed encoding")

	// ErrDepthLimit is returned when a document nests deeper than MaxDepth.
	ErrDepthLimit = errors.New("lite3: nesting depth limit exceeded")

	// ErrJSONSyntax is wrapped by every JSON parse error.
	ErrJSONSyntax = errors.New("lite3: invalid JSON")

	// ErrJSONUnsupported is returned when encoding a value that has no JSON
	// representation (bytes values, NaN and infinite floats).
	ErrJSONUnsupported = errors.New("lite3: value not representable in JSON")

	// ErrJSONDisabled is returned by every JSON entry point when the codec
	// is compiled out via the lite3_nojson build tag.
	ErrJSONDisabled = errors.New("lite3: JSON support disabled")

	// ErrStaleView is returned when resolving a View after the document has
	// been mutated since the View was obtained.
	ErrStaleView = errors.New("lite3: view invalidated by mutation")
)

// DataError reports corrupt or truncated encoded data, carrying the
// offending buffer and the offset where decoding failed. It matches
// ErrMalformed under errors.Is.
type DataError struct {
	Data []byte
	Off  int
	Msg  string
}

func corruptErrf(data []byte, off int, format string, args ...any) error {
	return &DataError{data, off, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return ErrMalformed
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		return fmt.Sprintf("%s at %d: (%d) %x", e.Msg, e.Off, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	return fmt.Sprintf("%s at %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
}

// SyntaxError reports invalid JSON text and the byte offset of the
// problem. It matches ErrJSONSyntax under errors.Is.
type SyntaxError struct {
	Off int
	Msg string
}

func syntaxErrf(off int, format string, args ...any) error {
	return &SyntaxError{off, fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Unwrap() error {
	return ErrJSONSyntax
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Off)
}
