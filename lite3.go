/*
Package lite3 implements a compact binary encoding for JSON-like documents
stored in a single contiguous buffer.

Values are addressed by byte offset and can be read without decoding the
rest of the document (zero-copy for strings and byte blobs). Documents can
be mutated in place inside a caller-supplied fixed-capacity buffer, or
through a growable Doc container that owns and reallocates its own buffer.
A document converts to and from JSON text, and to and from MessagePack.

# Binary Format

All integers are little-endian. Every value starts with a one-byte type
tag followed by a variant-specific payload:

	null    -> 0x00
	bool    -> 0x01 b:u8 (0 or 1)
	int64   -> 0x02 v:i64
	float64 -> 0x03 IEEE-754 bits:u64
	string  -> 0x04 len:u32, raw bytes (UTF-8 by convention)
	bytes   -> 0x05 len:u32, raw bytes
	object  -> 0x06 count:u32 head:u32 tail:u32
	array   -> 0x07 count:u32 head:u32 tail:u32

Objects and arrays are linked lists of entries:

	object entry -> next:u32 val:u32 klen:u32, key bytes
	array entry  -> next:u32 val:u32

All u32 link fields are self-relative deltas: measured from the byte
position of the field itself to the target, zero meaning “none”. head and
tail point at the first and last entry, next at the following entry, val
at the entry's value. Entries and values are only ever appended past the
current end of the used region; headers and link fields are fixed-width
and patched in place, so appending an entry or relocating a value never
moves any other value's offset. Because every cross-reference is
relative, copying or reallocating the whole buffer preserves internal
consistency.

A buffer is rooted at offset 0 by an object or an array.

# Space

Overwriting a key with a value of a different encoded size appends the
new value at the end of the used region and repoints the entry; the old
bytes are not reclaimed. This trades space for never having to compact
or shift live data.

# Ownership

The package never synchronizes: one buffer has one logical owner at a
time. Byte slices returned by GetStr/GetBytes and iterator keys borrow
from the buffer and must not be used after a mutating call; Doc-level
reads return generation-checked Views that detect such misuse.
*/
package lite3

import "fmt"

// Type identifies the variant of a stored value.
type Type uint8

const (
	Null Type = iota
	Bool
	Int64
	Float64
	String
	Bytes
	Object
	Array
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsContainer reports whether values of this type hold child values.
func (t Type) IsContainer() bool {
	return t == Object || t == Array
}

// MaxDepth bounds the nesting of objects and arrays that recursive
// operations (JSON and MessagePack conversion) will traverse. Deeper
// documents fail with ErrDepthLimit instead of exhausting the stack.
const MaxDepth = 64
