package lite3

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		err := corruptErrf([]byte{0xAA, 0xBB}, 1, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("errors.Is(err, ErrMalformed) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops") || !strings.Contains(s, "aabb") {
			t.Fatalf("Error() = %q, wanted message and full hex dump", s)
		}
		if de.Off != 1 {
			t.Fatalf("Off = %d, wanted 1", de.Off)
		}
	})

	t.Run("large data is windowed", func(t *testing.T) {
		data := make([]byte, 400)
		for i := range data {
			data[i] = byte(i)
		}
		s := corruptErrf(data, 200, "bad").Error()
		if !strings.Contains(s, "...") {
			t.Fatalf("Error() = %q, wanted elided hex dump", s)
		}
		if !strings.Contains(s, "(400)") {
			t.Fatalf("Error() = %q, wanted total length", s)
		}
	})
}

func TestSyntaxError_Unwrap(t *testing.T) {
	err := syntaxErrf(7, "bad token %q", "x")
	if !errors.Is(err, ErrJSONSyntax) {
		t.Fatalf("errors.Is(err, ErrJSONSyntax) = false, wanted true")
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Off != 7 {
		t.Fatalf("err = %v, wanted *SyntaxError at offset 7", err)
	}
	if !strings.Contains(err.Error(), `bad token "x"`) {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestMalformedBuffers_FailClosed(t *testing.T) {
	good := must(InitObject(make([]byte, 0, 256)))
	good = must(SetStr(good, 0, "key", "value"))

	tests := []struct {
		name    string
		corrupt func(b []byte) []byte
	}{
		{"truncated header", func(b []byte) []byte { return b[:5] }},
		{"bad tag", func(b []byte) []byte { b[0] = 0x7F; return b }},
		{"count without head", func(b []byte) []byte {
			putU32(b, hdrCountOff, 5)
			putU32(b, hdrHeadOff, 0)
			return b
		}},
		{"head past end", func(b []byte) []byte {
			putU32(b, hdrHeadOff, 100000)
			return b
		}},
		{"string length past end", func(b []byte) []byte {
			// value sits after the entry header and 3-byte key
			valOfs := containerHdrSize + objEntryHdrSize + 3
			putU32(b, valOfs+1, 1<<20)
			return b
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := test.corrupt(append([]byte(nil), good...))
			if _, err := GetStr(b, 0, "key"); !errors.Is(err, ErrMalformed) {
				t.Fatalf("GetStr err = %v, wanted ErrMalformed", err)
			}
		})
	}
}
