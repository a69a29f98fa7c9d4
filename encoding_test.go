package lite3

import (
	"errors"
	"math"
	"testing"
)

func TestInitObject_Bytes(t *testing.T) {
	buf := must(InitObject(make([]byte, 0, 64)))
	deepEq(t, buf, []byte{
		0x06, // object tag
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	})
	deepEq(t, must(Count(buf, 0)), 0)
	deepEq(t, must(TypeAt(buf, 0)), Object)
}

func TestInitArray_Bytes(t *testing.T) {
	buf := must(InitArray(make([]byte, 0, 64)))
	deepEq(t, buf[0], byte(0x07))
	deepEq(t, len(buf), containerHdrSize)
	deepEq(t, must(Count(buf, 0)), 0)
	deepEq(t, must(TypeAt(buf, 0)), Array)
}

func TestInitObject_CapacityTooSmall(t *testing.T) {
	_, err := InitObject(make([]byte, 0, containerHdrSize-1))
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("InitObject err = %v, wanted ErrCapacity", err)
	}
}

func TestTypeAt_Scalars(t *testing.T) {
	buf := must(InitObject(make([]byte, 0, 256)))
	buf = must(SetNull(buf, 0, "n"))
	buf = must(SetBool(buf, 0, "b", true))
	buf = must(SetInt64(buf, 0, "i", 42))
	buf = must(SetFloat64(buf, 0, "f", 1.5))
	buf = must(SetStr(buf, 0, "s", "hi"))
	buf = must(SetBytes(buf, 0, "d", []byte{1, 2}))

	tests := []struct {
		key  string
		want Type
	}{
		{"n", Null},
		{"b", Bool},
		{"i", Int64},
		{"f", Float64},
		{"s", String},
		{"d", Bytes},
	}
	for _, test := range tests {
		typ, err := GetType(buf, 0, test.key)
		if err != nil {
			t.Fatalf("GetType(%q) failed: %v", test.key, err)
		}
		if typ != test.want {
			t.Errorf("GetType(%q) = %v, wanted %v", test.key, typ, test.want)
		}
	}
}

func TestTypeAt_Malformed(t *testing.T) {
	buf := must(InitObject(make([]byte, 0, 64)))
	buf[0] = 0xFF
	_, err := TypeAt(buf, 0)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("TypeAt err = %v, wanted ErrMalformed", err)
	}
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("TypeAt err = %T, wanted *DataError", err)
	}
}

func TestCount_NotContainer(t *testing.T) {
	buf := must(InitObject(make([]byte, 0, 256)))
	buf = must(SetInt64(buf, 0, "i", 1))
	valOfs := containerHdrSize + objEntryHdrSize + 1
	_, err := Count(buf, valOfs)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Count err = %v, wanted ErrTypeMismatch", err)
	}
}

func TestPayloadFits(t *testing.T) {
	if !payloadFits(0) || !payloadFits(math.MaxUint32) {
		t.Fatalf("payloadFits rejected a length that fits the u32 field")
	}
	if payloadFits(math.MaxUint32 + 1) {
		t.Fatalf("payloadFits accepted a length the u32 field cannot record")
	}
}

func TestTypeString(t *testing.T) {
	deepEq(t, Null.String(), "null")
	deepEq(t, Object.String(), "object")
	deepEq(t, Array.String(), "array")
	if !Object.IsContainer() || !Array.IsContainer() || Int64.IsContainer() {
		t.Fatalf("IsContainer misclassifies")
	}
}
