package lite3

import (
	"errors"
	"testing"
)

func newArr(t *testing.T) []byte {
	t.Helper()
	return must(InitArray(make([]byte, 0, 1024)))
}

func TestArray_AppendAndGet(t *testing.T) {
	buf := newArr(t)
	buf = must(AppendNull(buf, 0))
	buf = must(AppendBool(buf, 0, true))
	buf = must(AppendInt64(buf, 0, -5))
	buf = must(AppendFloat64(buf, 0, 2.5))
	buf = must(AppendStr(buf, 0, "hey"))
	buf = must(AppendBytes(buf, 0, []byte{9}))

	deepEq(t, must(Count(buf, 0)), 6)
	deepEq(t, must(ArrGetType(buf, 0, 0)), Null)
	deepEq(t, must(ArrGetBool(buf, 0, 1)), true)
	deepEq(t, must(ArrGetInt64(buf, 0, 2)), int64(-5))
	deepEq(t, must(ArrGetFloat64(buf, 0, 3)), 2.5)
	deepEq(t, string(must(ArrGetStr(buf, 0, 4))), "hey")
	deepEq(t, must(ArrGetBytes(buf, 0, 5)), []byte{9})
}

func TestArray_IndexOutOfRange(t *testing.T) {
	buf := newArr(t)
	buf = must(AppendInt64(buf, 0, 1))

	for _, index := range []int{-1, 1, 100} {
		_, err := ArrGetInt64(buf, 0, index)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("ArrGetInt64(%d) err = %v, wanted ErrIndexOutOfRange", index, err)
		}
	}
}

func TestArray_TypeMismatch(t *testing.T) {
	buf := newArr(t)
	buf = must(AppendStr(buf, 0, "s"))
	if _, err := ArrGetInt64(buf, 0, 0); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("ArrGetInt64 on string err = %v, wanted ErrTypeMismatch", err)
	}
}

func TestArray_AppendOnObjectFails(t *testing.T) {
	buf := must(InitObject(make([]byte, 0, 64)))
	if _, err := AppendInt64(buf, 0, 1); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("AppendInt64 on object err = %v, wanted ErrTypeMismatch", err)
	}
}

func TestArray_Nested(t *testing.T) {
	buf := newArr(t)
	buf, inner := must2(AppendArray(buf, 0))
	buf = must(AppendInt64(buf, inner, 1))
	buf = must(AppendInt64(buf, inner, 2))
	buf, obj := must2(AppendObject(buf, 0))
	buf = must(SetStr(buf, obj, "k", "v"))

	deepEq(t, must(Count(buf, 0)), 2)
	deepEq(t, must(ArrGetArray(buf, 0, 0)), inner)
	deepEq(t, must(Count(buf, inner)), 2)
	deepEq(t, must(ArrGetInt64(buf, inner, 1)), int64(2))
	deepEq(t, must(ArrGetObject(buf, 0, 1)), obj)
	deepEq(t, string(must(GetStr(buf, obj, "k"))), "v")
}

func TestArray_AppendPreservesOrder(t *testing.T) {
	buf := newArr(t)
	for i := int64(1); i <= 3; i++ {
		buf = must(AppendInt64(buf, 0, i))
	}

	var got []int64
	it := must(NewIter(buf, 0))
	for it.Next(buf) {
		if it.Key() != nil {
			t.Fatalf("array iterator produced a key: %q", it.Key())
		}
		v, err := readInt(buf, it.Offset())
		ensure(err)
		got = append(got, v)
	}
	ensure(it.Err())
	deepEq(t, got, []int64{1, 2, 3})
}

func TestIter_EmptyContainer(t *testing.T) {
	buf := newArr(t)
	it := must(NewIter(buf, 0))
	if it.Next(buf) {
		t.Fatalf("Next on empty array = true")
	}
	ensure(it.Err())
}

func TestIter_ExhaustedStaysExhausted(t *testing.T) {
	buf := newArr(t)
	buf = must(AppendInt64(buf, 0, 1))

	it := must(NewIter(buf, 0))
	if !it.Next(buf) {
		t.Fatalf("Next = false, wanted true")
	}
	if it.Next(buf) || it.Next(buf) {
		t.Fatalf("Next after exhaustion = true")
	}
}

func TestIter_FreshCursorsAgree(t *testing.T) {
	buf := newObj(t)
	buf = must(SetInt64(buf, 0, "a", 1))
	buf = must(SetInt64(buf, 0, "b", 2))

	run := func() (keys []string) {
		it := must(NewIter(buf, 0))
		for it.Next(buf) {
			keys = append(keys, string(it.Key()))
		}
		ensure(it.Err())
		return
	}
	deepEq(t, run(), run())
}

func TestIter_OnScalarFails(t *testing.T) {
	buf := newObj(t)
	buf = must(SetInt64(buf, 0, "i", 1))
	valOfs := containerHdrSize + objEntryHdrSize + 1
	if _, err := NewIter(buf, valOfs); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("NewIter on scalar err = %v, wanted ErrTypeMismatch", err)
	}
}
