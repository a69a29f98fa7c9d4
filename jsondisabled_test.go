//go:build lite3_nojson

package lite3

import (
	"errors"
	"testing"
)

func TestJSONDisabled_AllEntryPoints(t *testing.T) {
	d := NewDoc()
	ensure(d.SetInt64(0, "a", 1))
	g := d.Generation()

	if _, err := JSONEncode(d.Bytes(), 0); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("JSONEncode err = %v, wanted ErrJSONDisabled", err)
	}
	if _, err := JSONEncodePretty(d.Bytes(), 0); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("JSONEncodePretty err = %v, wanted ErrJSONDisabled", err)
	}
	if _, err := JSONEncodeTo(d.Bytes(), 0, make([]byte, 64)); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("JSONEncodeTo err = %v, wanted ErrJSONDisabled", err)
	}
	if _, err := d.JSONEncode(0); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("Doc.JSONEncode err = %v, wanted ErrJSONDisabled", err)
	}
	if _, err := d.JSONEncodePretty(0); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("Doc.JSONEncodePretty err = %v, wanted ErrJSONDisabled", err)
	}
	if _, err := JSONDecode(make([]byte, 0, 64), []byte("{}")); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("JSONDecode err = %v, wanted ErrJSONDisabled", err)
	}
	if err := d.JSONDecode([]byte("{}")); !errors.Is(err, ErrJSONDisabled) {
		t.Fatalf("Doc.JSONDecode err = %v, wanted ErrJSONDisabled", err)
	}

	// the document is untouched by refused calls
	deepEq(t, d.Generation(), g)
	deepEq(t, must(d.GetInt64(0, "a")), int64(1))
}
