package docstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/lite3"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "docs.db"), Options{IsTesting: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openStore(t)

	d := lite3.NewDoc()
	require.NoError(t, d.SetStr(0, "name", "alpha"))
	require.NoError(t, d.SetInt64(0, "count", 3))
	require.NoError(t, s.Put("alpha", d))

	got, err := s.Get("alpha")
	require.NoError(t, err)
	name, err := got.GetString(0, "name")
	require.NoError(t, err)
	assert.Equal(t, "alpha", name)
	count, err := got.GetInt64(0, "count")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestStore_PutReplaces(t *testing.T) {
	s := openStore(t)

	d := lite3.NewDoc()
	require.NoError(t, d.SetInt64(0, "v", 1))
	require.NoError(t, s.Put("doc", d))

	require.NoError(t, d.SetInt64(0, "v", 2))
	require.NoError(t, s.Put("doc", d))

	got, err := s.Get("doc")
	require.NoError(t, err)
	v, err := got.GetInt64(0, "v")
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)
}

func TestStore_GetNotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetRaw("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RawRoundTrip(t *testing.T) {
	s := openStore(t)

	d := lite3.NewDoc()
	require.NoError(t, d.SetBool(0, "ok", true))
	require.NoError(t, s.PutRaw("raw", d.Bytes()))

	raw, err := s.GetRaw("raw")
	require.NoError(t, err)
	assert.Equal(t, d.Bytes(), raw)

	ok, err := lite3.GetBool(raw, 0, "ok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_PutRawRejectsMalformed(t *testing.T) {
	s := openStore(t)

	err := s.PutRaw("bad", []byte{0xFF, 0x01})
	assert.ErrorIs(t, err, lite3.ErrMalformed)

	_, err = s.Get("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := openStore(t)

	d := lite3.NewDoc()
	require.NoError(t, s.Put("doc", d))
	require.NoError(t, s.Delete("doc"))

	_, err := s.Get("doc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("doc"), ErrNotFound)
}

func TestStore_Names(t *testing.T) {
	s := openStore(t)

	d := lite3.NewDoc()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.Put(name, d))
	}

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")

	s, err := Open(path, Options{IsTesting: true})
	require.NoError(t, err)
	d := lite3.NewDoc()
	require.NoError(t, d.SetStr(0, "k", "v"))
	require.NoError(t, s.Put("doc", d))
	require.NoError(t, s.Close())

	s2, err := Open(path, Options{IsTesting: true})
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get("doc")
	require.NoError(t, err)
	v, err := got.GetString(0, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
