// Package docstore persists named lite3 documents in a bbolt file.
//
// Documents are stored raw: the value under each name is the document's
// encoded buffer, so a stored document can be read back with zero
// decoding work and mutated in place after loading.
package docstore

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/andreyvit/lite3"
)

// ErrNotFound is returned by Get, GetRaw and Delete when no document
// exists under the requested name.
var ErrNotFound = errors.New("document not found")

var docsBucket = []byte("docs")

type Options struct {
	// IsTesting trades durability for speed (no fsync).
	IsTesting bool
}

// Store is a named-document repository backed by a single bbolt file.
// All methods are safe for concurrent use.
type Store struct {
	bdb *bbolt.DB
}

func Open(path string, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(docsBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("docstore: %w", err)
	}
	return &Store{bdb: bdb}, nil
}

func (s *Store) Close() error {
	return s.bdb.Close()
}

// Put stores the document's current buffer under name, replacing any
// previous value.
func (s *Store) Put(name string, doc *lite3.Doc) error {
	return s.PutRaw(name, doc.Bytes())
}

// PutRaw stores an already-encoded document buffer under name. The
// buffer is validated before it is written; a malformed buffer is
// rejected rather than persisted.
func (s *Store) PutRaw(name string, data []byte) error {
	if _, err := lite3.LoadDoc(data); err != nil {
		return err
	}
	return s.bdb.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(docsBucket).Put([]byte(name), data)
	})
}

// Get loads the document stored under name into a fresh growable Doc.
func (s *Store) Get(name string) (*lite3.Doc, error) {
	raw, err := s.GetRaw(name)
	if err != nil {
		return nil, err
	}
	return lite3.LoadDoc(raw)
}

// GetRaw returns a copy of the encoded buffer stored under name.
func (s *Store) GetRaw(name string) ([]byte, error) {
	var raw []byte
	err := s.bdb.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(docsBucket).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Delete removes the document stored under name.
func (s *Store) Delete(name string) error {
	return s.bdb.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(docsBucket)
		if b.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(name))
	})
}

// Names returns the names of all stored documents in lexicographic
// order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.bdb.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(docsBucket).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
