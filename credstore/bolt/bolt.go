// Package bolt provides a BBolt-backed KV for the credential store.
package bolt

import (
	"fmt"

	"github.com/adspay/console/credstore"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("credentials")

// KV implements credstore.KV backed by a BBolt database.
type KV struct {
	db *bbolt.DB
}

var _ credstore.KV = (*KV)(nil)

func New(db *bbolt.DB) *KV {
	return &KV{db: db}
}

// NewFromFile opens a BBolt database at the given path and returns a new KV.
func NewFromFile(path string, options *bbolt.Options) (*KV, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying BBolt database.
func (k *KV) Close() error {
	return k.db.Close()
}

func (k *KV) Put(key string, value []byte) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

func (k *KV) Get(key string) ([]byte, error) {
	var value []byte
	err := k.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (k *KV) Delete(key string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
