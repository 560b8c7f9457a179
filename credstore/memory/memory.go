// Package memory provides an in-memory KV for the credential store, used
// in tests and for ephemeral console runs.
package memory

import (
	"sync"

	"github.com/adspay/console/credstore"
)

type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ credstore.KV = (*KV)(nil)

func New() *KV {
	return &KV{values: make(map[string][]byte)}
}

func (k *KV) Put(key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = append([]byte(nil), value...)
	return nil
}

func (k *KV) Get(key string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	value, ok := k.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (k *KV) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}
