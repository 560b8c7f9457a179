// Package credstore persists the console's session credentials through a
// reversible obfuscation layer. The obfuscation uses a compiled-in
// passphrase and therefore provides no confidentiality against anyone who
// can read the binary; it only keeps tokens from sitting in the clear on
// disk. It is not a security boundary.
package credstore

// KV is the raw key-value persistence underneath the store. Get returns
// nil for a missing key.
type KV interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// Store writes obfuscated values into a KV backend and transparently
// deobfuscates them on read.
type Store struct {
	kv     KV
	cipher *Cipher
}

func New(kv KV) *Store {
	return &Store{kv: kv, cipher: DefaultCipher()}
}

// NewWithCipher overrides the default obfuscation cipher.
func NewWithCipher(kv KV, cipher *Cipher) *Store {
	return &Store{kv: kv, cipher: cipher}
}

func (s *Store) Set(key, value string) error {
	sealed, err := s.cipher.Seal([]byte(value))
	if err != nil {
		return err
	}
	return s.kv.Put(key, sealed)
}

// Get returns the stored value for key. A missing entry and an entry that
// fails to deobfuscate are treated identically: ("", false). Callers must
// not distinguish corruption from absence.
func (s *Store) Get(key string) (string, bool) {
	sealed, err := s.kv.Get(key)
	if err != nil || sealed == nil {
		return "", false
	}
	plain, err := s.cipher.Open(sealed)
	if err != nil {
		return "", false
	}
	return string(plain), true
}

func (s *Store) Remove(key string) error {
	return s.kv.Delete(key)
}
