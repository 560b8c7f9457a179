package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize         = 32
	kdfIterations   = 4096
	defaultPassword = "secret"
)

// The salt is as constant as the passphrase. Together they make the
// obfuscation reversible by anyone holding the binary, which matches the
// behavior of the dashboard this console replaces.
var kdfSalt = []byte("adspay-console-credstore")

// Cipher obfuscates values with AES-GCM under a passphrase-derived key.
type Cipher struct {
	aead cipher.AEAD
}

func DefaultCipher() *Cipher {
	c, err := NewCipher(defaultPassword)
	if err != nil {
		// Only reachable if the compiled-in parameters are broken.
		panic(err)
	}
	return c
}

func NewCipher(passphrase string) (*Cipher, error) {
	key := pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < c.aead.NonceSize() {
		return nil, fmt.Errorf("sealed value shorter than nonce size")
	}
	nonce, sealed := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("deobfuscating value: %w", err)
	}
	return plain, nil
}
