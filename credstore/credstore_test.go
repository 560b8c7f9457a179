package credstore_test

import (
	"testing"

	"github.com/adspay/console/credstore"
	"github.com/adspay/console/credstore/memory"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	store := credstore.New(memory.New())

	require.NoError(t, store.Set("accessToken", "tok-123"))

	value, ok := store.Get("accessToken")
	require.True(t, ok)
	require.Equal(t, "tok-123", value)
}

func TestGetMissingKey(t *testing.T) {
	store := credstore.New(memory.New())

	value, ok := store.Get("refreshToken")
	require.False(t, ok)
	require.Empty(t, value)
}

func TestGetCorruptedEntryTreatedAsAbsent(t *testing.T) {
	kv := memory.New()
	store := credstore.New(kv)

	// Bypass the store and damage the raw entry.
	require.NoError(t, kv.Put("accessToken", []byte("not a sealed value")))

	value, ok := store.Get("accessToken")
	require.False(t, ok)
	require.Empty(t, value)
}

func TestGetWithMismatchedCipherTreatedAsAbsent(t *testing.T) {
	kv := memory.New()
	store := credstore.New(kv)
	require.NoError(t, store.Set("user", `{"username":"admin"}`))

	other, err := credstore.NewCipher("a different passphrase")
	require.NoError(t, err)

	value, ok := credstore.NewWithCipher(kv, other).Get("user")
	require.False(t, ok)
	require.Empty(t, value)
}

func TestRemove(t *testing.T) {
	store := credstore.New(memory.New())
	require.NoError(t, store.Set("expiresAt", "1735689600000"))

	require.NoError(t, store.Remove("expiresAt"))

	_, ok := store.Get("expiresAt")
	require.False(t, ok)
}

func TestValuesAreObfuscatedAtRest(t *testing.T) {
	kv := memory.New()
	store := credstore.New(kv)
	require.NoError(t, store.Set("refreshToken", "rt-secret"))

	raw, err := kv.Get("refreshToken")
	require.NoError(t, err)
	require.NotNil(t, raw)
	require.NotContains(t, string(raw), "rt-secret")
}

func TestCipherRoundTrip(t *testing.T) {
	cipher, err := credstore.NewCipher("passphrase")
	require.NoError(t, err)

	sealed, err := cipher.Seal([]byte("payload"))
	require.NoError(t, err)

	plain, err := cipher.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "payload", string(plain))
}

func TestCipherOpenTruncated(t *testing.T) {
	cipher, err := credstore.NewCipher("passphrase")
	require.NoError(t, err)

	_, err = cipher.Open([]byte("short"))
	require.Error(t, err)
}
