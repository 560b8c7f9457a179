package bolt_test

import (
	"path/filepath"
	"testing"

	"github.com/adspay/console/credstore"
	"github.com/adspay/console/credstore/bolt"
	"github.com/stretchr/testify/require"
)

func openTestKV(t *testing.T) *bolt.KV {
	t.Helper()
	kv, err := bolt.NewFromFile(filepath.Join(t.TempDir(), "credentials.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestPutGetDelete(t *testing.T) {
	kv := openTestKV(t)

	require.NoError(t, kv.Put("accessToken", []byte("sealed-bytes")))

	value, err := kv.Get("accessToken")
	require.NoError(t, err)
	require.Equal(t, []byte("sealed-bytes"), value)

	require.NoError(t, kv.Delete("accessToken"))

	value, err = kv.Get("accessToken")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestGetBeforeAnyWrite(t *testing.T) {
	kv := openTestKV(t)

	value, err := kv.Get("refreshToken")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	kv := openTestKV(t)
	require.NoError(t, kv.Delete("user"))
}

func TestStoreRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")

	kv, err := bolt.NewFromFile(path, nil)
	require.NoError(t, err)
	store := credstore.New(kv)
	require.NoError(t, store.Set("user", `{"username":"admin"}`))
	require.NoError(t, kv.Close())

	// Reopen the file; the value must survive the restart.
	kv, err = bolt.NewFromFile(path, nil)
	require.NoError(t, err)
	defer kv.Close()

	value, ok := credstore.New(kv).Get("user")
	require.True(t, ok)
	require.Equal(t, `{"username":"admin"}`, value)
}
