package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStoreFiles(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	passwordStoreFile = filepath.Join(dir, "dbhandler.pws")
	passwordStoreKeyFile = filepath.Join(dir, "dbhandler.key")
	t.Cleanup(func() {
		passwordStoreFile = ""
		passwordStoreKeyFile = ""
		instancePassword = make(map[string]string)
	})
	require.NoError(t, createSecretKey())
}

func TestPasswordStoreRoundTrip(t *testing.T) {
	setupStoreFiles(t)

	instancePassword["db2.sample"] = "secret"
	instancePassword["mysql.shop"] = "hunter2"
	require.NoError(t, writePasswordStore(os.O_WRONLY|os.O_CREATE|os.O_TRUNC))

	instancePassword = make(map[string]string)
	require.NoError(t, readPasswordStore())
	assert.Equal(t, "secret", instancePassword["db2.sample"])
	assert.Equal(t, "hunter2", instancePassword["mysql.shop"])
}

func TestReadPasswordStore(t *testing.T) {
	t.Run("missing store file", func(t *testing.T) {
		setupStoreFiles(t)
		err := readPasswordStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password store doesn't exist")
	})

	t.Run("store records are not readable in plain text", func(t *testing.T) {
		setupStoreFiles(t)
		instancePassword["db2.sample"] = "secret"
		require.NoError(t, writePasswordStore(os.O_WRONLY|os.O_CREATE|os.O_TRUNC))

		raw, err := os.ReadFile(passwordStoreFile)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "secret")
		assert.NotContains(t, string(raw), "db2.sample")
	})
}

func TestSecretKey(t *testing.T) {
	setupStoreFiles(t)

	key, err := readSecretKey()
	require.NoError(t, err)
	// AES-256 key material: 16 random bytes hex encoded
	assert.Len(t, key, 32)
}
