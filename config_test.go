package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbhandler/handler"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "dbhandler.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0600))
	t.Cleanup(func() {
		viper.Reset()
		instanceConfig = make(map[string]handler.ConnectionData)
	})
	return cfg
}

func TestSetupEnv(t *testing.T) {
	t.Run("collects active instances", func(t *testing.T) {
		cfg := writeConfig(t, `
Passwordstore: /tmp/dbhandler.pws
Passwordstorekey: /tmp/dbhandler.key
db2:
  sample:
    active: 1
    host: localhost
    port: 50000
    user: db2inst1
    database: SAMPLE
    schema: STAFF
  old:
    active: 0
    host: decommissioned
mysql:
  shop:
    active: 1
    host: localhost
    user: root
    database: shop
`)
		require.NoError(t, setupEnv(cfg))

		require.Contains(t, instanceConfig, "db2.sample")
		conn := instanceConfig["db2.sample"]
		assert.Equal(t, "localhost", conn.Get("host"))
		assert.Equal(t, "50000", conn.Get("port"))
		assert.Equal(t, "STAFF", conn.Get("schema"))
		assert.NotContains(t, conn, "active")

		assert.NotContains(t, instanceConfig, "db2.old")
		assert.Contains(t, instanceConfig, "mysql.shop")
	})

	t.Run("missing password store parameter", func(t *testing.T) {
		cfg := writeConfig(t, "Passwordstorekey: /tmp/dbhandler.key\n")
		err := setupEnv(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Passwordstore")
	})

	t.Run("missing password store key parameter", func(t *testing.T) {
		cfg := writeConfig(t, "Passwordstore: /tmp/dbhandler.pws\n")
		err := setupEnv(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Passwordstorekey")
	})
}

func TestNewHandler(t *testing.T) {
	cfg := writeConfig(t, `
Passwordstore: /tmp/dbhandler.pws
Passwordstorekey: /tmp/dbhandler.key
db2:
  sample:
    active: 1
    host: localhost
    user: db2inst1
    database: SAMPLE
`)
	require.NoError(t, setupEnv(cfg))

	t.Run("merges the stored password", func(t *testing.T) {
		instancePassword["db2.sample"] = "secret"
		t.Cleanup(func() { delete(instancePassword, "db2.sample") })

		h, err := newHandler("db2.sample")
		require.NoError(t, err)
		assert.Equal(t, "db2.sample", h.Name())
		// the password never lives in the shared instance config
		assert.Equal(t, "", instanceConfig["db2.sample"].Get("password"))
	})

	t.Run("unknown instance", func(t *testing.T) {
		_, err := newHandler("db2.missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "doesn't exist")
	})
}
