package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Aex.CacheTTL.D())
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.D())
	assert.Equal(t, 60*time.Second, cfg.Cache.StaleCeiling.D())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Aex.APIKey, "no credential by default; synthetic mode")
}

func TestLoadFile(t *testing.T) {
	yaml := `
aex:
  url: http://aex.example.com/json
  apikey: sekrit
fa:
  username: testuser
cache:
  ttl: 10s
  stale_ceiling: 45s
server:
  addr: ":9090"
`
	path := filepath.Join(t.TempDir(), "flightview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://aex.example.com/json", cfg.Aex.URL)
	assert.Equal(t, "sekrit", cfg.Aex.APIKey)
	assert.Equal(t, "testuser", cfg.Fa.Username)
	assert.Equal(t, 10*time.Second, cfg.Cache.TTL.D())
	assert.Equal(t, 45*time.Second, cfg.Cache.StaleCeiling.D())
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// Unset fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Fa.CacheTTL.D())
}

func TestLoadStaleCeilingFixup(t *testing.T) {
	yaml := `
cache:
  ttl: 40s
  stale_ceiling: 10s
`
	path := filepath.Join(t.TempDir(), "flightview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// A ceiling below the TTL is meaningless; it snaps to 2x TTL.
	assert.Equal(t, 80*time.Second, cfg.Cache.StaleCeiling.D())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLIGHTVIEW_AEX_APIKEY", "env-key")
	t.Setenv("FLIGHTVIEW_ADDR", ":7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Aex.APIKey)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/no/such/file.yaml")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	cfg := Default()
	cfg.Aex.APIKey = "k"

	assert.Equal(t, "k", cfg.Get("aex.apikey"))
	assert.Equal(t, ":8080", cfg.Get("server.addr"))
	assert.Equal(t, "", cfg.Get("no.such.key"))
}
