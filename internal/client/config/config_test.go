package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophid/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "token", filepath.Base(c.TokenFile))
}

func TestLoadConfig_FlagsAndSubcommand(t *testing.T) {
	cfg, err := LoadConfig([]string{"-a", "id.example:443", "-T", "3", "-f", "/tmp/tok", "login", "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "id.example:443", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/tok", cfg.TokenFile)
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr":"json:1","request_timeout":"2s","token_file":"/j/tok"}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "json:1", cfg.ServerEndpointAddr)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/j/tok", cfg.TokenFile)

	cfg, err = LoadConfig([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)
	assert.Equal(t, "flag:2", cfg.ServerEndpointAddr)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-T", "0"})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = LoadConfig([]string{"-a", ""})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = LoadConfig([]string{"-T", "soon"})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
