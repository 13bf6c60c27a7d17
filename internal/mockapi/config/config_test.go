package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, 15*time.Minute, c.QRCodeTTL)
	assert.True(t, c.Seed)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoadConfig_Flags(t *testing.T) {
	c, err := LoadConfig([]string{"-a", "127.0.0.1:9090", "-s", "k", "-t", "1", "-r", "3", "-q", "5", "-seed=false", "-l", "debug", "-unknown", "x"})
	require.NoError(t, err)

	want := &Config{
		Addr:            "127.0.0.1:9090",
		SecretKey:       "k",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: 3 * time.Minute,
		QRCodeTTL:       5 * time.Minute,
		Seed:            false,
		LogLevel:        "debug",
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "mock.json", `{"addr":":7000","access_token_ttl":"90s","seed":false}`},
		{"yaml", "mock.yaml", "addr: \":7000\"\naccess_token_ttl: 90s\nseed: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			c, err := LoadConfig([]string{"-c", path, "-a", ":7001"})
			require.NoError(t, err)

			assert.Equal(t, ":7001", c.Addr)
			assert.Equal(t, 90*time.Second, c.AccessTokenTTL)
			assert.False(t, c.Seed)
			assert.Equal(t, 7*24*time.Hour, c.RefreshTokenTTL)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"access_token_ttl":"soon"}`), 0o600))

	_, err := LoadConfig([]string{"-c", bad})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-t", "abc"})
	assert.Error(t, err)
}
