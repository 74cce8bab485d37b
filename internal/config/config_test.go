package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":9091", c.HTTPAddr)
	assert.Equal(t, StoreFile, c.Store)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 20, c.PageSize)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 30*time.Minute, c.AnonSessionTTL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MEDICARE_HTTP_ADDR", ":8080")
	t.Setenv("MEDICARE_CACHE_TTL", "30s")
	t.Setenv("MEDICARE_STORE", "sqlite")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
	assert.Equal(t, StoreSQLite, c.Store)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEDICARE_PAGE_SIZE=7\nMEDICARE_DATA_DIR=/tmp/meds\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("MEDICARE_PAGE_SIZE")
		os.Unsetenv("MEDICARE_DATA_DIR")
	})
	// real environment wins over the file
	t.Setenv("MEDICARE_DATA_DIR", "/srv/data")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.PageSize)
	assert.Equal(t, "/srv/data", c.DataDir)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MEDICARE_STORE", "redis")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "unknown store")

	t.Setenv("MEDICARE_STORE", "file")
	t.Setenv("MEDICARE_PAGE_SIZE", "many")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
