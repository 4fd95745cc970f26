package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "prflight", "credentials.json")
	store := NewStore(path)

	// 1. Empty store reads as no credential
	assert.Equal(t, "", store.Token())

	// 2. Set and read back
	err := store.SetToken("ghp_example123")
	require.NoError(t, err)
	assert.Equal(t, "ghp_example123", store.Token())

	// 3. File and directory are owner-only
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestStore_CorruptFileDegradesToEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path)
	assert.Equal(t, "", store.Token())
}

func TestStore_Clear(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "credentials.json")
	store := NewStore(path)

	// Clearing an empty store is fine
	require.NoError(t, store.Clear())

	require.NoError(t, store.SetToken("tok"))
	require.NoError(t, store.Clear())
	assert.Equal(t, "", store.Token())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestResolveToken(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(filepath.Join(tmpDir, "credentials.json"))

	t.Run("store wins over env", func(t *testing.T) {
		require.NoError(t, store.SetToken("from-store"))
		t.Setenv("PRFLIGHT_TOKEN", "from-prflight-env")
		t.Setenv("GITHUB_TOKEN", "from-github-env")
		assert.Equal(t, "from-store", ResolveToken(store))
	})

	t.Run("env fallback order", func(t *testing.T) {
		require.NoError(t, store.Clear())
		t.Setenv("PRFLIGHT_TOKEN", "from-prflight-env")
		t.Setenv("GITHUB_TOKEN", "from-github-env")
		assert.Equal(t, "from-prflight-env", ResolveToken(store))

		t.Setenv("PRFLIGHT_TOKEN", "")
		assert.Equal(t, "from-github-env", ResolveToken(store))
	})
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg := LoadConfig(filepath.Join(tmpDir, "nope.yaml"))
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.yaml")
		content := "api_base_url: https://git.example.com/api/v3\ndefault_repo: acme/mobile\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg := LoadConfig(path)
		assert.Equal(t, "https://git.example.com/api/v3", cfg.APIBaseURL)
		assert.Equal(t, "acme/mobile", cfg.DefaultRepo)
		assert.Equal(t, "", cfg.CheckoutDir)
	})

	t.Run("malformed file yields defaults", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_repo: [unclosed"), 0600))
		assert.Equal(t, Config{}, LoadConfig(path))
	})
}

func TestConfig_CheckoutRoot(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		cfg := Config{CheckoutDir: "/tmp/custom"}
		root, err := cfg.CheckoutRoot()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom", root)
	})

	t.Run("default under user cache", func(t *testing.T) {
		root, err := Config{}.CheckoutRoot()
		require.NoError(t, err)
		assert.Contains(t, root, filepath.Join("prflight", "checkouts"))
	})
}
