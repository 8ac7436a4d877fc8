package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readVocabulary(t *testing.T, path string) []string {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return v.GetStringSlice("vocabulary")
}

func TestSaveVocabulary_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveVocabulary(path, []string{"smoke", "nightly"}))

	require.Equal(t, []string{"smoke", "nightly"}, readVocabulary(t, path))
}

func TestSaveVocabulary_PreservesCommentsAndOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveVocabulary(path, []string{"only-this"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Rule groups and recipe groups")
	assert.Contains(t, content, "registry_path: .test-inventory/registry.yaml")
	assert.NotContains(t, content, "- regression")
	require.Equal(t, []string{"only-this"}, readVocabulary(t, path))
}

func TestSaveVocabulary_AppendsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\nauto_reload: false\n"), 0o600))

	require.NoError(t, SaveVocabulary(path, []string{"smoke"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# mine")
	assert.Contains(t, string(data), "auto_reload: false")
	require.Equal(t, []string{"smoke"}, readVocabulary(t, path))
}

func TestSaveVocabulary_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vocabulary: [unclosed\n"), 0o600))

	err := SaveVocabulary(path, []string{"smoke"})
	require.ErrorContains(t, err, "parsing config")
}

func TestAddVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	next, err := AddVocabulary(path, []string{"smoke"}, " Nightly ", "smoke", "")
	require.NoError(t, err)
	require.Equal(t, []string{"smoke", "nightly"}, next)
	require.Equal(t, next, readVocabulary(t, path))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestAddVocabulary_NoChangeSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	next, err := AddVocabulary(path, []string{"smoke"}, "SMOKE")
	require.NoError(t, err)
	require.Equal(t, []string{"smoke"}, next)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")

	require.NoError(t, WriteFileAtomic(path, []byte("a: 1\n")))
	require.NoError(t, WriteFileAtomic(path, []byte("a: 2\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a: 2\n", string(data))
}
