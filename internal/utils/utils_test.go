package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range testCases {
		assert.Equal(t, want, FormatWithCommas(n))
	}
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("hello"))
	assert.True(t, IsValidWord("user-name"))
	assert.True(t, IsValidWord("utf8"))
	assert.False(t, IsValidWord(""))
	assert.False(t, IsValidWord("1234"))
	assert.False(t, IsValidWord("email@example.com"))
	assert.False(t, IsValidWord("zzzz"))
}

func TestConfigDirFor(t *testing.T) {
	env := map[string]string{"XDG_CONFIG_HOME": "/xdg"}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, filepath.Join("/xdg", "completer"), ConfigDirFor("linux", "/home/u", getenv))
	assert.Equal(t, filepath.Join("/home/u", ".config", "completer"), ConfigDirFor("darwin", "/home/u", getenv))
	assert.Equal(t, filepath.Join("/home/u", ".completer"), ConfigDirFor("plan9", "/home/u", getenv))
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nlegacy = true\nlanguage = \"en\"\n[server]\nmax_items = 12\n"), 0o600))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	model, ok := ExtractSection(data, "model")
	require.True(t, ok)
	legacy, ok := ExtractBool(model, "legacy")
	assert.True(t, ok)
	assert.True(t, legacy)
	lang, ok := ExtractString(model, "language")
	assert.True(t, ok)
	assert.Equal(t, "en", lang)

	server, ok := ExtractSection(data, "server")
	require.True(t, ok)
	n, ok := ExtractInt64(server, "max_items")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	result := CheckDirStatus(dir)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	assert.True(t, FileExists(dir))
}
