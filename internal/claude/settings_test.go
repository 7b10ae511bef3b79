package claude

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"ab", "**"},
		{"12345678", "********"},
		{"123456789", "123...6789"},
		{"sk-ant-REDACTED", "sk-...Wxyz"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskKey(c.key), "key=%q", c.key)
	}
	// middle characters never leak
	key := "sk-ant-MIDDLESECRET-tail"
	masked := MaskKey(key)
	assert.NotContains(t, masked, "MIDDLESECRET")
	// short unicode keys mask per character, not per byte
	assert.Equal(t, strings.Repeat("*", 5), MaskKey("日本語キー"))
}

func TestResolveCredentialsKeyPrecedence(t *testing.T) {
	settings := Settings{Env: map[string]string{
		envAuthToken: "A",
		envAPIKey:    "B",
	}}
	getenv := func(k string) string {
		if k == envAPIKey {
			return "C"
		}
		return ""
	}

	assert.Equal(t, "E", resolveCredentials("E", "", settings, getenv).APIKey)
	assert.Equal(t, "A", resolveCredentials("", "", settings, getenv).APIKey)

	delete(settings.Env, envAuthToken)
	assert.Equal(t, "B", resolveCredentials("", "", settings, getenv).APIKey)

	delete(settings.Env, envAPIKey)
	assert.Equal(t, "C", resolveCredentials("", "", settings, getenv).APIKey)

	noEnv := func(string) string { return "" }
	assert.Equal(t, "", resolveCredentials("", "", settings, noEnv).APIKey)
}

func TestResolveCredentialsBaseURL(t *testing.T) {
	settings := Settings{Env: map[string]string{envBaseURL: "https://settings.example"}}
	getenv := func(k string) string {
		if k == envBaseURL {
			return "https://env.example"
		}
		return ""
	}

	assert.Equal(t, "https://explicit.example",
		resolveCredentials("", "https://explicit.example", settings, getenv).BaseURL)
	assert.Equal(t, "https://settings.example",
		resolveCredentials("", "", settings, getenv).BaseURL)

	delete(settings.Env, envBaseURL)
	assert.Equal(t, "https://env.example",
		resolveCredentials("", "", settings, getenv).BaseURL)

	noEnv := func(string) string { return "" }
	got := resolveCredentials("", "", settings, noEnv)
	assert.Equal(t, DefaultBaseURL, got.BaseURL, "base URL must never be empty")
}

func TestLoadSettingsDegrades(t *testing.T) {
	d := t.TempDir()

	// missing file
	assert.Equal(t, Settings{}, loadSettings(filepath.Join(d, "missing.json")))

	// malformed file
	bad := filepath.Join(d, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, Settings{}, loadSettings(bad))

	// unknown fields ignored
	ok := filepath.Join(d, "ok.json")
	require.NoError(t, os.WriteFile(ok, []byte(`{"env":{"ANTHROPIC_API_KEY":"k"},"model":"m","future":1}`), 0o644))
	s := loadSettings(ok)
	assert.Equal(t, "k", s.Env[envAPIKey])
	assert.Equal(t, "m", s.Model)
}

// setHome points os.UserHomeDir at a temp dir and clears the Anthropic
// environment so tests only see what they write themselves.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	return home
}

// writeSettings drops a settings.json under home/.claude.
func writeSettings(t *testing.T, home string, s Settings) {
	t.Helper()
	dir := filepath.Join(home, ".claude")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), b, 0o644))
}

func TestResolveCredentialsFromDisk(t *testing.T) {
	home := setHome(t)
	writeSettings(t, home, Settings{Env: map[string]string{
		envAuthToken: "disk-token",
		envBaseURL:   "https://disk.example",
	}})

	creds, err := ResolveCredentials("", "")
	require.NoError(t, err)
	assert.Equal(t, "disk-token", creds.APIKey)
	assert.Equal(t, "https://disk.example", creds.BaseURL)

	// explicit overrides win
	creds, err = ResolveCredentials("explicit", "https://x.example")
	require.NoError(t, err)
	assert.Equal(t, "explicit", creds.APIKey)
	assert.Equal(t, "https://x.example", creds.BaseURL)
}

func TestReadCLIConfig(t *testing.T) {
	home := setHome(t)
	writeSettings(t, home, Settings{
		Env:   map[string]string{envAPIKey: "sk-ant-REDACTED"},
		Model: "claude-sonnet-4-6",
	})

	cfg, err := ReadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Source)
	assert.True(t, cfg.HasAPIKey)
	assert.Equal(t, "sk-...Wxyz", cfg.APIKeyMasked)
	assert.NotContains(t, cfg.APIKeyMasked, "secret")
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "claude-sonnet-4-6", cfg.DefaultModel)
	assert.Equal(t, filepath.Join(home, ".claude", "settings.json"), cfg.ConfigPath)
}

func TestReadCLIConfigNoKey(t *testing.T) {
	setHome(t)
	cfg, err := ReadCLIConfig()
	require.NoError(t, err)
	assert.False(t, cfg.HasAPIKey)
	assert.Equal(t, "", cfg.APIKeyMasked)
}
