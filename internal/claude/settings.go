package claude

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"sessiond/pkg/types"
)

const (
	// DefaultBaseURL is used when no layer of the chain supplies a base URL.
	DefaultBaseURL = "https://api.anthropic.com"

	envAuthToken = "ANTHROPIC_AUTH_TOKEN"
	envAPIKey    = "ANTHROPIC_API_KEY"
	envBaseURL   = "ANTHROPIC_BASE_URL"
)

// Settings mirrors the shape of ~/.claude/settings.json.
// Unknown fields are ignored.
type Settings struct {
	Env   map[string]string `json:"env"`
	Model string            `json:"model"`
}

// Credentials is the resolved API key and base URL. Never persisted;
// computed fresh on every call. BaseURL is never empty. An empty APIKey
// means unauthenticated.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// settingsPath returns the fixed settings location under the home directory.
func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrConfig("cannot determine home directory")
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// loadSettings reads the settings file. A missing, unreadable, or
// malformed file degrades to empty settings rather than an error.
func loadSettings(path string) Settings {
	var s Settings
	b, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return Settings{}
	}
	return s
}

// resolveCredentials applies the precedence chain against explicit
// snapshots of the settings file and the environment, so resolution is
// deterministic and testable without touching global state.
//
// Key: explicit > settings ANTHROPIC_AUTH_TOKEN > settings
// ANTHROPIC_API_KEY > env ANTHROPIC_API_KEY > "".
// URL: explicit > settings ANTHROPIC_BASE_URL > env ANTHROPIC_BASE_URL >
// DefaultBaseURL.
func resolveCredentials(explicitKey, explicitURL string, s Settings, getenv func(string) string) Credentials {
	key := firstNonEmpty(
		explicitKey,
		s.Env[envAuthToken],
		s.Env[envAPIKey],
		getenv(envAPIKey),
	)
	url := firstNonEmpty(
		explicitURL,
		s.Env[envBaseURL],
		getenv(envBaseURL),
		DefaultBaseURL,
	)
	return Credentials{APIKey: key, BaseURL: url}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveCredentials resolves the API key and base URL from the explicit
// overrides, the on-disk settings file, and the process environment.
// Fails only when the home directory cannot be determined.
func ResolveCredentials(explicitKey, explicitURL string) (Credentials, error) {
	path, err := settingsPath()
	if err != nil {
		return Credentials{}, err
	}
	return resolveCredentials(explicitKey, explicitURL, loadSettings(path), os.Getenv), nil
}

// MaskKey produces a display-safe rendering of an API key. Short keys
// (8 characters or fewer) are masked entirely; longer keys keep exactly
// 3 leading and 4 trailing characters. Middle characters never leak.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:3]) + "..." + string(r[len(r)-4:])
}

// ReadCLIConfig returns the masked view of the CLI configuration for the
// frontend settings panel. The raw key never leaves this package.
func ReadCLIConfig() (types.CLIConfig, error) {
	path, err := settingsPath()
	if err != nil {
		return types.CLIConfig{}, err
	}
	s := loadSettings(path)
	creds := resolveCredentials("", "", s, os.Getenv)
	return types.CLIConfig{
		Source:       "claude",
		APIKeyMasked: MaskKey(creds.APIKey),
		HasAPIKey:    creds.APIKey != "",
		BaseURL:      creds.BaseURL,
		DefaultModel: s.Model,
		ConfigPath:   path,
	}, nil
}
