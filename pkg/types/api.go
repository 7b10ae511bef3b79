package types

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	// Concrete API model identifier, not a CLI display alias.
	// example: claude-sonnet-4-6
	Model string `json:"model" example:"claude-sonnet-4-6"`
	// Conversation so far, oldest first.
	Messages []ChatMessage `json:"messages"`
}

// ChatChunk is one NDJSON line of the streamed /chat response.
type ChatChunk struct {
	// Incremental text fragment.
	// example: Hello
	Text string `json:"text,omitempty" example:"Hello"`
	// Set on the final line only.
	// example: true
	Done bool `json:"done,omitempty" example:"true"`
}

// ModelsResponse wraps the list returned by GET /models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// CLIConfig is the masked view of the assistant CLI configuration
// returned by GET /config. The raw API key never leaves the daemon.
type CLIConfig struct {
	// example: claude
	Source string `json:"source" example:"claude"`
	// example: sk-...Wxyz
	APIKeyMasked string `json:"apiKeyMasked" example:"sk-...Wxyz"`
	// example: true
	HasAPIKey bool `json:"hasApiKey" example:"true"`
	// example: https://api.anthropic.com
	BaseURL string `json:"baseUrl" example:"https://api.anthropic.com"`
	// example: claude-sonnet-4-6
	DefaultModel string `json:"defaultModel" example:"claude-sonnet-4-6"`
	// example: /home/user/.claude/settings.json
	ConfigPath string `json:"configPath" example:"/home/user/.claude/settings.json"`
}

// UpdateMetaRequest is the payload for POST /sessions/meta.
type UpdateMetaRequest struct {
	Source    string   `json:"source"`
	ProjectID string   `json:"projectId"`
	SessionID string   `json:"sessionId"`
	Alias     string   `json:"alias,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
