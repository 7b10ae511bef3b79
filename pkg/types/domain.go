package types

// ModelInfo describes a chat model offered to the viewer frontend.
type ModelInfo struct {
	// Stable API model identifier.
	// example: claude-sonnet-4-6
	ID string `json:"id" example:"claude-sonnet-4-6"`
	// Human-friendly display name.
	// example: Sonnet 4.6
	Name string `json:"name" example:"Sonnet 4.6"`
	// Upstream provider name.
	// example: anthropic
	Provider string `json:"provider" example:"anthropic"`
	// Display bucket inferred from the id.
	// example: Claude Sonnet
	Group string `json:"group" example:"Claude Sonnet"`
	// Creation time as unix seconds; nil when the API did not report one.
	Created *int64 `json:"created,omitempty"`
}

// ChatMessage is one turn of a conversation sent to the chat API.
type ChatMessage struct {
	// example: user
	Role string `json:"role" example:"user"`
	// example: Hello!
	Content string `json:"content" example:"Hello!"`
}

// Bookmark marks a message (or a whole session) in a transcript.
type Bookmark struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	ProjectID    string `json:"projectId"`
	SessionID    string `json:"sessionId"`
	FilePath     string `json:"filePath"`
	MessageID    string `json:"messageId,omitempty"`
	Preview      string `json:"preview"`
	SessionTitle string `json:"sessionTitle"`
	ProjectName  string `json:"projectName"`
	CreatedAt    string `json:"createdAt"`
}

// SessionMeta holds the user-assigned alias and tags for one session.
type SessionMeta struct {
	Alias string   `json:"alias,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// SessionIndexEntry is one row in the session list for a project.
type SessionIndexEntry struct {
	SessionID  string   `json:"sessionId"`
	FilePath   string   `json:"filePath"`
	ModifiedAt int64    `json:"modifiedAt"`
	SizeBytes  int64    `json:"sizeBytes"`
	Alias      string   `json:"alias,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// CLIInstallation describes a discovered assistant CLI binary.
type CLIInstallation struct {
	// example: /usr/local/bin/claude
	Path string `json:"path" example:"/usr/local/bin/claude"`
	// example: 2.1.0
	Version string `json:"version,omitempty" example:"2.1.0"`
	// example: claude
	CLIType string `json:"cliType" example:"claude"`
}
