// Package daemon glues the stores and the Claude API client together
// behind the single facade the HTTP layer talks to.
package daemon

import (
	"context"

	"sessiond/internal/bookmarks"
	"sessiond/internal/claude"
	"sessiond/internal/clidetect"
	"sessiond/internal/metadata"
	"sessiond/internal/sessions"
	"sessiond/pkg/types"
)

type Daemon struct{}

func New() *Daemon { return &Daemon{} }

func (*Daemon) ListModels(ctx context.Context, explicitKey, explicitURL string) ([]types.ModelInfo, error) {
	return claude.ListModels(ctx, explicitKey, explicitURL)
}

func (*Daemon) StreamChat(ctx context.Context, messages []types.ChatMessage, model string, onChunk func(string)) error {
	return claude.StreamChat(ctx, messages, model, onChunk)
}

func (*Daemon) CLIConfig() (types.CLIConfig, error) { return claude.ReadCLIConfig() }

func (*Daemon) ListBookmarks(source string) []types.Bookmark { return bookmarks.List(source) }

func (*Daemon) AddBookmark(bm types.Bookmark) (types.Bookmark, error) { return bookmarks.Add(bm) }

func (*Daemon) RemoveBookmark(id string) error { return bookmarks.Remove(id) }

func (*Daemon) ListSessions(source, projectID string) ([]types.SessionIndexEntry, error) {
	return sessions.List(source, projectID)
}

func (*Daemon) DeleteSession(filePath, source, projectID, sessionID string) error {
	return sessions.Delete(filePath, source, projectID, sessionID)
}

func (*Daemon) UpdateSessionMeta(req types.UpdateMetaRequest) error {
	return metadata.Update(req.Source, req.ProjectID, req.SessionID, req.Alias, req.Tags)
}

func (*Daemon) AllTags(source, projectID string) []string {
	return metadata.AllTags(source, projectID)
}

func (*Daemon) CrossProjectTags(source string) map[string][]string {
	return metadata.CrossProjectTags(source)
}

func (*Daemon) DiscoverCLI() []types.CLIInstallation { return clidetect.Discover() }
