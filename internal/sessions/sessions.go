package sessions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sessiond/internal/metadata"
	"sessiond/pkg/types"
)

// ErrNotFound is returned when the transcript file to delete is missing.
var ErrNotFound = errors.New("session file not found")

// Provider enumerates transcript sessions for one source.
type Provider interface {
	Sessions(projectID string) ([]types.SessionIndexEntry, error)
}

// claudeProvider lists *.jsonl transcripts under ~/.claude/projects/<id>.
type claudeProvider struct{}

func (claudeProvider) Sessions(projectID string) ([]types.SessionIndexEntry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".claude", "projects", projectID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.SessionIndexEntry{}, nil
		}
		return nil, fmt.Errorf("read project dir: %w", err)
	}
	out := []types.SessionIndexEntry{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, types.SessionIndexEntry{
			SessionID:  strings.TrimSuffix(name, ".jsonl"),
			FilePath:   filepath.Join(dir, name),
			ModifiedAt: info.ModTime().Unix(),
			SizeBytes:  info.Size(),
		})
	}
	// newest activity first
	sort.SliceStable(out, func(i, j int) bool { return out[i].ModifiedAt > out[j].ModifiedAt })
	return out, nil
}

var providers = map[string]Provider{
	"claude": claudeProvider{},
}

// List returns the session index for a project with per-session metadata
// (alias, tags) merged in.
func List(source, projectID string) ([]types.SessionIndexEntry, error) {
	p, ok := providers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", source)
	}
	out, err := p.Sessions(projectID)
	if err != nil {
		return nil, err
	}
	meta := metadata.Load(source, projectID)
	for i := range out {
		if sm, ok := meta.Sessions[out[i].SessionID]; ok {
			out[i].Alias = sm.Alias
			out[i].Tags = sm.Tags
		}
	}
	return out, nil
}

// Delete removes a transcript file and cleans up its metadata entry.
func Delete(filePath, source, projectID, sessionID string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if source != "" && sessionID != "" {
		// best effort; the transcript itself is already gone
		_ = metadata.Remove(source, projectID, sessionID)
	}
	return nil
}
