package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"sessiond/internal/common/fsutil"
	"sessiond/pkg/types"
)

const fileName = ".session-viewer-meta.json"

const fileVersion = 1

// mu serializes the load-modify-save cycle in Update and Remove so
// concurrent writers cannot drop each other's entries.
var mu sync.Mutex

// File is the per-(source, project) metadata document.
type File struct {
	Version  int                          `json:"version"`
	Sessions map[string]types.SessionMeta `json:"sessions"`
}

func emptyFile() File {
	return File{Version: fileVersion, Sessions: map[string]types.SessionMeta{}}
}

// pathFor resolves where the metadata file for a given source and
// project lives. Claude keeps one file per project directory; codex has
// a single flat session store so one file next to it.
func pathFor(source, projectID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	switch source {
	case "claude":
		return filepath.Join(home, ".claude", "projects", projectID, fileName), nil
	case "codex":
		return filepath.Join(home, ".codex", fileName), nil
	default:
		return "", fmt.Errorf("unknown source: %s", source)
	}
}

// Load reads the metadata file, degrading to an empty document on any
// read or parse problem.
func Load(source, projectID string) File {
	path, err := pathFor(source, projectID)
	if err != nil {
		return emptyFile()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return emptyFile()
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil || f.Sessions == nil {
		return emptyFile()
	}
	return f
}

// Save writes the metadata file atomically, creating parent directories
// as needed.
func Save(source, projectID string, f File) error {
	path, err := pathFor(source, projectID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return fsutil.WriteFileAtomic(path, b, 0o644)
}

// Update sets the alias and tags for one session. When both are empty
// the entry is removed entirely.
func Update(source, projectID, sessionID, alias string, tags []string) error {
	mu.Lock()
	defer mu.Unlock()
	f := Load(source, projectID)
	if alias == "" && len(tags) == 0 {
		delete(f.Sessions, sessionID)
	} else {
		f.Sessions[sessionID] = types.SessionMeta{Alias: alias, Tags: tags}
	}
	return Save(source, projectID, f)
}

// Remove drops the entry for one session, writing only when it existed.
func Remove(source, projectID, sessionID string) error {
	mu.Lock()
	defer mu.Unlock()
	f := Load(source, projectID)
	if _, ok := f.Sessions[sessionID]; !ok {
		return nil
	}
	delete(f.Sessions, sessionID)
	return Save(source, projectID, f)
}

// AllTags returns the sorted set of tags used within one project.
func AllTags(source, projectID string) []string {
	f := Load(source, projectID)
	set := map[string]struct{}{}
	for _, m := range f.Sessions {
		for _, tag := range m.Tags {
			set[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// CrossProjectTags returns tags for every project of a source, keyed by
// project id (encoded dir name for claude, "" for codex).
func CrossProjectTags(source string) map[string][]string {
	result := map[string][]string{}
	switch source {
	case "claude":
		home, err := os.UserHomeDir()
		if err != nil {
			return result
		}
		projectsDir := filepath.Join(home, ".claude", "projects")
		entries, err := os.ReadDir(projectsDir)
		if err != nil {
			return result
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if tags := AllTags("claude", e.Name()); len(tags) > 0 {
				result[e.Name()] = tags
			}
		}
	case "codex":
		if tags := AllTags("codex", ""); len(tags) > 0 {
			result[""] = tags
		}
	}
	return result
}
