package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"sessiond/internal/common/fsutil"
	"sessiond/pkg/types"
)

const fileVersion = 1

// ErrDuplicate is returned when a bookmark for the same message exists.
var ErrDuplicate = errors.New("bookmark already exists")

// ErrNotFound is returned when removing an unknown bookmark id.
var ErrNotFound = errors.New("bookmark not found")

// mu serializes the load-modify-save cycle so concurrent writers cannot
// drop each other's updates. The atomic rename in save only protects
// against torn files, not lost writes.
var mu sync.Mutex

// File is the on-disk bookmark collection.
type File struct {
	Version   int              `json:"version"`
	Bookmarks []types.Bookmark `json:"bookmarks"`
}

func emptyFile() File { return File{Version: fileVersion, Bookmarks: []types.Bookmark{}} }

func storePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".session-viewer-bookmarks.json"), nil
}

// Load reads the bookmark file. Any read or parse problem degrades to an
// empty collection; bookmarks are convenience data, not critical state.
func Load() File {
	path, err := storePath()
	if err != nil {
		return emptyFile()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return emptyFile()
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil || f.Bookmarks == nil {
		return emptyFile()
	}
	return f
}

func save(f File) error {
	path, err := storePath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	return fsutil.WriteFileAtomic(path, b, 0o644)
}

// Add stores a new bookmark, filling in id and createdAt when empty.
// A bookmark for the same (source, session, message) is rejected.
func Add(bm types.Bookmark) (types.Bookmark, error) {
	mu.Lock()
	defer mu.Unlock()
	f := Load()
	for _, b := range f.Bookmarks {
		if b.Source == bm.Source && b.SessionID == bm.SessionID && b.MessageID == bm.MessageID {
			return types.Bookmark{}, ErrDuplicate
		}
	}
	if bm.ID == "" {
		bm.ID = uuid.NewString()
	}
	if bm.CreatedAt == "" {
		bm.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	f.Bookmarks = append(f.Bookmarks, bm)
	if err := save(f); err != nil {
		return types.Bookmark{}, err
	}
	return bm, nil
}

// Remove deletes a bookmark by id.
func Remove(id string) error {
	mu.Lock()
	defer mu.Unlock()
	f := Load()
	kept := f.Bookmarks[:0]
	for _, b := range f.Bookmarks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(f.Bookmarks) {
		return ErrNotFound
	}
	f.Bookmarks = kept
	return save(f)
}

// List returns all bookmarks, optionally filtered by source.
func List(source string) []types.Bookmark {
	f := Load()
	if source == "" {
		return f.Bookmarks
	}
	out := []types.Bookmark{}
	for _, b := range f.Bookmarks {
		if b.Source == source {
			out = append(out, b)
		}
	}
	return out
}
