// Package file implements the text repository as one JSON file per snippet,
// the layout the service originally shipped with. It remains available via
// STORE_BACKEND=file so existing data directories keep working.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/textshare/internal/apperror"
	"github.com/sakif/textshare/internal/model"
	"github.com/sakif/textshare/internal/repository"
)

var _ repository.TextRepository = (*Store)(nil)

// Store persists snippets under dir as <id>.json.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: creating data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// record is the on-disk shape. Unlike model.Snippet it serializes the hash
// and salt — they have to round-trip through the file, they just never leave
// this package in JSON form.
type record struct {
	Text         string     `json:"text"`
	Syntax       string     `json:"syntax"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	IsProtected  bool       `json:"isProtected"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	PasswordSalt string     `json:"passwordSalt,omitempty"`
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the record via a temp file and rename, so a concurrent Load
// sees either the old record or the new one, never a torn write.
func (s *Store) Save(_ context.Context, snippet *model.Snippet) error {
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = time.Now()
	}
	if snippet.LastActivity.IsZero() {
		snippet.LastActivity = snippet.CreatedAt
	}

	data, err := json.Marshal(record{
		Text:         snippet.Text,
		Syntax:       snippet.Syntax,
		CreatedAt:    snippet.CreatedAt,
		LastActivity: snippet.LastActivity,
		ExpiresAt:    snippet.ExpiresAt,
		IsProtected:  snippet.IsProtected,
		PasswordHash: snippet.PasswordHash,
		PasswordSalt: snippet.PasswordSalt,
	})
	if err != nil {
		return fmt.Errorf("file: encoding text %s: %w", snippet.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, snippet.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: creating temp file for %s: %w", snippet.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("file: writing text %s: %w", snippet.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file: closing temp file for %s: %w", snippet.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(snippet.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file: renaming text %s into place: %w", snippet.ID, err)
	}
	return nil
}

// Load reads a record, treating missing, unreadable and corrupt files
// identically as not-found, and reaping expired records on the way out.
func (s *Store) Load(ctx context.Context, id string) (*model.Snippet, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, apperror.NotFound("text", id)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt record is as good as gone. Don't tell the caller more
		// than "not found" — there's nothing they could do differently.
		return nil, apperror.NotFound("text", id)
	}

	snippet := &model.Snippet{
		ID:           id,
		Text:         rec.Text,
		Syntax:       rec.Syntax,
		CreatedAt:    rec.CreatedAt,
		LastActivity: rec.LastActivity,
		ExpiresAt:    rec.ExpiresAt,
		IsProtected:  rec.IsProtected,
		PasswordHash: rec.PasswordHash,
		PasswordSalt: rec.PasswordSalt,
	}

	if snippet.Expired(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, apperror.NotFound("text", id)
	}

	return snippet, nil
}

// Delete removes the record file; an already-missing file is not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file: deleting text %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a record file is present, without decoding it.
func (s *Store) Exists(_ context.Context, id string) (bool, error) {
	_, err := os.Stat(s.path(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("file: checking text %s: %w", id, err)
}
