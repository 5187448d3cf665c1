// Package stores provides on-disk persistence for review sessions. Each
// working tree maps to one JSON file under <data-dir>/sessions, keyed by a
// hash of the repository root so paths never leak into file names.
package stores

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colonyops/redline/internal/core/review"
)

// SessionStore persists review sessions as JSON files.
type SessionStore struct {
	dir string
}

// NewSessionStore creates a store rooted at <dataDir>/sessions. The
// directory is created lazily on first save.
func NewSessionStore(dataDir string) *SessionStore {
	return &SessionStore{dir: filepath.Join(dataDir, "sessions")}
}

// Path returns the session file path for the given repository root.
func (s *SessionStore) Path(root string) string {
	sum := sha256.Sum256([]byte(root))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])[:16]+".json")
}

// sessionFile is the on-disk envelope. RepoRoot is stored alongside the
// session so files remain self-describing when listed.
type sessionFile struct {
	RepoRoot string          `json:"repo_root"`
	SavedAt  time.Time       `json:"saved_at"`
	Session  *review.Session `json:"session"`
}

// Load reads the persisted session for root. The second return is false
// when no session file exists. Staleness (base revision mismatch) is the
// caller's concern; Load returns whatever was stored.
func (s *SessionStore) Load(root string) (*review.Session, bool, error) {
	data, err := os.ReadFile(s.Path(root))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parse session file: %w", err)
	}
	if f.Session == nil {
		return nil, false, fmt.Errorf("session file %s has no session payload", s.Path(root))
	}

	return f.Session, true, nil
}

// Save writes the session atomically (temp file + rename) and returns the
// file path. A failed save never leaves a partially written session file
// in place.
func (s *SessionStore) Save(root string, sess *review.Session) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create sessions dir: %w", err)
	}

	data, err := json.MarshalIndent(sessionFile{
		RepoRoot: root,
		SavedAt:  time.Now(),
		Session:  sess,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	path := s.Path(root)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace session file: %w", err)
	}

	return path, nil
}

// Delete removes the session file for root. Missing files are not an
// error.
func (s *SessionStore) Delete(root string) error {
	err := os.Remove(s.Path(root))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// SessionInfo summarizes one stored session for listings.
type SessionInfo struct {
	RepoRoot     string    `json:"repo_root"`
	BaseRevision string    `json:"base_revision"`
	Files        int       `json:"files"`
	Reviewed     int       `json:"reviewed"`
	Comments     int       `json:"comments"`
	SavedAt      time.Time `json:"saved_at"`
	Path         string    `json:"path"`
}

// List returns summaries of every stored session, skipping files that fail
// to parse rather than aborting the whole listing.
func (s *SessionStore) List() ([]SessionInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}

	var infos []SessionInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var f sessionFile
		if err := json.Unmarshal(data, &f); err != nil || f.Session == nil {
			continue
		}

		infos = append(infos, SessionInfo{
			RepoRoot:     f.RepoRoot,
			BaseRevision: f.Session.BaseRevision,
			Files:        len(f.Session.Files),
			Reviewed:     f.Session.ReviewedCount(),
			Comments:     f.Session.CommentCount(),
			SavedAt:      f.SavedAt,
			Path:         path,
		})
	}

	return infos, nil
}
