// Package store persists the refresh credential and the persist-login preference.
//
// A FileStore is scoped to one origin (the API base URL). Several origins can share
// one file; writes to one origin never drop the others. Writes are serialized across
// processes with a lock file and land atomically via rename.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Entry is the durable state kept for one origin.
type Entry struct {
	RefreshToken string    `json:"refresh_token,omitempty"`
	Persist      bool      `json:"persist"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// fileContents is the on-disk layout, keyed by origin.
type fileContents struct {
	Origins map[string]*Entry `json:"origins"`
}

// FileStore is a Credential Store backed by a JSON file.
type FileStore struct {
	path   string
	origin string
}

// NewFileStore returns a store for origin inside the file at path.
func NewFileStore(path, origin string) *FileStore {
	return &FileStore{path: path, origin: origin}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// BackupPath is where an unreadable credential file is kept when a write replaces it.
func (s *FileStore) BackupPath() string {
	return s.path + ".bak"
}

// Save stores the refresh credential.
func (s *FileStore) Save(token string) error {
	if token == "" {
		return errors.New("refusing to save an empty refresh credential")
	}
	return s.update(func(e *Entry) { e.RefreshToken = token })
}

// Read returns the refresh credential, or "" when none is stored.
func (s *FileStore) Read() (string, error) {
	e, err := s.load()
	if err != nil || e == nil {
		return "", err
	}
	return e.RefreshToken, nil
}

// Clear deletes the refresh credential. The persist preference is kept.
func (s *FileStore) Clear() error {
	return s.update(func(e *Entry) { e.RefreshToken = "" })
}

// Persist reports the stored persist-login preference (false when unset).
func (s *FileStore) Persist() (bool, error) {
	e, err := s.load()
	if err != nil || e == nil {
		return false, err
	}
	return e.Persist, nil
}

// SetPersist stores the persist-login preference.
func (s *FileStore) SetPersist(persist bool) error {
	return s.update(func(e *Entry) { e.Persist = persist })
}

// load reads the entry for this origin without taking the lock.
func (s *FileStore) load() (*Entry, error) {
	contents, err := readContents(s.path)
	if err != nil {
		return nil, err
	}
	return contents.Origins[s.origin], nil
}

func readContents(path string) (*fileContents, error) {
	contents := &fileContents{Origins: make(map[string]*Entry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return contents, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	if err := json.Unmarshal(data, contents); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	if contents.Origins == nil {
		contents.Origins = make(map[string]*Entry)
	}
	return contents, nil
}

// update applies fn to this origin's entry under the file lock and writes the
// result atomically. Entries left with no credential and no preference are dropped.
func (s *FileStore) update(fn func(e *Entry)) (err error) {
	lock, err := acquireFileLock(s.path)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock: %w", releaseErr)
		}
	}()

	// Reload inside the lock so concurrent writers for other origins are kept.
	contents, err := readContents(s.path)
	if err != nil {
		// An unreadable file is moved to BackupPath and replaced.
		if renameErr := os.Rename(s.path, s.BackupPath()); renameErr != nil {
			return fmt.Errorf("%w; failed to back up credential file: %w", err, renameErr)
		}
		contents = &fileContents{Origins: make(map[string]*Entry)}
	}

	e := contents.Origins[s.origin]
	if e == nil {
		e = &Entry{}
	}
	fn(e)
	e.UpdatedAt = time.Now().UTC()

	if e.RefreshToken == "" && !e.Persist {
		delete(contents.Origins, s.origin)
	} else {
		contents.Origins[s.origin] = e
	}

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return err
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf(
				"failed to rename temp file: %v; additionally failed to remove temp file: %w",
				err,
				removeErr,
			)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
