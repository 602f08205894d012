// Package contentfile backs up and overwrites the content document on disk.
package contentfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// Backup filename prefixes.
const (
	BackupPrefix    = "content-backup-"
	PreFixPrefix    = "content-backup-before-fix-"
	timestampLayout = "2006-01-02T15-04-05"
)

// Store is the content document plus its backup directory.
type Store struct {
	Path      string
	BackupDir string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Store for the document at path.
func New(path, backupDir string) *Store {
	return &Store{Path: path, BackupDir: backupDir, Now: time.Now}
}

// Read returns the document bytes.
func (s *Store) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("content file not found: %s", s.Path)
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return data, nil
}

// BackupName returns the backup filename for prefix at t.
func BackupName(prefix string, t time.Time) string {
	return prefix + t.UTC().Format(timestampLayout) + ".json"
}

// Backup copies the current document verbatim into the backup directory and
// returns the path written.
func (s *Store) Backup() (string, error) {
	data, err := s.Read()
	if err != nil {
		return "", err
	}
	return s.WriteBackup(BackupPrefix, data)
}

// WriteBackup writes data into the backup directory under a timestamped name.
func (s *Store) WriteBackup(prefix string, data []byte) (string, error) {
	if err := os.MkdirAll(s.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory %s: %w", s.BackupDir, err)
	}
	path := filepath.Join(s.BackupDir, BackupName(prefix, s.now()))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", path, err)
	}
	return path, nil
}

// Update overwrites the document with data verbatim. Data is not validated.
func (s *Store) Update(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.Path), err)
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}

// BackupAndUpdate backs up the document and, only if that succeeded,
// overwrites it with data.
func (s *Store) BackupAndUpdate(data []byte) (string, error) {
	backup, err := s.Backup()
	if err != nil {
		return "", fmt.Errorf("backup failed, content not updated: %w", err)
	}
	if err := s.Update(data); err != nil {
		return backup, err
	}
	return backup, nil
}

// ReadSource resolves an update argument: the contents of the file it names
// if that file exists, otherwise the argument itself.
func ReadSource(arg string) ([]byte, bool, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return []byte(arg), false, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, true, fmt.Errorf("reading %s: %w", arg, err)
	}
	return data, true, nil
}

// Indent reformats a JSON document with two-space indentation.
func Indent(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting json: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
