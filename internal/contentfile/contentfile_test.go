package contentfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newStore(t *testing.T, initial string) *Store {
	t.Helper()
	dir := t.TempDir()
	s := New(filepath.Join(dir, "config", "content.json"), filepath.Join(dir, "content-backup"))
	s.Now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 800, time.UTC) }
	if initial != "" {
		if err := s.Update([]byte(initial)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

func TestBackupName(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := BackupName(BackupPrefix, ts); got != "content-backup-2025-03-04T05-06-07.json" {
		t.Errorf("BackupName = %q", got)
	}
	if got := BackupName(PreFixPrefix, ts); got != "content-backup-before-fix-2025-03-04T05-06-07.json" {
		t.Errorf("BackupName = %q", got)
	}
}

func TestBackupCopiesVerbatim(t *testing.T) {
	original := "{\"site\":  {\"title\": \"x\"}}\n"
	s := newStore(t, original)

	path, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Dir(path) != s.BackupDir {
		t.Errorf("backup written to %s, want dir %s", path, s.BackupDir)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != original {
		t.Errorf("backup = %q, want %q", got, original)
	}
}

func TestBackupMissingDocument(t *testing.T) {
	s := newStore(t, "")
	if _, err := s.Backup(); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Backup err = %v, want not found", err)
	}
	if _, err := os.Stat(s.BackupDir); !os.IsNotExist(err) {
		t.Error("backup dir should not be created when there is nothing to back up")
	}
}

func TestUpdateWritesVerbatimAndCreatesDir(t *testing.T) {
	s := newStore(t, "")
	// Malformed JSON is written through unchanged.
	if err := s.Update([]byte("{not json")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{not json" {
		t.Errorf("content = %q", got)
	}
}

func TestBackupThenUpdateRoundTrip(t *testing.T) {
	original := "{\n  \"site\": {\"title\": \"Before\"}\n}"
	s := newStore(t, original)

	backup, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := s.Update([]byte(`{"site":{"title":"After"}}`)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	src, fromFile, err := ReadSource(backup)
	if err != nil || !fromFile {
		t.Fatalf("ReadSource(%s) = %v, %v", backup, fromFile, err)
	}
	if err := s.Update(src); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ := os.ReadFile(s.Path)
	if string(got) != original {
		t.Errorf("restored = %q, want %q", got, original)
	}
}

func TestBackupAndUpdate(t *testing.T) {
	s := newStore(t, `{"v":1}`)
	backup, err := s.BackupAndUpdate([]byte(`{"v":2}`))
	if err != nil {
		t.Fatalf("BackupAndUpdate: %v", err)
	}
	b, _ := os.ReadFile(backup)
	c, _ := os.ReadFile(s.Path)
	if string(b) != `{"v":1}` || string(c) != `{"v":2}` {
		t.Errorf("backup = %s, content = %s", b, c)
	}
}

func TestBackupAndUpdateSkipsUpdateWhenBackupFails(t *testing.T) {
	s := newStore(t, "")
	if _, err := s.BackupAndUpdate([]byte(`{"v":2}`)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(s.Path); !os.IsNotExist(err) {
		t.Error("content should not be written when backup fails")
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "new.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, fromFile, err := ReadSource(file)
	if err != nil || !fromFile || string(data) != `{"from":"file"}` {
		t.Errorf("file source: %q %v %v", data, fromFile, err)
	}

	data, fromFile, err = ReadSource(`{"site":{"title":"New"}}`)
	if err != nil || fromFile || string(data) != `{"site":{"title":"New"}}` {
		t.Errorf("literal source: %q %v %v", data, fromFile, err)
	}

	// A directory is not a source file.
	data, fromFile, _ = ReadSource(dir)
	if fromFile || string(data) != dir {
		t.Errorf("dir source: %q %v", data, fromFile)
	}
}

func TestIndent(t *testing.T) {
	got, err := Indent([]byte(`{"a":[1,2],"b":{"c":"d"}}`))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {\n    \"c\": \"d\"\n  }\n}"
	if string(got) != want {
		t.Errorf("Indent = %q, want %q", got, want)
	}
	if _, err := Indent([]byte("{")); err == nil {
		t.Error("expected error for malformed json")
	}
}
