package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/vectord/internal/models"
)

func TestFiles(t *testing.T) {
	if got := Files(BackendBolt, ""); got != nil {
		t.Errorf("empty path: got %v", got)
	}
	if got := Files(BackendBolt, "/x/v.db"); len(got) != 1 || got[0] != "/x/v.db" {
		t.Errorf("bolt: got %v", got)
	}
	got := Files(BackendSQLite, "/x/v.db")
	want := []string{"/x/v.db", "/x/v.db-wal", "/x/v.db-shm"}
	if len(got) != len(want) {
		t.Fatalf("sqlite: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sqlite[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiskUsage_SQLiteSiblings(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "v.db")
	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := DiskUsage(BackendSQLite, db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("got %d bytes, want 8", got)
	}

	// bolt ignores the siblings
	got, err = DiskUsage(BackendBolt, db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("bolt: got %d bytes, want 5", got)
	}
}

func TestDiskUsage_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := DiskUsage(BackendBadger, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("got %d bytes, want 3", got)
	}
}

func TestDiskUsage_Missing(t *testing.T) {
	got, err := DiskUsage(BackendSQLite, filepath.Join(t.TempDir(), "nope.db"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestDiskUsage_OpenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.db")
	s, err := Open(BackendBolt, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Replace(context.Background(), []models.Record{{Text: "abc", Embedding: []float32{97, 98, 99}}}); err != nil {
		t.Fatal(err)
	}
	got, err := DiskUsage(s.Backend(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got == 0 {
		t.Error("expected non-zero usage for an open bolt store")
	}
}
