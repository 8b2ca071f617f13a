package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.png"))
	touch(t, filepath.Join(root, "b.JPG"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "c.tiff"))
	touch(t, filepath.Join(root, ".hidden", "d.png"))
	touch(t, filepath.Join(root, ".e.png"))

	paths, stats, err := CollectFiles(root, nil, true)
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3: %v", len(paths), paths)
	}
	if stats.Matched != 3 {
		t.Errorf("Matched = %d, want 3", stats.Matched)
	}
	for _, p := range paths {
		base := filepath.Base(p)
		if base == "notes.txt" || base == "d.png" || base == ".e.png" {
			t.Errorf("unexpected path collected: %s", p)
		}
	}
}

func TestCollectFilesIncludesHidden(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".hidden", "d.png"))

	paths, _, err := CollectFiles(root, nil, false)
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
}

func TestCollectFilesCustomExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.png"))
	touch(t, filepath.Join(root, "b.bmp"))

	paths, _, err := CollectFiles(root, []string{"BMP"}, true)
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "b.bmp" {
		t.Fatalf("paths = %v, want only b.bmp", paths)
	}
}

func TestCollectFilesEmptyRoot(t *testing.T) {
	if _, _, err := CollectFiles("  ", nil, true); err == nil {
		t.Fatal("expected error for empty root")
	}
}
