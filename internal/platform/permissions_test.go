package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0600); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want %o", perm, 0600)
		}
	}
}

func TestWriteFileOverwritesAndTightensMode(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, ".env")
	if err := os.WriteFile(path, []byte("OLD=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("PORT=3000\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PORT=3000\n" {
		t.Errorf("content = %q, want %q", data, "PORT=3000\n")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want %o", perm, 0600)
		}
	}
}

func TestWriteFileMissingParent(t *testing.T) {
	tmp := t.TempDir()
	if err := WriteFile(filepath.Join(tmp, "nope", "file.txt"), []byte("x"), 0644); err == nil {
		t.Fatal("expected error when parent directory is missing")
	}
}

func TestEnsureDirs(t *testing.T) {
	tmp := t.TempDir()
	dirs := []string{"app", "app/models", "app/routes"}

	if err := EnsureDirs(tmp, dirs, 0755); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	// Second call is a no-op.
	if err := EnsureDirs(tmp, dirs, 0755); err != nil {
		t.Fatalf("EnsureDirs (second call) failed: %v", err)
	}

	for _, d := range dirs {
		info, err := os.Stat(filepath.Join(tmp, d))
		if err != nil {
			t.Errorf("expected %s to exist: %v", d, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}
}
