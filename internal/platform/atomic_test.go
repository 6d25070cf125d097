package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFileAtomic_Replaces(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "homeserver.yaml")
	if err := os.WriteFile(path, []byte("old: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new: true\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new: true\n" {
		t.Errorf("content = %q, want %q", data, "new: true\n")
	}
	assertNoTempFiles(t, tmp)
}

func TestWriteFileAtomic_CreatesWithPerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fresh.yaml")

	if err := WriteFileAtomic(path, []byte("a: 1\n"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want %o", perm, 0600)
	}
}

func TestWriteFileAtomic_KeepsExistingPerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}
	tmp := t.TempDir()
	path := filepath.Join(tmp, "homeserver.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0640); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("a: 2\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0640 {
		t.Errorf("permissions = %o, want %o", perm, 0640)
	}
}

func TestWriteFileAtomic_ThroughSymlink(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()
	realPath := filepath.Join(tmp, "real.yaml")
	link := filepath.Join(tmp, "homeserver.yaml")
	if err := os.WriteFile(realPath, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("real.yaml", link); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(link, []byte("a: 2\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink was replaced by a regular file")
	}
	data, err := os.ReadFile(realPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a: 2\n" {
		t.Errorf("target content = %q, want %q", data, "a: 2\n")
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nope", "homeserver.yaml")

	if err := WriteFileAtomic(path, []byte("a: 1\n"), 0644); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
	assertNoTempFiles(t, tmp)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) > 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}
