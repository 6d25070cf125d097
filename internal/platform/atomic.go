package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces the file at path with data. The bytes are written
// to a temporary file in the same directory, synced, and renamed over the
// destination, so readers see either the old or the new content and never a
// truncated file.
//
// If path is a symlink, the file it points to is replaced and the link is
// left alone. The permission bits (and on Unix, best effort, the owner) of
// an existing destination are carried over; perm applies to new files.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	target, err := ResolveTarget(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)

	var existing os.FileInfo
	if info, err := os.Stat(target); err == nil {
		existing = info
		perm = info.Mode().Perm()
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions on temp file: %w", err)
	}
	if existing != nil {
		copyOwner(existing, tmpPath)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", target, err)
	}
	success = true

	// Make the rename durable. Failure here does not undo the write.
	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}

	return nil
}
