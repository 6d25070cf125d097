package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// maxSymlinkHops matches the ELOOP limit used by Linux.
const maxSymlinkHops = 40

// ErrSymlinkLoop is returned by ResolveTarget when a chain of links does not
// terminate within maxSymlinkHops.
var ErrSymlinkLoop = errors.New("too many levels of symbolic links")

// ResolveTarget follows path through any chain of symlinks and returns the
// path of the regular file the chain ends at. Relative link targets are
// resolved against the directory containing the link. A path that does not
// exist (including a dangling link target) is returned as-is so callers can
// create it.
func ResolveTarget(path string) (string, error) {
	current := path
	for i := 0; i < maxSymlinkHops; i++ {
		info, err := os.Lstat(current)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return current, nil
			}
			return "", fmt.Errorf("inspecting %s: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return current, nil
		}

		target, err := os.Readlink(current)
		if err != nil {
			return "", fmt.Errorf("reading symlink %s: %w", current, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}
	return "", fmt.Errorf("resolving %s: %w", path, ErrSymlinkLoop)
}
