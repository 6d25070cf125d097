//go:build unix

package platform

import (
	"os"
	"syscall"
)

// copyOwner gives dst the uid/gid recorded in src. Unprivileged processes
// can only chown to themselves, so failures are ignored.
func copyOwner(src os.FileInfo, dst string) {
	st, ok := src.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	_ = os.Lchown(dst, int(st.Uid), int(st.Gid))
}
