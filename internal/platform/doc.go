// Package platform provides the filesystem primitives used to rewrite the
// homeserver config in place: permission handling, symlink resolution, and
// an atomic replace that keeps the original file intact when a write fails.
// On Unix it also carries the owner of the replaced file over to the new one.
package platform
