//go:build linux || darwin

package moving

import "golang.org/x/sys/unix"

// freeBytes returns the number of bytes available to unprivileged callers on
// the volume holding path, or -1 if the volume cannot be queried.
func freeBytes(path string) int64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return -1
	}
	return int64(stat.Bavail) * int64(stat.Bsize)
}

// writable reports whether the calling process may write into the directory.
func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
