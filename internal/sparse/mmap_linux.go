//go:build linux

package sparse

import "golang.org/x/sys/unix"

// mmapAnonymous establishes a no-reserve, demand-committed anonymous
// mapping, mirroring the original implementation's
// libc::mmap(PROT_READ|PROT_WRITE, MAP_PRIVATE|MAP_ANONYMOUS|MAP_NORESERVE).
// Pages are only backed by physical memory once a write touches them.
func mmapAnonymous(size int) ([]byte, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
}

func munmapAnonymous(b []byte) error {
	return unix.Munmap(b)
}
