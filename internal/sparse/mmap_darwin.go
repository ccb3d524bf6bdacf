//go:build darwin

package sparse

import "golang.org/x/sys/unix"

// mmapAnonymous establishes a demand-committed anonymous mapping. Darwin
// has no MAP_NORESERVE; overcommit behavior there is already lazy for
// anonymous mappings, so PRIVATE|ANON alone gives the same page-on-write
// semantics the original libc::mmap call relied on.
func mmapAnonymous(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func munmapAnonymous(b []byte) error {
	return unix.Munmap(b)
}
