//go:build !linux && !darwin

package sparse

// mmapAnonymous falls back to a plain heap allocation on platforms
// without an anonymous-mmap syscall wrapper in golang.org/x/sys/unix
// (e.g. Windows). The sparse slice still behaves correctly — reads of
// never-written indices return the zero value — it simply loses the
// demand-paging benefit the mmap-backed path provides.
func mmapAnonymous(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func munmapAnonymous(b []byte) error {
	return nil
}
