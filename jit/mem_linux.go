//go:build linux

package jit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapExecutable copies code into a fresh anonymous mapping and flips it from
// writable to executable. The mapping is never writable and executable at the
// same time.
func mapExecutable(code []byte) ([]byte, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("no code to map")
	}

	page := unix.Getpagesize()
	size := (len(code) + page - 1) / page * page

	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}

	copy(mem, code)

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("mprotect: %w", err)
	}

	return mem, nil
}

func unmapExecutable(mem []byte) error {
	return unix.Munmap(mem)
}
