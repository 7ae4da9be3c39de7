//go:build !linux

package jit

import (
	"fmt"
	"runtime"
)

func mapExecutable(code []byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: executable memory on %s", ErrUnsupportedTarget, runtime.GOOS)
}

func unmapExecutable(mem []byte) error {
	return nil
}
