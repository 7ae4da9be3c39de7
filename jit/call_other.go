//go:build !amd64 && !arm64

package jit

import "runtime"

func callNative(fn uintptr, a, b int64) int64 {
	panic("jit: native calls are not supported on " + runtime.GOARCH)
}
