//go:build amd64 || arm64

package jit

// callNative calls the function at fn with a and b in the first two integer
// argument registers of the platform C convention and returns its integer
// result. Implemented in call_amd64.s and call_arm64.s.
func callNative(fn uintptr, a, b int64) int64
