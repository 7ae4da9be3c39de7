package jit

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotInitialized is returned when Compile runs before
	// InitNativeTarget.
	ErrTargetNotInitialized = errors.New("native target not initialized")

	// ErrUnsupportedTarget is returned on hosts without a code generator.
	ErrUnsupportedTarget = errors.New("unsupported native target")

	// ErrSymbolNotFound is returned by Artifact.Lookup for unknown names.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrArtifactClosed is returned when an artifact is used after Close.
	ErrArtifactClosed = errors.New("compiled artifact has been released")

	errDuplicateSymbol = errors.New("function defined more than once")
	errEmptyModule     = errors.New("module defines no functions")
)

// CompilationError reports a failure to turn a module into native code.
// Compilation is never retried.
type CompilationError struct {
	Func string // empty when the failure is not tied to one function
	Err  error
}

func (e *CompilationError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("compilation of @%s failed: %v", e.Func, e.Err)
	}

	return fmt.Sprintf("compilation failed: %v", e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}
