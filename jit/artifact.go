package jit

import (
	"fmt"
	"unsafe"
)

// Symbol locates one compiled function inside an artifact.
type Symbol struct {
	Name   string
	Offset int
	Size   int
}

// Artifact is the executable result of one compilation. Entry points are
// looked up by function name and stay valid until Close.
type Artifact struct {
	target  *Target
	mem     []byte
	symbols map[string]Symbol
	order   []string
}

// Lookup returns the entry address of the named function.
func (a *Artifact) Lookup(name string) (uintptr, error) {
	if a.mem == nil {
		return 0, ErrArtifactClosed
	}

	sym, ok := a.symbols[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSymbolNotFound, name)
	}

	return uintptr(unsafe.Pointer(&a.mem[sym.Offset])), nil
}

// Symbols lists the compiled functions in layout order.
func (a *Artifact) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(a.order))
	for _, name := range a.order {
		syms = append(syms, a.symbols[name])
	}

	return syms
}

// CodeSize returns the number of bytes of machine code, padding included.
func (a *Artifact) CodeSize() int {
	size := 0
	for _, s := range a.symbols {
		if end := s.Offset + s.Size; end > size {
			size = end
		}
	}

	return size
}

// Target returns the target the artifact was compiled for.
func (a *Artifact) Target() *Target {
	return a.target
}

// Close unmaps the code. Addresses returned by Lookup must not be called
// afterwards. Closing twice is a no-op.
func (a *Artifact) Close() error {
	if a.mem == nil {
		return nil
	}

	mem := a.mem
	a.mem = nil

	return unmapExecutable(mem)
}

// Call invokes the native function at addr with two i64 arguments.
func Call(addr uintptr, a, b int64) int64 {
	return callNative(addr, a, b)
}
