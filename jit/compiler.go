// Package jit compiles generated IR modules into native code inside the
// running process.
//
// The usage is
//
//	if _, err := jit.InitNativeTarget(); err != nil { ... }
//	artifact, err := jit.NewCompiler().Compile(irgen.BuildModule())
//	addr, err := artifact.Lookup("add")
//	sum := jit.Call(addr, 2, 3)
//
// InitNativeTarget is a process-wide, one-time step and must precede the first
// compilation. A compilation failure is final; recompiling the same module
// cannot produce a different outcome.
package jit

import (
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/llir/llvm/ir"

	"github.com/sarchlab/arithjit/irgen"
)

const funcAlign = 16

// image is position-independent machine code for a whole module.
type image struct {
	code    []byte
	symbols map[string]Symbol
	order   []string
}

// Compiler turns IR modules into artifacts for the native target.
type Compiler struct {
	logger *slog.Logger
}

// NewCompiler creates a compiler that logs through slog's default logger.
func NewCompiler() *Compiler {
	return &Compiler{logger: slog.Default()}
}

// WithLogger returns a compiler that logs through l.
func (c *Compiler) WithLogger(l *slog.Logger) *Compiler {
	c.logger = l
	return c
}

// Compile takes ownership of mod and produces its executable artifact.
func (c *Compiler) Compile(mod *irgen.Module) (*Artifact, error) {
	target, ok := initializedTarget()
	if !ok {
		return nil, &CompilationError{Err: ErrTargetNotInitialized}
	}

	irm, err := mod.Release()
	if err != nil {
		return nil, &CompilationError{Err: err}
	}

	return c.compileIR(irm, target)
}

func (c *Compiler) compileIR(irm *ir.Module, target *Target) (*Artifact, error) {
	img, err := assemble(irm, target.Arch)
	if err != nil {
		return nil, err
	}

	mem, err := mapExecutable(img.code)
	if err != nil {
		return nil, &CompilationError{Err: err}
	}

	c.logger.Debug("module compiled",
		"target", target.String(),
		"functions", len(img.order),
		"code", humanize.Bytes(uint64(len(img.code))),
	)

	return &Artifact{
		target:  target,
		mem:     mem,
		symbols: img.symbols,
		order:   img.order,
	}, nil
}

// assemble lowers every defined function of irm for arch and lays the
// functions out back to back, each aligned to funcAlign.
func assemble(irm *ir.Module, arch string) (*image, error) {
	newBackend, err := backendFor(arch)
	if err != nil {
		return nil, &CompilationError{Err: err}
	}

	img := &image{symbols: make(map[string]Symbol)}

	for _, f := range irm.Funcs {
		if len(f.Blocks) == 0 {
			// Declarations have nothing to compile.
			continue
		}

		name := f.Name()
		if _, dup := img.symbols[name]; dup {
			return nil, &CompilationError{Func: name, Err: errDuplicateSymbol}
		}

		be := newBackend()

		body, err := lowerFunc(f, be)
		if err != nil {
			return nil, &CompilationError{Func: name, Err: err}
		}

		for len(img.code)%funcAlign != 0 {
			img.code = append(img.code, be.padByte())
		}

		img.symbols[name] = Symbol{Name: name, Offset: len(img.code), Size: len(body)}
		img.order = append(img.order, name)
		img.code = append(img.code, body...)
	}

	if len(img.order) == 0 {
		return nil, &CompilationError{Err: errEmptyModule}
	}

	return img, nil
}
