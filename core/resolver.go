package core

import (
	"github.com/sarchlab/arithjit/instr"
)

// SymbolTable maps native function names to entry addresses. A compiled
// artifact is a SymbolTable.
type SymbolTable interface {
	Lookup(name string) (uintptr, error)
}

type cacheEntry struct {
	addr uintptr
	hits int
}

// SymbolStats describes one cached native function.
type SymbolStats struct {
	Op   instr.Opcode
	Addr uintptr
	Hits int // requests served from the cache
}

// ResolverStats summarizes the work done by a Resolver.
type ResolverStats struct {
	Lookups int // requests forwarded to the symbol table
	Hits    int
	Symbols []SymbolStats
}

// Resolver memoizes the entry address of each opcode's native function. The
// symbol table is consulted at most once per distinct opcode. Entries are
// never replaced or evicted.
type Resolver struct {
	table   SymbolTable
	entries map[instr.Opcode]*cacheEntry
	order   []instr.Opcode
	lookups int
}

// NewResolver creates a resolver with an empty cache over table.
func NewResolver(table SymbolTable) *Resolver {
	if table == nil {
		panic("resolver needs a symbol table")
	}

	return &Resolver{
		table:   table,
		entries: make(map[instr.Opcode]*cacheEntry),
	}
}

// Resolve returns the entry address of the native function implementing op.
func (r *Resolver) Resolve(op instr.Opcode) (uintptr, error) {
	if e, ok := r.entries[op]; ok {
		e.hits++
		return e.addr, nil
	}

	r.lookups++

	addr, err := r.table.Lookup(op.String())
	if err != nil {
		return 0, &SymbolResolutionError{Op: op, Err: err}
	}

	r.entries[op] = &cacheEntry{addr: addr}
	r.order = append(r.order, op)

	Trace("Resolve",
		"Op", op.String(),
		"Addr", addr,
	)

	return addr, nil
}

// Cached reports the cached address of op without consulting the table.
func (r *Resolver) Cached(op instr.Opcode) (uintptr, bool) {
	e, ok := r.entries[op]
	if !ok {
		return 0, false
	}

	return e.addr, true
}

// Stats returns the cache content in first-resolution order.
func (r *Resolver) Stats() ResolverStats {
	s := ResolverStats{Lookups: r.lookups}

	for _, op := range r.order {
		e := r.entries[op]
		s.Hits += e.hits
		s.Symbols = append(s.Symbols, SymbolStats{Op: op, Addr: e.addr, Hits: e.hits})
	}

	return s
}
