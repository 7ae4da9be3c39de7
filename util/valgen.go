// Package valgen builds value generators for test programs.
package valgen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sarchlab/arithjit/instr"
)

// MakeConstGen always yields constant.
func MakeConstGen(constant int64) func() int64 {
	return func() int64 {
		return constant
	}
}

// MakeIncreasingGen yields start+1, start+2, ... wrapping at the int64 bound.
func MakeIncreasingGen(start int64) func() int64 {
	current := start
	return func() int64 {
		current++
		return current
	}
}

// MakeRandomGen yields values spread over the whole int64 range, including
// the bounds, from a fixed seed.
func MakeRandomGen(seed int64) func() int64 {
	rng := rand.New(rand.NewSource(seed))
	edges := []int64{0, 1, -1, 1<<63 - 1, -1 << 63}

	return func() int64 {
		if rng.Intn(8) == 0 {
			return edges[rng.Intn(len(edges))]
		}

		return rng.Int63() - rng.Int63()
	}
}

// MakeOpcodeGen cycles through ops.
func MakeOpcodeGen(ops []instr.Opcode) func() instr.Opcode {
	i := -1
	return func() instr.Opcode {
		i = (i + 1) % len(ops)
		return ops[i]
	}
}

// Script writes n instruction lines using the generators.
func Script(n int, op func() instr.Opcode, src func() int64) string {
	var sb strings.Builder

	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%s %d, %d\n", op(), src(), src())
	}

	return sb.String()
}
