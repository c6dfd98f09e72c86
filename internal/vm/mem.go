package vm

// mem.go defines the machine's flat memory and the binary image loader.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MemSize is the number of addressable words in the machine's memory: the
// full 15-bit address space, [0, 0x7FFF].
const MemSize = 0x8000

// ErrImageTooLarge is returned by Load when the image does not fit in
// memory. The reference implementation truncates silently instead; this
// implementation prefers an explicit error (see SPEC_FULL.md §5).
var ErrImageTooLarge = errors.New("vm: image exceeds memory size")

// Load reads little-endian words from r into memory starting at address 0
// until r is exhausted, and returns the count of words loaded. Memory
// beyond the image keeps its prior contents, zero for a freshly
// constructed Machine. An image longer than MemSize words is rejected
// rather than silently truncated.
func (m *Machine) Load(r io.Reader) (int, error) {
	for addr := 0; ; addr++ {
		var w uint16

		err := binary.Read(r, binary.LittleEndian, &w)

		switch {
		case errors.Is(err, io.EOF):
			return addr, nil
		case err != nil:
			return addr, fmt.Errorf("vm: load: %w", err)
		case addr >= MemSize:
			return addr, ErrImageTooLarge
		}

		m.Mem[addr] = Word(w)
	}
}
