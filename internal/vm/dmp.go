package vm

// dmp.go implements the non-standard diagnostic dump opcode.

import (
	"fmt"

	"github.com/ninebark/synvm/internal/encoding"
)

// dumpWindows are the fixed memory ranges a dump prints, chosen to cover the
// address space regions the challenge's binaries tend to place code and
// data in.
var dumpWindows = [4][2]Word{
	{0x4000, 0x4100},
	{0x4100, 0x4110},
	{0x5000, 0x5100},
	{0x6000, 0x6100},
}

// dump writes a snapshot of registers, stack, and the fixed memory windows
// to DiagWriter. It is a no-op when DiagWriter is nil.
func (m *Machine) dump() error {
	if m.DiagWriter == nil {
		return nil
	}

	if _, err := fmt.Fprintf(m.DiagWriter, "registers: %v\n", m.Reg); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(m.DiagWriter, "stack: %v\n", m.Stack); err != nil {
		return err
	}

	for _, win := range dumpWindows {
		lo, hi := win[0], win[1]

		fmt.Fprintf(m.DiagWriter, "memory (%#04x-%#04x):\n", lo, hi)

		words := make([]uint16, hi-lo)
		for i := range words {
			words[i] = uint16(m.Mem[int(lo)+i])
		}

		if err := encoding.HexDump(m.DiagWriter, uint16(lo), words); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(m.DiagWriter, "-----"); err != nil {
		return err
	}

	return nil
}
