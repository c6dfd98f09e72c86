package vm

// vm.go defines the machine and assembles it from its smaller parts.

import (
	"fmt"
	"io"
	"strings"

	"github.com/ninebark/synvm/internal/log"
)

// Machine is a Synacor Challenge virtual machine: fixed-size memory, eight
// general-purpose registers, an unbounded stack, and two injected I/O
// callbacks. A Machine owns its memory, registers, and stack for its
// entire life; nothing is shared with any other Machine.
type Machine struct {
	PC  Word
	Reg [NumRegisters]Word
	Mem [MemSize]Word

	Stack []Word

	// InputFunc returns the next input word. It is called synchronously
	// from the "in" opcode; a nil InputFunc yields 0, matching the
	// conforming default for end of input.
	InputFunc func() (Word, error)

	// OutputFunc consumes an output word. It is called synchronously from
	// the "out" opcode; a nil OutputFunc discards the word.
	OutputFunc func(Word) error

	// DiagWriter receives the snapshot the "dmp" opcode writes. It is
	// never the program's output callback. A nil DiagWriter makes dmp a
	// no-op.
	DiagWriter io.Writer

	halted bool
	log    *log.Logger
}

// OptionFn configures a Machine at construction time.
type OptionFn func(*Machine)

// New creates a Machine with zeroed registers, memory, and stack, ready to
// Load a program.
func New(opts ...OptionFn) *Machine {
	m := &Machine{}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithInput installs the machine's input callback.
func WithInput(fn func() (Word, error)) OptionFn {
	return func(m *Machine) { m.InputFunc = fn }
}

// WithOutput installs the machine's output callback.
func WithOutput(fn func(Word) error) OptionFn {
	return func(m *Machine) { m.OutputFunc = fn }
}

// WithDiagWriter installs the sink the dmp opcode writes its snapshot to.
func WithDiagWriter(w io.Writer) OptionFn {
	return func(m *Machine) { m.DiagWriter = w }
}

// Halted reports whether the machine has executed halt.
func (m *Machine) Halted() bool { return m.halted }

func (m *Machine) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "PC: %s  STACK: %d words\n", m.PC, len(m.Stack))

	for i := 0; i < NumRegisters/2; i++ {
		fmt.Fprintf(&b, "R%d: %s  R%d: %s\n", i, m.Reg[i], i+NumRegisters/2, m.Reg[i+NumRegisters/2])
	}

	return b.String()
}
