package vm

// exec.go defines the machine's instruction cycle.

import (
	"context"
	"errors"
	"fmt"
)

// ErrStackUnderflow is returned by pop and ret when the stack is empty.
var ErrStackUnderflow = errors.New("vm: pop from empty stack")

// Step fetches, decodes, and executes exactly one instruction.
func (m *Machine) Step() error {
	pc := m.PC

	instr, err := m.Decode()
	if err != nil {
		return err
	}

	if m.log != nil {
		m.log.Debug("step", "pc", pc.String(), "op", instr.Opcode().String())
	}

	if err := instr.Execute(m); err != nil {
		if m.log != nil {
			m.log.Error("fault", "pc", pc.String(), "op", instr.Opcode().String(), "err", err)
		}

		return err
	}

	return nil
}

// Fetch reads the word at the program counter and advances it by one.
func (m *Machine) Fetch() (Word, error) {
	if int(m.PC) >= len(m.Mem) {
		return 0, fmt.Errorf("vm: program counter out of range: %s", m.PC)
	}

	w := m.Mem[m.PC]
	m.PC++

	return w, nil
}

// Decode fetches an opcode word and its operands, returning the decoded
// Instruction.
func (m *Machine) Decode() (Instruction, error) {
	return Decode(m.Fetch)
}

// Run calls Step in a loop until halt is reached, a fault occurs, or ctx is
// done. The loop never suspends on its own; blocking happens only inside
// the injected InputFunc.
func (m *Machine) Run(ctx context.Context) error {
	if m.log != nil {
		m.log.Info("run")
	}

	for !m.halted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := m.Step(); err != nil {
			return err
		}
	}

	if m.log != nil {
		m.log.Info("halted", "pc", m.PC.String())
	}

	return nil
}

// Value resolves a parameter to a word: a literal's own value, or the
// current contents of the register it names.
func (m *Machine) Value(p Param) Word {
	if p.IsRegister() {
		return m.Reg[p.Register()]
	}

	return p.LiteralValue()
}

// SetRegister stores w into register r, reduced modulo ModBase so that
// every register write lands in the machine's 15-bit value space.
func (m *Machine) SetRegister(r Register, w Word) {
	m.Reg[r] = w % ModBase
}

// PushStack pushes w onto the stack.
func (m *Machine) PushStack(w Word) {
	m.Stack = append(m.Stack, w)
}

// PopStack pops and returns the top of the stack, or ErrStackUnderflow if
// the stack is empty.
func (m *Machine) PopStack() (Word, error) {
	if len(m.Stack) == 0 {
		return 0, ErrStackUnderflow
	}

	top := len(m.Stack) - 1
	w := m.Stack[top]
	m.Stack = m.Stack[:top]

	return w, nil
}
