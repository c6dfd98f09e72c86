package vm

// instr.go defines the instruction model shared by the assembler and the
// execution loop: the opcode table, the closed set of instruction types,
// and the Decode/Encode functions that are the pivot between the two.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Opcode identifies one of the machine's instructions.
type Opcode uint16

// Opcode constants, exactly the 22 Synacor Challenge opcodes plus the
// non-standard Dmp diagnostic extension.
const (
	OpHalt Opcode = iota
	OpSet
	OpPush
	OpPop
	OpEq
	OpGt
	OpJmp
	OpJt
	OpJf
	OpAdd
	OpMult
	OpMod
	OpAnd
	OpOr
	OpNot
	OpRmem
	OpWmem
	OpCall
	OpRet
	OpOut
	OpIn
	OpNoop

	// OpDmp is a non-standard diagnostic extension, kept as a real,
	// non-faulting opcode rather than promoted to UnknownInstructionError.
	OpDmp Opcode = 0xFF
)

var opcodeNames = map[Opcode]string{
	OpHalt: "halt", OpSet: "set", OpPush: "push", OpPop: "pop",
	OpEq: "eq", OpGt: "gt", OpJmp: "jmp", OpJt: "jt", OpJf: "jf",
	OpAdd: "add", OpMult: "mult", OpMod: "mod", OpAnd: "and", OpOr: "or",
	OpNot: "not", OpRmem: "rmem", OpWmem: "wmem", OpCall: "call",
	OpRet: "ret", OpOut: "out", OpIn: "in", OpNoop: "noop", OpDmp: "dmp",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}

	return fmt.Sprintf("opcode(%#x)", uint16(op))
}

// UnknownInstructionError is returned when a fetched opcode word has no
// known meaning.
type UnknownInstructionError struct {
	Word Word
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("vm: unknown instruction: %s", e.Word)
}

func (e *UnknownInstructionError) Is(target error) bool {
	_, ok := target.(*UnknownInstructionError)
	return ok
}

// LenByOpcode returns the total encoded word count of an instruction with
// the given opcode, including the opcode word itself. Asking for the
// length of an unknown opcode is a programmer-invariant violation, not a
// recoverable condition, since a well-formed Instruction's opcode is never
// unknown; callers that only hold a raw opcode index should use Decode
// instead and handle UnknownInstructionError.
func LenByOpcode(op Opcode) int {
	switch op {
	case OpHalt, OpRet, OpNoop, OpDmp:
		return 1
	case OpPush, OpPop, OpJmp, OpCall, OpOut, OpIn:
		return 2
	case OpSet, OpJt, OpJf, OpNot, OpRmem, OpWmem:
		return 3
	case OpEq, OpGt, OpAdd, OpMult, OpMod, OpAnd, OpOr:
		return 4
	default:
		panic(fmt.Sprintf("vm: length of unknown opcode %s", op))
	}
}

// Fetcher yields successive words, e.g. from memory starting at the
// program counter. Decode calls it once per operand after consuming the
// opcode word itself.
type Fetcher func() (Word, error)

// Instruction is a single decoded machine instruction, ready either to
// execute against a Machine or to be re-encoded to its wire form. Every
// opcode has its own small implementing type, mirroring the operand shapes
// in the opcode table.
type Instruction interface {
	// Opcode returns the instruction's opcode.
	Opcode() Opcode

	// Execute performs the instruction's effect on the machine.
	Execute(m *Machine) error

	// Encode writes the instruction's opcode word followed by its operand
	// words, in wire order, via emit.
	Encode(emit func(Word) error) error
}

// EncodeTo writes an instruction's wire words, little-endian, to w.
func EncodeTo(i Instruction, w io.Writer) error {
	return i.Encode(func(word Word) error {
		return binary.Write(w, binary.LittleEndian, uint16(word))
	})
}

// Decode reads an opcode word from fetch, then the operand words its
// shape demands, and returns the resulting Instruction.
func Decode(fetch Fetcher) (Instruction, error) {
	w, err := fetch()
	if err != nil {
		return nil, err
	}

	return decode(Opcode(w), fetch)
}

func fetchParam(fetch Fetcher) (Param, error) {
	w, err := fetch()
	if err != nil {
		return Param{}, err
	}

	return DecodeParam(w)
}

func fetchRegister(fetch Fetcher) (Register, error) {
	p, err := fetchParam(fetch)
	if err != nil {
		return 0, err
	}

	if !p.IsRegister() {
		return 0, &BadRegisterError{Word: p.Encode()}
	}

	return p.Register(), nil
}

func decode(op Opcode, fetch Fetcher) (Instruction, error) {
	switch op {
	case OpHalt:
		return Halt{}, nil
	case OpSet:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		src, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Set{Dst: dst, Src: src}, nil
	case OpPush:
		src, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Push{Src: src}, nil
	case OpPop:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		return Pop{Dst: dst}, nil
	case OpEq, OpGt:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		a, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		b, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		if op == OpEq {
			return Eq{Dst: dst, A: a, B: b}, nil
		}

		return Gt{Dst: dst, A: a, B: b}, nil
	case OpJmp:
		target, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Jmp{Target: target}, nil
	case OpJt, OpJf:
		cond, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		target, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		if op == OpJt {
			return Jt{Cond: cond, Target: target}, nil
		}

		return Jf{Cond: cond, Target: target}, nil
	case OpAdd, OpMult, OpMod, OpAnd, OpOr:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		a, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		b, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		switch op {
		case OpAdd:
			return Add{Dst: dst, A: a, B: b}, nil
		case OpMult:
			return Mult{Dst: dst, A: a, B: b}, nil
		case OpMod:
			return Mod{Dst: dst, A: a, B: b}, nil
		case OpAnd:
			return And{Dst: dst, A: a, B: b}, nil
		default:
			return Or{Dst: dst, A: a, B: b}, nil
		}
	case OpNot:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		src, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Not{Dst: dst, Src: src}, nil
	case OpRmem:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		addr, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Rmem{Dst: dst, Addr: addr}, nil
	case OpWmem:
		addr, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		src, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Wmem{Addr: addr, Src: src}, nil
	case OpCall:
		target, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Call{Target: target}, nil
	case OpRet:
		return Ret{}, nil
	case OpOut:
		src, err := fetchParam(fetch)
		if err != nil {
			return nil, err
		}

		return Out{Src: src}, nil
	case OpIn:
		dst, err := fetchRegister(fetch)
		if err != nil {
			return nil, err
		}

		return In{Dst: dst}, nil
	case OpNoop:
		return Noop{}, nil
	case OpDmp:
		return Dmp{}, nil
	default:
		return nil, &UnknownInstructionError{Word: Word(op)}
	}
}

// NewInstruction builds an Instruction from an opcode and its already
// resolved parameters, validating operand count and register shape. It is
// the construction path the assembler uses once label operands have been
// reified to literals; the execution loop instead builds instructions via
// Decode, reading operands lazily from memory.
func NewInstruction(op Opcode, params ...Param) (Instruction, error) {
	reg := func(i int) (Register, error) {
		if !params[i].IsRegister() {
			return 0, &BadRegisterError{Word: params[i].Encode()}
		}

		return params[i].Register(), nil
	}

	want := LenByOpcode(op) - 1
	if len(params) != want {
		return nil, fmt.Errorf("vm: %s: want %d operands, got %d", op, want, len(params))
	}

	switch op {
	case OpHalt:
		return Halt{}, nil
	case OpSet:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Set{Dst: dst, Src: params[1]}, nil
	case OpPush:
		return Push{Src: params[0]}, nil
	case OpPop:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Pop{Dst: dst}, nil
	case OpEq:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Eq{Dst: dst, A: params[1], B: params[2]}, nil
	case OpGt:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Gt{Dst: dst, A: params[1], B: params[2]}, nil
	case OpJmp:
		return Jmp{Target: params[0]}, nil
	case OpJt:
		return Jt{Cond: params[0], Target: params[1]}, nil
	case OpJf:
		return Jf{Cond: params[0], Target: params[1]}, nil
	case OpAdd:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Add{Dst: dst, A: params[1], B: params[2]}, nil
	case OpMult:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Mult{Dst: dst, A: params[1], B: params[2]}, nil
	case OpMod:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Mod{Dst: dst, A: params[1], B: params[2]}, nil
	case OpAnd:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return And{Dst: dst, A: params[1], B: params[2]}, nil
	case OpOr:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Or{Dst: dst, A: params[1], B: params[2]}, nil
	case OpNot:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Not{Dst: dst, Src: params[1]}, nil
	case OpRmem:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return Rmem{Dst: dst, Addr: params[1]}, nil
	case OpWmem:
		return Wmem{Addr: params[0], Src: params[1]}, nil
	case OpCall:
		return Call{Target: params[0]}, nil
	case OpRet:
		return Ret{}, nil
	case OpOut:
		return Out{Src: params[0]}, nil
	case OpIn:
		dst, err := reg(0)
		if err != nil {
			return nil, err
		}

		return In{Dst: dst}, nil
	case OpNoop:
		return Noop{}, nil
	case OpDmp:
		return Dmp{}, nil
	default:
		return nil, &UnknownInstructionError{Word: Word(op)}
	}
}

// Halt terminates the execution loop cleanly.
type Halt struct{}

func (Halt) Opcode() Opcode        { return OpHalt }
func (Halt) Execute(m *Machine) error {
	m.halted = true
	return nil
}
func (Halt) Encode(emit func(Word) error) error { return emit(Word(OpHalt)) }

// Set stores the value of Src into Dst.
type Set struct {
	Dst Register
	Src Param
}

func (Set) Opcode() Opcode { return OpSet }
func (i Set) Execute(m *Machine) error {
	m.SetRegister(i.Dst, m.Value(i.Src))
	return nil
}
func (i Set) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpSet), RegisterParam(i.Dst).Encode(), i.Src.Encode())
}

// Push pushes the value of Src onto the stack.
type Push struct{ Src Param }

func (Push) Opcode() Opcode { return OpPush }
func (i Push) Execute(m *Machine) error {
	m.PushStack(m.Value(i.Src))
	return nil
}
func (i Push) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpPush), i.Src.Encode())
}

// Pop pops the top of the stack into Dst.
type Pop struct{ Dst Register }

func (Pop) Opcode() Opcode { return OpPop }
func (i Pop) Execute(m *Machine) error {
	w, err := m.PopStack()
	if err != nil {
		return err
	}

	m.SetRegister(i.Dst, w)

	return nil
}
func (i Pop) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpPop), RegisterParam(i.Dst).Encode())
}

// Eq sets Dst to 1 if A equals B, 0 otherwise.
type Eq struct {
	Dst  Register
	A, B Param
}

func (Eq) Opcode() Opcode { return OpEq }
func (i Eq) Execute(m *Machine) error {
	if m.Value(i.A) == m.Value(i.B) {
		m.SetRegister(i.Dst, 1)
	} else {
		m.SetRegister(i.Dst, 0)
	}

	return nil
}
func (i Eq) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpEq), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// Gt sets Dst to 1 if A is greater than B, 0 otherwise.
type Gt struct {
	Dst  Register
	A, B Param
}

func (Gt) Opcode() Opcode { return OpGt }
func (i Gt) Execute(m *Machine) error {
	if m.Value(i.A) > m.Value(i.B) {
		m.SetRegister(i.Dst, 1)
	} else {
		m.SetRegister(i.Dst, 0)
	}

	return nil
}
func (i Gt) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpGt), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// Jmp sets the program counter to Target.
type Jmp struct{ Target Param }

func (Jmp) Opcode() Opcode { return OpJmp }
func (i Jmp) Execute(m *Machine) error {
	m.PC = m.Value(i.Target)
	return nil
}
func (i Jmp) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpJmp), i.Target.Encode())
}

// Jt sets the program counter to Target if Cond is non-zero.
type Jt struct {
	Cond   Param
	Target Param
}

func (Jt) Opcode() Opcode { return OpJt }
func (i Jt) Execute(m *Machine) error {
	if m.Value(i.Cond) != 0 {
		m.PC = m.Value(i.Target)
	}

	return nil
}
func (i Jt) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpJt), i.Cond.Encode(), i.Target.Encode())
}

// Jf sets the program counter to Target if Cond is zero.
type Jf struct {
	Cond   Param
	Target Param
}

func (Jf) Opcode() Opcode { return OpJf }
func (i Jf) Execute(m *Machine) error {
	if m.Value(i.Cond) == 0 {
		m.PC = m.Value(i.Target)
	}

	return nil
}
func (i Jf) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpJf), i.Cond.Encode(), i.Target.Encode())
}

// Add stores (A + B) mod ModBase into Dst.
type Add struct {
	Dst  Register
	A, B Param
}

func (Add) Opcode() Opcode { return OpAdd }
func (i Add) Execute(m *Machine) error {
	m.SetRegister(i.Dst, m.Value(i.A)+m.Value(i.B))
	return nil
}
func (i Add) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpAdd), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// Mult stores (A * B) mod ModBase into Dst.
type Mult struct {
	Dst  Register
	A, B Param
}

func (Mult) Opcode() Opcode { return OpMult }
func (i Mult) Execute(m *Machine) error {
	// Word is uint16, so this multiplication already wraps modulo 0x10000;
	// since ModBase (0x8000) divides 0x10000 evenly, reducing the wrapped
	// product modulo ModBase in SetRegister yields the same result as
	// reducing the true, unwrapped product would.
	m.SetRegister(i.Dst, m.Value(i.A)*m.Value(i.B))
	return nil
}
func (i Mult) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpMult), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// ErrDivideByZero is returned by Mod when its divisor operand is zero. The
// reference implementation leaves this undefined; a fault that aborts the
// run is the chosen policy (see SPEC_FULL.md §5).
var ErrDivideByZero = errors.New("vm: mod by zero")

// Mod stores A mod B into Dst; B == 0 faults with ErrDivideByZero.
type Mod struct {
	Dst  Register
	A, B Param
}

func (Mod) Opcode() Opcode { return OpMod }
func (i Mod) Execute(m *Machine) error {
	divisor := m.Value(i.B)
	if divisor == 0 {
		return ErrDivideByZero
	}

	m.SetRegister(i.Dst, m.Value(i.A)%divisor)

	return nil
}
func (i Mod) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpMod), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// And stores the bitwise AND of A and B into Dst.
type And struct {
	Dst  Register
	A, B Param
}

func (And) Opcode() Opcode { return OpAnd }
func (i And) Execute(m *Machine) error {
	m.SetRegister(i.Dst, m.Value(i.A)&m.Value(i.B))
	return nil
}
func (i And) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpAnd), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// Or stores the bitwise OR of A and B into Dst.
type Or struct {
	Dst  Register
	A, B Param
}

func (Or) Opcode() Opcode { return OpOr }
func (i Or) Execute(m *Machine) error {
	m.SetRegister(i.Dst, m.Value(i.A)|m.Value(i.B))
	return nil
}
func (i Or) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpOr), RegisterParam(i.Dst).Encode(), i.A.Encode(), i.B.Encode())
}

// Not stores the bitwise complement of Src's low 15 bits into Dst.
type Not struct {
	Dst Register
	Src Param
}

func (Not) Opcode() Opcode { return OpNot }
func (i Not) Execute(m *Machine) error {
	m.SetRegister(i.Dst, ^m.Value(i.Src))
	return nil
}
func (i Not) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpNot), RegisterParam(i.Dst).Encode(), i.Src.Encode())
}

// Rmem loads memory at address Addr into Dst.
type Rmem struct {
	Dst  Register
	Addr Param
}

func (Rmem) Opcode() Opcode { return OpRmem }
func (i Rmem) Execute(m *Machine) error {
	m.SetRegister(i.Dst, m.Mem[m.Value(i.Addr)])
	return nil
}
func (i Rmem) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpRmem), RegisterParam(i.Dst).Encode(), i.Addr.Encode())
}

// Wmem stores the value of Src into memory at address Addr.
type Wmem struct {
	Addr Param
	Src  Param
}

func (Wmem) Opcode() Opcode { return OpWmem }
func (i Wmem) Execute(m *Machine) error {
	m.Mem[m.Value(i.Addr)] = m.Value(i.Src)
	return nil
}
func (i Wmem) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpWmem), i.Addr.Encode(), i.Src.Encode())
}

// Call pushes the current program counter, then jumps to Target.
type Call struct{ Target Param }

func (Call) Opcode() Opcode { return OpCall }
func (i Call) Execute(m *Machine) error {
	m.PushStack(m.PC)
	m.PC = m.Value(i.Target)

	return nil
}
func (i Call) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpCall), i.Target.Encode())
}

// Ret pops the stack into the program counter.
type Ret struct{}

func (Ret) Opcode() Opcode { return OpRet }
func (Ret) Execute(m *Machine) error {
	pc, err := m.PopStack()
	if err != nil {
		return err
	}

	m.PC = pc

	return nil
}
func (Ret) Encode(emit func(Word) error) error { return emit(Word(OpRet)) }

// Out writes the value of Src to the machine's output callback.
type Out struct{ Src Param }

func (Out) Opcode() Opcode { return OpOut }
func (i Out) Execute(m *Machine) error {
	if m.OutputFunc == nil {
		return nil
	}

	return m.OutputFunc(m.Value(i.Src))
}
func (i Out) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpOut), i.Src.Encode())
}

// In reads a word from the machine's input callback into Dst.
type In struct{ Dst Register }

func (In) Opcode() Opcode { return OpIn }
func (i In) Execute(m *Machine) error {
	var w Word

	if m.InputFunc != nil {
		var err error

		w, err = m.InputFunc()
		if err != nil {
			return err
		}
	}

	m.SetRegister(i.Dst, w)

	return nil
}
func (i In) Encode(emit func(Word) error) error {
	return emitAll(emit, Word(OpIn), RegisterParam(i.Dst).Encode())
}

// Noop does nothing.
type Noop struct{}

func (Noop) Opcode() Opcode             { return OpNoop }
func (Noop) Execute(*Machine) error     { return nil }
func (Noop) Encode(emit func(Word) error) error { return emit(Word(OpNoop)) }

// Dmp is the non-standard diagnostic extension: it writes a snapshot of
// registers, stack, and memory to the machine's diagnostic sink (see
// dmp.go), never the program's output callback.
type Dmp struct{}

func (Dmp) Opcode() Opcode { return OpDmp }
func (Dmp) Execute(m *Machine) error {
	return m.dump()
}
func (Dmp) Encode(emit func(Word) error) error { return emit(Word(OpDmp)) }

func emitAll(emit func(Word) error, words ...Word) error {
	for _, w := range words {
		if err := emit(w); err != nil {
			return err
		}
	}

	return nil
}
