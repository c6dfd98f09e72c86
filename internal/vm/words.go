package vm

// words.go defines the basic data types the machine operates on.

import "fmt"

// Word is the base data type the machine operates on: memory cells,
// register contents, stack entries, and instruction operands are all
// 16-bit values.
type Word uint16

func (w Word) String() string {
	return fmt.Sprintf("%0#4x", uint16(w))
}

const (
	// ModBase is the modulus of the machine's 15-bit value space. Every
	// register write is reduced modulo ModBase before being stored.
	ModBase = 0x8000

	// RegisterBase is the first wire-encoded register operand. Wire words
	// in [RegisterBase, RegisterBase+NumRegisters) name a register.
	RegisterBase Word = 0x8000

	// NumRegisters is the number of general-purpose registers.
	NumRegisters = 8
)

// Register is the index of one of the machine's eight general-purpose
// registers, R0 through R7.
type Register uint8

func (r Register) String() string {
	return fmt.Sprintf("R%d", uint8(r))
}

// BadRegisterError is returned when an operand word names a register index
// outside [0, 7] — the reserved range [0x8008, 0xFFFF] — and when an
// operand slot that only accepts a register holds a literal instead.
type BadRegisterError struct {
	Word Word
}

func (e *BadRegisterError) Error() string {
	return fmt.Sprintf("vm: bad register operand: %s", e.Word)
}

func (e *BadRegisterError) Is(target error) bool {
	_, ok := target.(*BadRegisterError)
	return ok
}

// Param is a tagged operand value: either a Literal word or a Register
// reference. A third tag, a Label reference, exists only on the assembler
// side (see internal/asm) and by construction never reaches a Param
// decoded from the wire.
type Param struct {
	reg   bool
	lit   Word
	index Register
}

// Literal constructs a literal operand.
func Literal(w Word) Param { return Param{lit: w} }

// RegisterParam constructs a register operand.
func RegisterParam(r Register) Param { return Param{reg: true, index: r} }

// IsRegister reports whether the parameter names a register rather than
// carrying a literal value.
func (p Param) IsRegister() bool { return p.reg }

// Register returns the register this parameter names. Valid only when
// IsRegister is true.
func (p Param) Register() Register { return p.index }

// LiteralValue returns the literal value of this parameter. Valid only
// when IsRegister is false.
func (p Param) LiteralValue() Word { return p.lit }

// Encode returns the wire representation of the parameter: a literal
// encodes as itself, a register as RegisterBase+index.
func (p Param) Encode() Word {
	if p.reg {
		return RegisterBase + Word(p.index)
	}

	return p.lit
}

func (p Param) String() string {
	if p.reg {
		return p.index.String()
	}

	return p.lit.String()
}

// DecodeParam interprets a wire-format operand word as a Param: words
// below RegisterBase are literals, the next NumRegisters words name a
// register, and anything higher is a bad operand.
func DecodeParam(w Word) (Param, error) {
	switch {
	case w < RegisterBase:
		return Literal(w), nil
	case w < RegisterBase+NumRegisters:
		return RegisterParam(Register(w - RegisterBase)), nil
	default:
		return Param{}, &BadRegisterError{Word: w}
	}
}
