package asm

// elements.go defines the program-element and parameter sum types the
// parser produces and the assembler pipeline resolves.

import (
	"fmt"

	"github.com/ninebark/synvm/internal/vm"
)

// Element is one unit of assembler input: a label definition, an
// instruction, or a raw data block. Elements exist only during assembly;
// none of them reach the machine directly.
type Element interface {
	// size reports the element's width in encoded words. Labels have size
	// zero; it is size that locateLabels sums to find each label's address.
	size() int
}

// Label names the word offset of the element that follows it. It carries
// no weight of its own: size is always zero.
type Label struct {
	Name string
}

func (Label) size() int { return 0 }

// Instr is a parsed instruction whose parameters may still carry
// unresolved Label references. reifyLabels rewrites those to Literal
// parameters; after that phase, every Instr in a program is safe to hand to
// vm.NewInstruction.
type Instr struct {
	Op     vm.Opcode
	Params []Param
}

func (i Instr) size() int { return vm.LenByOpcode(i.Op) }

// Data is a raw block of words, written verbatim to the output: the
// assembler's ".word" directive is the only source of Data elements.
type Data struct {
	Words []vm.Word
}

func (d Data) size() int { return len(d.Words) }

// paramKind tags the value a Param carries.
type paramKind int

const (
	kindLiteral paramKind = iota
	kindRegister
	kindLabel
)

// Param is an assembler-side operand: a Literal or Register, exactly like
// vm.Param, plus a third tag — a Label reference — that exists only until
// reifyLabels resolves it. A Param must never carry a Label by the time the
// assembler reaches its emit phase.
type Param struct {
	kind  paramKind
	lit   vm.Word
	reg   vm.Register
	label string
}

func literalParam(w vm.Word) Param { return Param{kind: kindLiteral, lit: w} }

func registerParam(r vm.Register) Param { return Param{kind: kindRegister, reg: r} }

func labelParam(name string) Param { return Param{kind: kindLabel, label: name} }

// toVM converts a reified Param to its vm.Param equivalent. Calling this on
// a Param that still carries a Label is the programmer-invariant violation
// spec'd in §7: it indicates reifyLabels was skipped, not a recoverable
// condition, so it panics rather than returning an error.
func (p Param) toVM() vm.Param {
	switch p.kind {
	case kindLiteral:
		return vm.Literal(p.lit)
	case kindRegister:
		return vm.RegisterParam(p.reg)
	default:
		panic(fmt.Sprintf("asm: label %q reached emit unresolved", p.label))
	}
}
