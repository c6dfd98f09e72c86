package asm

// ops.go is the table the parser uses to validate operand arity and shape
// for every opcode mnemonic. It mirrors the opcode table in internal/vm,
// the pivot both the parser and the machine agree on.

import "github.com/ninebark/synvm/internal/vm"

// operandKind says how the parser should read one operand slot: as a bare
// register reference, or as a Param (literal, register, or label).
type operandKind int

const (
	operandReg operandKind = iota
	operandParam
)

// opcodeSpec names an opcode's mnemonic and the shape of its operands, in
// declared order.
type opcodeSpec struct {
	op       vm.Opcode
	operands []operandKind
}

// opcodeTable maps each lowercase mnemonic to its opcode and operand shape,
// exactly per the instruction model's opcode table.
var opcodeTable = map[string]opcodeSpec{
	"halt": {vm.OpHalt, nil},
	"set":  {vm.OpSet, []operandKind{operandReg, operandParam}},
	"push": {vm.OpPush, []operandKind{operandParam}},
	"pop":  {vm.OpPop, []operandKind{operandReg}},
	"eq":   {vm.OpEq, []operandKind{operandReg, operandParam, operandParam}},
	"gt":   {vm.OpGt, []operandKind{operandReg, operandParam, operandParam}},
	"jmp":  {vm.OpJmp, []operandKind{operandParam}},
	"jt":   {vm.OpJt, []operandKind{operandParam, operandParam}},
	"jf":   {vm.OpJf, []operandKind{operandParam, operandParam}},
	"add":  {vm.OpAdd, []operandKind{operandReg, operandParam, operandParam}},
	"mult": {vm.OpMult, []operandKind{operandReg, operandParam, operandParam}},
	"mod":  {vm.OpMod, []operandKind{operandReg, operandParam, operandParam}},
	"and":  {vm.OpAnd, []operandKind{operandReg, operandParam, operandParam}},
	"or":   {vm.OpOr, []operandKind{operandReg, operandParam, operandParam}},
	"not":  {vm.OpNot, []operandKind{operandReg, operandParam}},
	"rmem": {vm.OpRmem, []operandKind{operandReg, operandParam}},
	"wmem": {vm.OpWmem, []operandKind{operandParam, operandParam}},
	"call": {vm.OpCall, []operandKind{operandParam}},
	"ret":  {vm.OpRet, nil},
	"out":  {vm.OpOut, []operandKind{operandParam}},
	"in":   {vm.OpIn, []operandKind{operandReg}},
	"noop": {vm.OpNoop, nil},
	"dmp":  {vm.OpDmp, nil},
}
