package asm

// assembler.go implements the three phases that turn a parsed element
// sequence into an executable binary image: locate labels, reify labels,
// and emit.

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ninebark/synvm/internal/log"
	"github.com/ninebark/synvm/internal/vm"
)

// LabelResolveError is returned by Assemble when an instruction references
// a label with no matching definition anywhere in the program.
type LabelResolveError struct {
	Name string
}

func (e *LabelResolveError) Error() string {
	return fmt.Sprintf("asm: undefined label %q", e.Name)
}

func (e *LabelResolveError) Is(target error) bool {
	_, ok := target.(*LabelResolveError)
	return ok
}

// Assemble runs the full pipeline over source text read from r, writing
// the resulting little-endian binary image to w. Parse failures surface as
// the errors.Join'd *ParseError value Parse returns; an unresolved label
// surfaces as *LabelResolveError.
func Assemble(r io.Reader, w io.Writer) error {
	return assemble(r, w, log.DefaultLogger())
}

// AssembleWithLogger is Assemble with an explicit logger, for callers (and
// tests) that want phase transitions logged somewhere other than the
// package default.
func AssembleWithLogger(r io.Reader, w io.Writer, logger *log.Logger) error {
	return assemble(r, w, logger)
}

func assemble(r io.Reader, w io.Writer, logger *log.Logger) error {
	elems, err := Parse(r)
	if err != nil {
		logger.Error("parse failed", "err", err)
		return err
	}

	logger.Debug("parsed source", "elements", len(elems))

	labels := locateLabels(elems)

	logger.Debug("located labels", "count", len(labels))

	if err := reifyLabels(elems, labels); err != nil {
		logger.Error("label resolution failed", "err", err)
		return err
	}

	logger.Debug("reified labels")

	if err := emit(w, elems); err != nil {
		logger.Error("emit failed", "err", err)
		return err
	}

	return nil
}

// locateLabels walks elems once, maintaining a running word offset, and
// records the offset at which each label is defined. Labels have size
// zero, so the offset only advances over Instr and Data elements. A label
// defined more than once keeps the last offset seen: the last definition in
// source order wins.
func locateLabels(elems []Element) map[string]vm.Word {
	labels := make(map[string]vm.Word, len(elems))

	var offset vm.Word

	for _, e := range elems {
		if lbl, ok := e.(Label); ok {
			labels[lbl.Name] = offset
		}

		offset += vm.Word(e.size())
	}

	return labels
}

// reifyLabels walks elems a second time, rewriting every Label parameter of
// every Instr into a Literal naming its resolved address. Register operands
// and Data payloads never carry Label parameters and are left untouched. An
// unknown label name fails the whole pass.
func reifyLabels(elems []Element, labels map[string]vm.Word) error {
	for i, e := range elems {
		instr, ok := e.(Instr)
		if !ok {
			continue
		}

		for j, p := range instr.Params {
			if p.kind != kindLabel {
				continue
			}

			addr, ok := labels[p.label]
			if !ok {
				return &LabelResolveError{Name: p.label}
			}

			instr.Params[j] = literalParam(addr)
		}

		elems[i] = instr
	}

	return nil
}

// emit streams elems to w as little-endian words: a Label emits nothing, an
// Instr emits its opcode word followed by its operand words, and a Data
// emits its words verbatim. A Param that still carries a Label at this
// point means reifyLabels was skipped, which is unreachable when assemble
// calls them in sequence; Param.toVM panics rather than returning an error
// for that case, per the programmer-invariant rule in §7.
func emit(w io.Writer, elems []Element) error {
	for _, e := range elems {
		switch el := e.(type) {
		case Label:
			continue
		case Instr:
			params := make([]vm.Param, len(el.Params))
			for i, p := range el.Params {
				params[i] = p.toVM()
			}

			instr, err := vm.NewInstruction(el.Op, params...)
			if err != nil {
				return fmt.Errorf("asm: emit: %w", err)
			}

			if err := vm.EncodeTo(instr, w); err != nil {
				return fmt.Errorf("asm: emit: %w", err)
			}
		case Data:
			for _, word := range el.Words {
				if err := binary.Write(w, binary.LittleEndian, uint16(word)); err != nil {
					return fmt.Errorf("asm: emit: %w", err)
				}
			}
		}
	}

	return nil
}
