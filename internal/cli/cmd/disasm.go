package cmd

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ninebark/synvm/internal/cli"
	"github.com/ninebark/synvm/internal/log"
	"github.com/ninebark/synvm/internal/vm"
)

// Disassembler is the command that decodes a binary image back into one
// instruction listing line per decoded Instruction, exercising the same
// Decode path the machine's fetch-decode-execute loop uses. It exists
// purely for inspection: nothing it reads ever reaches a Machine.
func Disassembler() cli.Command {
	return new(disassembler)
}

type disassembler struct{}

func (disassembler) Description() string {
	return "disassemble a binary image"
}

func (disassembler) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `disasm program.bin

Decodes a binary image and prints one line per instruction.`)

	return err
}

func (disassembler) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

func (disassembler) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("disasm: no input file")
		return 1
	}

	f, err := os.Open(args[0])
	if err != nil {
		logger.Error("open failed", "file", args[0], "err", err)
		return 1
	}
	defer f.Close()

	words, err := readWords(f)
	if err != nil {
		logger.Error("read failed", "file", args[0], "err", err)
		return 1
	}

	addr := 0
	for addr < len(words) {
		start := addr

		fetch := func() (vm.Word, error) {
			if addr >= len(words) {
				return 0, io.ErrUnexpectedEOF
			}

			w := words[addr]
			addr++

			return w, nil
		}

		instr, err := vm.Decode(fetch)
		if err != nil {
			fmt.Fprintf(stdout, "%04x: %04x  ; %s\n", start, words[start], err)
			addr = start + 1

			continue
		}

		fmt.Fprintf(stdout, "%04x: %-5s %+v\n", start, instr.Opcode(), instr)
	}

	return 0
}

// readWords decodes r as a sequence of little-endian words, the same wire
// format vm.Load reads.
func readWords(r io.Reader) ([]vm.Word, error) {
	var words []vm.Word

	for {
		var w uint16

		err := binary.Read(r, binary.LittleEndian, &w)

		switch {
		case errors.Is(err, io.EOF):
			return words, nil
		case err != nil:
			return nil, err
		}

		words = append(words, vm.Word(w))
	}
}
