package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ninebark/synvm/internal/asm"
	"github.com/ninebark/synvm/internal/cli"
	"github.com/ninebark/synvm/internal/log"
)

// Assembler is the command that translates assembly source into a raw
// binary image.
//
//	synvm asm -o a.out file.asm
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug  bool
	output string
}

func (assembler) Description() string {
	return "assemble source code into a binary image"
}

func (assembler) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `asm [-o file] file.asm...

Assemble one or more source files into a single binary image.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.StringVar(&a.output, "o", "a.out", "output `filename`")

	return fs
}

// Run assembles each source file in args, in order, concatenating their
// elements as if they were one file, and writes the resulting image to the
// configured output path.
func (a *assembler) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		logger.Error("asm: no input files")
		return 1
	}

	var sources []io.Reader

	for _, fn := range args {
		f, err := os.Open(fn)
		if err != nil {
			logger.Error("open failed", "file", fn, "err", err)
			return 1
		}
		defer f.Close()

		sources = append(sources, f)
	}

	out, err := os.Create(a.output)
	if err != nil {
		logger.Error("open failed", "out", a.output, "err", err)
		return 1
	}
	defer out.Close()

	buf := bufio.NewWriter(out)

	if err := asm.AssembleWithLogger(io.MultiReader(sources...), buf, logger); err != nil {
		logger.Error("assemble failed", "err", err)
		return 1
	}

	if err := buf.Flush(); err != nil {
		logger.Error("write failed", "out", a.output, "err", err)
		return 1
	}

	logger.Info("assembled", "out", a.output, "files", len(args))

	return 0
}
