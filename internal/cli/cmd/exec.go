package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ninebark/synvm/internal/asm"
	"github.com/ninebark/synvm/internal/cli"
	"github.com/ninebark/synvm/internal/log"
	"github.com/ninebark/synvm/internal/tty"
	"github.com/ninebark/synvm/internal/vm"
)

// Executor is the command that loads and runs a binary image.
//
//	synvm exec program.bin
//	synvm exec --asm program.asm
func Executor() cli.Command {
	return new(executor)
}

type executor struct {
	debug     bool
	asmFile   string
	inputFile string
	inputStr  string
	timeout   time.Duration
}

func (executor) Description() string {
	return "run a binary image"
}

func (executor) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `exec [--asm file.asm | binary] [-f file | -i string]

Loads a binary image (or assembles one inline with --asm) and runs it to
completion. Input defaults to the controlling terminal in raw mode; -f and
-i override it with a file's contents or a literal string, respectively.`)

	return err
}

func (ex *executor) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	fs.BoolVar(&ex.debug, "debug", false, "enable debug logging")
	fs.StringVar(&ex.asmFile, "asm", "", "assemble `file` and run the result instead of a binary argument")
	fs.StringVar(&ex.inputFile, "f", "", "feed the machine's input from `file` instead of the console")
	fs.StringVar(&ex.inputStr, "i", "", "feed the machine's input from a literal `string` instead of the console")
	fs.DurationVar(&ex.timeout, "timeout", 0, "abort the run after `duration` (0 disables the timeout)")

	return fs
}

// Run loads a program image, one way or another, and executes it to
// completion, a fault, or a timeout.
func (ex *executor) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if ex.debug {
		log.LogLevel.Set(log.Debug)
	}

	img, err := ex.loadImage(args, logger)
	if err != nil {
		logger.Error("load failed", "err", err)
		return 1
	}

	machine := vm.New(vm.WithLogger(logger))

	if _, err := machine.Load(img); err != nil {
		logger.Error("load failed", "err", err)
		return 1
	}

	console, err := ex.wireIO(machine, stdout)
	if err != nil {
		logger.Error("console init failed", "err", err)
		return 1
	}

	if console != nil {
		defer console.Restore()
	}

	if ex.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ex.timeout)
		defer cancel()
	}

	logger.Info("starting machine")

	switch err := machine.Run(ctx); {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("exec timeout")
		return 2
	case err != nil:
		logger.Error("fault", "err", err)
		return 1
	}

	logger.Info("halted")

	return 0
}

// loadImage resolves the program image: either the output of assembling
// --asm inline, or a binary file named by the positional argument.
func (ex *executor) loadImage(args []string, logger *log.Logger) (io.Reader, error) {
	if ex.asmFile != "" {
		src, err := os.Open(ex.asmFile)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		var buf bytes.Buffer
		if err := asm.AssembleWithLogger(src, &buf, logger); err != nil {
			return nil, fmt.Errorf("assemble %s: %w", ex.asmFile, err)
		}

		return &buf, nil
	}

	if len(args) == 0 {
		return nil, errors.New("exec: no binary argument and no --asm given")
	}

	return os.Open(args[0])
}

// wireIO installs the machine's input and output callbacks, returning the
// opened Console when input defaults to the controlling terminal so the
// caller can restore it once the run finishes.
func (ex *executor) wireIO(machine *vm.Machine, stdout io.Writer) (*tty.Console, error) {
	switch {
	case ex.inputFile != "":
		data, err := os.ReadFile(ex.inputFile)
		if err != nil {
			return nil, err
		}

		machine.InputFunc = byteFeed(data)
		machine.OutputFunc = stdoutWriter(stdout)

		return nil, nil
	case ex.inputStr != "":
		machine.InputFunc = byteFeed([]byte(ex.inputStr))
		machine.OutputFunc = stdoutWriter(stdout)

		return nil, nil
	}

	console, err := tty.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		if !errors.Is(err, tty.ErrNoTTY) {
			return nil, err
		}

		machine.InputFunc = byteReaderFeed(bufio.NewReader(os.Stdin))
		machine.OutputFunc = stdoutWriter(stdout)

		return nil, nil
	}

	for _, opt := range console.Options() {
		opt(machine)
	}

	return console, nil
}

// byteFeed returns an input callback that yields data's bytes in order,
// then 0 forever once exhausted — matching the reference implementation's
// "end of input reads as zero" convention rather than faulting.
func byteFeed(data []byte) func() (vm.Word, error) {
	i := 0

	return func() (vm.Word, error) {
		if i >= len(data) {
			return 0, nil
		}

		w := vm.Word(data[i])
		i++

		return w, nil
	}
}

// byteReaderFeed adapts a buffered reader to the same zero-at-EOF
// convention as byteFeed.
func byteReaderFeed(r *bufio.Reader) func() (vm.Word, error) {
	return func() (vm.Word, error) {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, nil
		}

		if err != nil {
			return 0, err
		}

		return vm.Word(b), nil
	}
}

func stdoutWriter(out io.Writer) func(vm.Word) error {
	return func(w vm.Word) error {
		_, err := fmt.Fprintf(out, "%c", rune(w))
		return err
	}
}
