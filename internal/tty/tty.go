// Package tty provides terminal I/O for the machine's character console.
package tty

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ninebark/synvm/internal/vm"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console adapts a Unix terminal[^1] to the machine's in/out opcodes:
// key presses read from the terminal become input words, and output words
// are written back to it as characters.
//
// [1]: See: tty(4), termios(4).
type Console struct {
	in     *os.File
	out    *term.Terminal
	fd     int
	state  *term.State
	reader *bufio.Reader
}

// ErrNoTTY is returned if standard input is not a terminal. In this case,
// the console cannot provide character I/O.
var ErrNoTTY error = errors.New("console: not a TTY")

// NewConsole creates a Console using the provided streams. If the input
// stream is not a terminal, ErrNoTTY is returned. Callers are responsible
// for calling Restore to return the terminal to its initial state.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:     fd,
		in:     sin,
		out:    term.NewTerminal(sout, ""),
		state:  saved,
		reader: bufio.NewReader(sin),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return cons, nil
}

// Options returns the machine option functions that wire this console's
// input and output to a Machine.
func (c *Console) Options() []vm.OptionFn {
	return []vm.OptionFn{
		vm.WithInput(c.InputWord),
		vm.WithOutput(c.OutputWord),
	}
}

// InputWord reads one byte from the terminal and returns it as a word,
// blocking until a key is pressed.
func (c *Console) InputWord() (vm.Word, error) {
	b, err := c.reader.ReadByte()
	if err != nil {
		return 0, err
	}

	return vm.Word(b), nil
}

// OutputWord writes w to the terminal as a single character.
func (c *Console) OutputWord(w vm.Word) error {
	_, err := fmt.Fprintf(c.out, "%c", rune(w))
	return err
}

// Restore returns the terminal to its initial state.
func (c *Console) Restore() {
	_ = c.in.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, false)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = c.in.SetReadDeadline(time.Time{})

	return nil
}
