package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ninebark/synvm/internal/cli"
)

func TestHelp_UsageListsEveryCommand(t *testing.T) {
	cmds := []cli.Command{Assembler(), Executor(), Disassembler()}
	h := Help(cmds)

	var buf bytes.Buffer
	if err := h.Usage(&buf); err != nil {
		t.Fatalf("usage: %v", err)
	}

	out := buf.String()
	for _, name := range []string{"asm", "exec", "disasm", "help"} {
		if !strings.Contains(out, name) {
			t.Errorf("usage missing command %q:\n%s", name, out)
		}
	}
}

func TestHelp_RunWithNoArgsSucceeds(t *testing.T) {
	h := Help(nil)

	if code := h.Run(context.Background(), nil, &bytes.Buffer{}, testLogger(t)); code != 0 {
		t.Errorf("want exit 0, got %d", code)
	}
}

func TestHelp_FlagSetName(t *testing.T) {
	h := Help(nil)

	if got := h.FlagSet().Name(); got != "help" {
		t.Errorf("want flag set name %q, got %q", "help", got)
	}
}
