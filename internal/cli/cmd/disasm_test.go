package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisassembler_RunDecodesImage(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "min.bin")

	if err := os.WriteFile(bin, []byte{19, 0, 65, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	d := disassembler{}

	var stdout bytes.Buffer

	if code := d.Run(context.Background(), []string{bin}, &stdout, testLogger(t)); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}

	out := stdout.String()
	if !strings.Contains(out, "out") {
		t.Errorf("want listing to contain %q, got:\n%s", "out", out)
	}

	if !strings.Contains(out, "halt") {
		t.Errorf("want listing to contain %q, got:\n%s", "halt", out)
	}
}

func TestDisassembler_RunReportsUnknownOpcode(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bad.bin")

	if err := os.WriteFile(bin, []byte{0x2a, 0x00}, 0o644); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	d := disassembler{}

	var stdout bytes.Buffer

	if code := d.Run(context.Background(), []string{bin}, &stdout, testLogger(t)); code != 0 {
		t.Fatalf("want exit 0 (a decode fault still prints a line), got %d", code)
	}

	if !strings.Contains(stdout.String(), "002a") {
		t.Errorf("want the stray opcode word echoed, got:\n%s", stdout.String())
	}
}

func TestDisassembler_RunNoInputFile(t *testing.T) {
	d := disassembler{}

	if code := d.Run(context.Background(), nil, &bytes.Buffer{}, testLogger(t)); code != 1 {
		t.Errorf("want exit 1 for missing file, got %d", code)
	}
}

func TestDisassembler_RunMissingFile(t *testing.T) {
	d := disassembler{}

	if code := d.Run(context.Background(), []string{"/no/such/file.bin"}, &bytes.Buffer{}, testLogger(t)); code != 1 {
		t.Errorf("want exit 1 for unreadable file, got %d", code)
	}
}
