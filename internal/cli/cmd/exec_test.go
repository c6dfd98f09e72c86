package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ninebark/synvm/internal/vm"
)

func writeImage(t *testing.T, path string, words []vm.Word) {
	t.Helper()

	var buf bytes.Buffer

	for _, w := range words {
		if err := binary.Write(&buf, binary.LittleEndian, uint16(w)); err != nil {
			t.Fatalf("encode word: %v", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
}

// echoImage is "in $0; out $0; halt": it copies one input word straight to
// output, enough to exercise wireIO's input-source branching end to end.
func echoImage() []vm.Word {
	r0 := vm.RegisterParam(0).Encode()

	return []vm.Word{
		vm.Word(vm.OpIn), r0,
		vm.Word(vm.OpOut), r0,
		vm.Word(vm.OpHalt),
	}
}

func TestExecutor_RunWithInlineStringInput(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "echo.bin")
	writeImage(t, bin, echoImage())

	ex := &executor{inputStr: "A"}

	var stdout bytes.Buffer

	if code := ex.Run(context.Background(), []string{bin}, &stdout, testLogger(t)); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}

	if stdout.String() != "A" {
		t.Errorf("stdout want %q, got %q", "A", stdout.String())
	}
}

func TestExecutor_RunWithInputFile(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "echo.bin")
	writeImage(t, bin, echoImage())

	inFile := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(inFile, []byte("Z"), 0o644); err != nil {
		t.Fatalf("write input file: %v", err)
	}

	ex := &executor{inputFile: inFile}

	var stdout bytes.Buffer

	if code := ex.Run(context.Background(), []string{bin}, &stdout, testLogger(t)); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}

	if stdout.String() != "Z" {
		t.Errorf("stdout want %q, got %q", "Z", stdout.String())
	}
}

func TestExecutor_RunWithAsmFlag(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "echo.asm")
	if err := os.WriteFile(src, []byte("in $0\nout $0\nhalt\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	ex := &executor{asmFile: src, inputStr: "Q"}

	var stdout bytes.Buffer

	if code := ex.Run(context.Background(), nil, &stdout, testLogger(t)); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}

	if stdout.String() != "Q" {
		t.Errorf("stdout want %q, got %q", "Q", stdout.String())
	}
}

func TestExecutor_RunNoBinaryNoAsm(t *testing.T) {
	ex := &executor{}

	if code := ex.Run(context.Background(), nil, &bytes.Buffer{}, testLogger(t)); code != 1 {
		t.Errorf("want exit 1 with no binary argument and no --asm, got %d", code)
	}
}

func TestExecutor_RunFaultReturnsNonZero(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fault.bin")

	// pop $0 with an empty stack: PopFromEmptyStack.
	writeImage(t, bin, []vm.Word{vm.Word(vm.OpPop), vm.RegisterParam(0).Encode()})

	ex := &executor{inputStr: ""}

	if code := ex.Run(context.Background(), []string{bin}, &bytes.Buffer{}, testLogger(t)); code != 1 {
		t.Errorf("want exit 1 on fault, got %d", code)
	}
}

func TestExecutor_RunTimeout(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "spin.bin")

	// jmp 0: an infinite loop, to exercise the --timeout deadline path.
	writeImage(t, bin, []vm.Word{vm.Word(vm.OpJmp), 0})

	ex := &executor{inputStr: "", timeout: 1}

	if code := ex.Run(context.Background(), []string{bin}, &bytes.Buffer{}, testLogger(t)); code != 2 {
		t.Errorf("want exit 2 on timeout, got %d", code)
	}
}

func TestByteFeed_YieldsDataThenZero(t *testing.T) {
	feed := byteFeed([]byte("ab"))

	for _, want := range []vm.Word{'a', 'b', 0, 0} {
		got, err := feed()
		if err != nil {
			t.Fatalf("feed: %v", err)
		}

		if got != want {
			t.Errorf("want %v, got %v", want, got)
		}
	}
}

func TestByteReaderFeed_YieldsDataThenZero(t *testing.T) {
	feed := byteReaderFeed(bufio.NewReader(strings.NewReader("c")))

	got, err := feed()
	if err != nil {
		t.Fatalf("feed: %v", err)
	}

	if got != 'c' {
		t.Errorf("want 'c', got %v", got)
	}

	got, err = feed()
	if err != nil {
		t.Fatalf("feed at EOF should not error: %v", err)
	}

	if got != 0 {
		t.Errorf("want 0 at EOF, got %v", got)
	}
}
