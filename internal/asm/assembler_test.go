package asm

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func assembleBytes(t *testing.T, src string) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := Assemble(strings.NewReader(src), &buf); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	return buf.Bytes()
}

func TestAssemble_MinimalOutput(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "out 65\nhalt\n")

	want := []byte{
		19, 0, // out
		65, 0, // literal 65
		0, 0, // halt
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestAssemble_ForwardLabel(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "jmp :end\nout 65\nend:\nhalt\n")

	want := []byte{
		6, 0, // jmp
		4, 0, // literal 4 (word offset of "halt", after jmp(2)+out(2))
		19, 0, // out
		65, 0,
		0, 0, // halt
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestAssemble_FifteenBitArithmeticProgram(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "set $0 32767\nadd $1 $0 $0\nhalt\n")

	want := []byte{
		1, 0, // set
		0x00, 0x80, // register 0
		0xff, 0x7f, // literal 32767
		9, 0, // add
		0x01, 0x80, // register 1
		0x00, 0x80, // register 0
		0x00, 0x80, // register 0
		0, 0, // halt
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestAssemble_CallAndRet(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "call :sub\nhalt\nsub:\nout 88\nret\n")

	want := []byte{
		17, 0, // call
		3, 0, // literal 3 (word offset of "sub", after call(2)+halt(1))
		0, 0, // halt
		19, 0, // out
		88, 0,
		18, 0, // ret
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestAssemble_UnknownOpcodeFault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Assemble(strings.NewReader("frobnicate $0\nhalt\n"), &buf)
	if err == nil {
		t.Fatal("want assemble error, got nil")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("want *ParseError, got %T: %v", err, err)
	}
}

func TestAssemble_UndefinedLabel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Assemble(strings.NewReader("jmp :nowhere\nhalt\n"), &buf)
	if err == nil {
		t.Fatal("want assemble error, got nil")
	}

	var lre *LabelResolveError
	if !errors.As(err, &lre) {
		t.Errorf("want *LabelResolveError, got %T: %v", err, err)
	}
}

func TestAssemble_DuplicateLabelLastWins(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "jmp :x\nx:\nout 1\nx:\nout 2\nhalt\n")

	// Both "x:" definitions sit after the 2-word jmp; the first at offset 2,
	// the second at offset 4. Last-definition-wins, so the jump target must
	// be the second "out 2", at offset 4, landing past "out 1".
	want := []byte{
		6, 0, // jmp
		4, 0, // literal 4
		19, 0, // out
		1, 0,
		19, 0, // out
		2, 0,
		0, 0, // halt
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestAssemble_DataDirectiveEmitsVerbatim(t *testing.T) {
	t.Parallel()

	got := assembleBytes(t, "jmp :data\ndata:\n.word 1, 2, 3\n")

	want := []byte{
		6, 0, // jmp
		2, 0, // literal 2
		1, 0,
		2, 0,
		3, 0,
	}

	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}
