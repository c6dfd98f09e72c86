package asm

import (
	"bytes"
	"io"
	"os"
	"path"
	"testing"

	"github.com/ninebark/synvm/internal/log"
)

// gold_test.go contains so-called "golden tests": end-to-end tests that
// verify source-code fixtures under testdata/ assemble to known binary
// fixtures, rather than hardcoding expected bytes inline the way
// assembler_test.go does.

type assemblerHarness struct {
	*testing.T
}

func (t *assemblerHarness) inputStream(filename string) io.ReadCloser {
	t.Helper()

	file, err := os.Open(path.Join("testdata", filename))
	if err != nil {
		t.Fatalf("error opening %s: %s", filename, err)
	}

	return file
}

func (t *assemblerHarness) expectOutput(filename string) io.ReadCloser {
	t.Helper()

	file, err := os.Open(path.Join("testdata", filename))
	if err != nil {
		t.Fatalf("error opening %s: %s", filename, err)
	}

	return file
}

type goldTestCase struct {
	name     string
	input    string
	expected string
}

func TestAssembler_Gold(tt *testing.T) {
	tcs := []goldTestCase{
		{name: "minimal output", input: "min.asm", expected: "min.bin"},
		{name: "forward label", input: "fwd.asm", expected: "fwd.bin"},
		{name: "call and ret", input: "callret.asm", expected: "callret.bin"},
	}

	for _, tc := range tcs {
		tc := tc

		tt.Run(tc.name, func(subT *testing.T) {
			t := assemblerHarness{subT}

			src := t.inputStream(tc.input)
			defer src.Close()

			want := t.expectOutput(tc.expected)
			defer want.Close()

			var out bytes.Buffer
			if err := AssembleWithLogger(src, &out, log.NewFormattedLogger(io.Discard)); err != nil {
				t.Fatalf("assemble %s: %v", tc.input, err)
			}

			wantBytes, err := io.ReadAll(want)
			if err != nil {
				t.Fatalf("read %s: %v", tc.expected, err)
			}

			if !bytes.Equal(out.Bytes(), wantBytes) {
				t.Errorf("%s: got % x, want % x", tc.input, out.Bytes(), wantBytes)
			}
		})
	}
}
