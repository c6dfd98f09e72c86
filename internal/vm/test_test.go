package vm

import (
	"testing"

	"github.com/ninebark/synvm/internal/log"
)

// NewTestHarness returns a testHarness whose embedded logger writes to the
// test's own log output. Callers are expected to have already called
// t.Parallel() themselves, since a *testing.T permits only one such call.
func NewTestHarness(t *testing.T) *testHarness {
	th := &testHarness{T: t}
	th.logger = log.NewFormattedLogger(th)

	return th
}

type testHarness struct {
	*testing.T
	logger *log.Logger
}

// Make builds a Machine wired to this harness's logger.
func (t *testHarness) Make(opts ...OptionFn) *Machine {
	return New(append([]OptionFn{WithLogger(t.logger)}, opts...)...)
}

func (t *testHarness) Write(b []byte) (n int, err error) {
	t.T.Helper()
	t.T.Log(string(b))

	return len(b), nil
}
