package vm

import (
	"github.com/ninebark/synvm/internal/log"
)

// WithLogger is an option function that configures the machine to log
// step transitions and faults to a particular logger.
func WithLogger(logger *log.Logger) OptionFn {
	return func(m *Machine) { m.log = logger }
}

func (m *Machine) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", m.PC.String()),
		log.Any("REG", m.Reg),
		log.Any("STACK_DEPTH", len(m.Stack)),
	)
}
