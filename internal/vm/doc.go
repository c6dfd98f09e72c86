/*
Package vm implements the Synacor Challenge virtual machine.

The machine is deliberately small. It has:

  - a program counter
  - eight general-purpose registers, R0 through R7
  - an unbounded stack of words
  - a flat memory of 32768 addressable words
  - two callbacks for character I/O, injected by the caller

# Words #

Every value the machine operates on, memory cells, register contents, stack
entries, and instruction operands, is a single word. Numbers are stored
modulo 0x8000: only the low 15 bits of a word are meaningful arithmetic, and
every register write is reduced into that range before it is stored. A word
in the range [0x8000, 0x8007] appearing where an operand is expected is a
reference to register (word - 0x8000) rather than a literal value; nothing
above 0x8007 is valid there.

# Memory #

Memory is a single flat array of 32768 words, addressed directly by the
program counter and by the rmem/wmem instructions. There is no privilege
separation, no MMU, and no memory-mapped I/O: character input and output
happen through the in and out opcodes, which call back into the host
program rather than touching any address.

	+--------+-----------------+
	| 0x7fff |                 |
	|  ...   |   data & code   |
	| 0x0000 |                 |
	+--------+-----------------+

# Stack #

The stack holds temporary values and return addresses for push, pop, call,
and ret. It has no fixed size or home address in memory; it grows and
shrinks as a Go slice alongside the rest of the machine's state. Popping
from an empty stack, whether by pop or by ret, is a fault.

# Instruction Cycle #

Each step of the run loop fetches an opcode word at the program counter,
decodes the opcode's fixed-arity operands, and executes the resulting
Instruction against the machine. A fault returned from Execute ends the
run; there is no fault handler or recovery path built into the machine
itself.

# I/O #

The out and in opcodes are the machine's only interaction with the outside
world. They call the InputFunc and OutputFunc callbacks a Machine is
constructed with; neither callback is required, and a Machine with neither
set can still execute any program that does not use them.
*/
package vm
