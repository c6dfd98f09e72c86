/*
Package asm implements a two-pass assembler for the machine's bytecode.

It translates a small symbolic dialect into the flat, little-endian word
stream the machine loads into memory. The dialect extends the bare
instruction set with labels, so that jumps and calls need not spell out
literal addresses by hand:

	          jmp :end
	          out x41      ; 'A'
	end:      halt

	          .word 1, 2, 3

See Grammar for a fuller description of the syntax.

# Bugs

Label names are whatever text appears between whitespace and a ':'; there
is no reserved-word check, so a label can legally collide with an opcode
mnemonic. Such a label still assembles as a label: a name directly
followed by ':' is always read as a definition, and ':' followed by a name
is always read as a reference.
*/
package asm

// Grammar declares the syntax of the assembly dialect in EBNF (with some
// liberties).
var Grammar = (`
program      = { line } ;
line         = ';' comment
             | label ':'
             | label ':' instruction
             | instruction
             | directive ;
comment      = { char } ;
directive    = '.word' literal { ',' literal } ;
ident        = { identchar } ;
label        = ident ;
instruction  = opcode [ operands ] ;
opcode       = ident ;
operands     = operand { operand } ;
operand      = literal
             | register
             | label_ref ;
label_ref    = ':' ident ;
literal      = int_literal | hex_literal | char_literal ;
int_literal  = decimal { decimal } ;
hex_literal  = 'x' hex hex? hex? hex? ;
char_literal = '\'' char '\'' ;
register     = '$' octal_digit ;
identchar    = any character except whitespace, ':', and '\'' ;
`)
