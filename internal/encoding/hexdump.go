// Package encoding formats machine state for diagnostic output.
package encoding

import (
	"fmt"
	"io"
	"strings"
)

// HexDump writes words as an address-prefixed hex/ASCII listing, sixteen
// words per line, in the style of hexdump -C. base is added to the index of
// each word to form the printed address.
func HexDump(w io.Writer, base uint16, words []uint16) error {
	for off := 0; off < len(words); off += 16 {
		end := off + 16
		if end > len(words) {
			end = len(words)
		}

		line := words[off:end]

		var hex, ascii strings.Builder

		for _, word := range line {
			fmt.Fprintf(&hex, "%04x ", word)

			hi, lo := byte(word>>8), byte(word)
			ascii.WriteByte(printable(hi))
			ascii.WriteByte(printable(lo))
		}

		if _, err := fmt.Fprintf(w, "%04x  %-85s |%s|\n", base+uint16(off), hex.String(), ascii.String()); err != nil {
			return err
		}
	}

	return nil
}

func printable(b byte) byte {
	if b >= 0x20 && b < 0x7f {
		return b
	}

	return '.'
}
