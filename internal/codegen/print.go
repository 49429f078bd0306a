package codegen

import (
	"fmt"
	"strings"
)

// Print renders bin as a --print-asm listing (spec §4.10
// "allocated-op pretty-printing"): one line per instruction word, each
// preceded by its byte offset, grounded on the original implementation's
// allocated_ops.rs Display impl which pairs every opcode with its operand
// registers and any owning span/comment.
func Print(bin *Binary) string {
	var sb strings.Builder
	for i, line := range bin.Listing {
		fmt.Fprintf(&sb, "%6d  %08x  %s\n", i*4, bin.Words[i], line)
	}
	if len(bin.Data) > 0 {
		fmt.Fprintf(&sb, "\n; data section (%d bytes, offset %d)\n", len(bin.Data), bin.DataBase*4)
		for off := 0; off < len(bin.Data); off += 8 {
			end := off + 8
			if end > len(bin.Data) {
				end = len(bin.Data)
			}
			fmt.Fprintf(&sb, "%6d  %x\n", bin.DataBase*4+off, bin.Data[off:end])
		}
	}
	return sb.String()
}
