package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/fullcircle-lang/fullcircle/internal/config"
)

// Disassemble writes a human-readable listing of chunk to w, one
// instruction per line, prefixed with its index and any symbol defined at
// that index. Grounded on the teacher's disassembler (index-prefixed
// mnemonic listing with symbol annotations); adapted to FullCircle's typed
// Instruction (no operand-tag byte to decode, since IntArg/FloatArg/ByteArg
// are already split by field).
func Disassemble(chunk *Chunk, w io.Writer) error {
	labels := make(map[int][]string)
	for name, addr := range chunk.Symbols {
		labels[addr] = append(labels[addr], name)
	}

	for i, instr := range chunk.Code {
		for _, name := range labels[i] {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}
		info, ok := config.OpcodeNames[byte(instr.Op)]
		mnemonic := "?"
		if ok {
			mnemonic = info.Mnemonic
		}
		line := fmt.Sprintf("%6d  %-8s%s", i, mnemonic, operand(instr))
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func operand(instr Instruction) string {
	switch instr.Op {
	case OpLoadF:
		return fmt.Sprintf("%g", instr.FloatArg)
	case OpLoadC:
		return fmt.Sprintf("%d", instr.ByteArg)
	case OpAlloc, OpRelease, OpLoadI, OpPushI, OpPopI, OpPushC, OpPopC, OpPushF, OpPopF,
		OpJmp, OpJmpR, OpJmp0, OpJmp0R, OpJmp1, OpJmp1R:
		if instr.Sym != "" {
			return instr.Sym
		}
		return fmt.Sprintf("%d", instr.IntArg)
	default:
		return ""
	}
}
