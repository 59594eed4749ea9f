package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of chunk's bytecode,
// labeled name. It is a debugging aid only; nothing in the compiler or
// VM depends on its output.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < chunk.Len() {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)

	if offset > 0 && chunk.GetLine(offset) == chunk.GetLine(offset-1) {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", chunk.GetLine(offset))
	}

	op := Opcode(chunk.Code[offset])

	switch op {
	case OP_CONSTANT:
		return constantInstruction(sb, op, chunk, offset, 1)
	case OP_CONSTANT_LONG:
		return constantInstruction(sb, op, chunk, offset, 3)
	case OP_GET_GLOBAL, OP_SET_GLOBAL, OP_DEFINE_GLOBAL:
		return constantInstruction(sb, op, chunk, offset, 1)
	case OP_GET_GLOBAL_LONG, OP_SET_GLOBAL_LONG, OP_DEFINE_GLOBAL_LONG:
		return constantInstruction(sb, op, chunk, offset, 3)

	case OP_GET_LOCAL, OP_SET_LOCAL, OP_CALL, OP_POPN:
		return byteInstruction(sb, op, chunk, offset)

	case OP_JUMP, OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE, OP_JUMP_NOT_EQUAL:
		return jumpInstruction(sb, op, 1, chunk, offset)
	case OP_LOOP:
		return jumpInstruction(sb, op, -1, chunk, offset)

	default:
		return simpleInstruction(sb, op, offset)
	}
}

func simpleInstruction(sb *strings.Builder, op Opcode, offset int) int {
	fmt.Fprintf(sb, "%s\n", op)
	return offset + 1
}

func byteInstruction(sb *strings.Builder, op Opcode, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(sb *strings.Builder, op Opcode, chunk *Chunk, offset int, operandWidth int) int {
	var idx int
	if operandWidth == 1 {
		idx = int(chunk.Code[offset+1])
	} else {
		idx = int(chunk.Code[offset+1]) | int(chunk.Code[offset+2])<<8 | int(chunk.Code[offset+3])<<16
	}
	var value string
	if idx >= 0 && idx < len(chunk.Constants) {
		value = chunk.Constants[idx].String()
	} else {
		value = "<out of range>"
	}
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", op, idx, value)
	return offset + 1 + operandWidth
}

func jumpInstruction(sb *strings.Builder, op Opcode, sign int, chunk *Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	target := offset + 3 + sign*jump
	fmt.Fprintf(sb, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}
