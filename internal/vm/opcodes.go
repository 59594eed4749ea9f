package vm

// Opcode is a single VM instruction. Operands, when present, are inline
// bytes immediately following the opcode in the Chunk's code buffer.
type Opcode byte

const (
	OP_CONSTANT      Opcode = iota // 1-byte pool idx -> push pool[idx]
	OP_CONSTANT_LONG               // 3-byte LE pool idx -> push pool[idx]

	OP_ZERO // push 0.0
	OP_ONE  // push 1.0
	OP_TWO  // push 2.0

	OP_NIL
	OP_TRUE
	OP_FALSE

	OP_POP  // pop 1
	OP_POPN // 1-byte n -> pop n

	OP_GET_GLOBAL
	OP_GET_GLOBAL_LONG
	OP_SET_GLOBAL
	OP_SET_GLOBAL_LONG
	OP_DEFINE_GLOBAL
	OP_DEFINE_GLOBAL_LONG

	OP_GET_LOCAL // 1-byte slot
	OP_SET_LOCAL // 1-byte slot

	OP_EQUAL
	OP_NOT_EQUAL
	OP_GREATER
	OP_GREATER_EQUAL
	OP_LESS
	OP_LESS_EQUAL

	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE

	OP_NOT
	OP_NEGATE

	OP_JUMP           // 2-byte BE offset, forward
	OP_JUMP_IF_TRUE   // 2-byte BE offset, forward
	OP_JUMP_IF_FALSE  // 2-byte BE offset, forward
	OP_JUMP_NOT_EQUAL // 2-byte BE offset, forward (switch case dispatch)
	OP_LOOP           // 2-byte BE offset, backward

	OP_CALL // 1-byte argc

	OP_PRINT
	OP_RETURN
)

var opcodeNames = map[Opcode]string{
	OP_CONSTANT:      "CONSTANT",
	OP_CONSTANT_LONG: "CONSTANT_LONG",

	OP_ZERO: "ZERO",
	OP_ONE:  "ONE",
	OP_TWO:  "TWO",

	OP_NIL:   "NIL",
	OP_TRUE:  "TRUE",
	OP_FALSE: "FALSE",

	OP_POP:  "POP",
	OP_POPN: "POPN",

	OP_GET_GLOBAL:         "GET_GLOBAL",
	OP_GET_GLOBAL_LONG:    "GET_GLOBAL_LONG",
	OP_SET_GLOBAL:         "SET_GLOBAL",
	OP_SET_GLOBAL_LONG:    "SET_GLOBAL_LONG",
	OP_DEFINE_GLOBAL:      "DEFINE_GLOBAL",
	OP_DEFINE_GLOBAL_LONG: "DEFINE_GLOBAL_LONG",

	OP_GET_LOCAL: "GET_LOCAL",
	OP_SET_LOCAL: "SET_LOCAL",

	OP_EQUAL:         "EQUAL",
	OP_NOT_EQUAL:     "NOT_EQUAL",
	OP_GREATER:       "GREATER",
	OP_GREATER_EQUAL: "GREATER_EQUAL",
	OP_LESS:          "LESS",
	OP_LESS_EQUAL:    "LESS_EQUAL",

	OP_ADD:      "ADD",
	OP_SUBTRACT: "SUBTRACT",
	OP_MULTIPLY: "MULTIPLY",
	OP_DIVIDE:   "DIVIDE",

	OP_NOT:    "NOT",
	OP_NEGATE: "NEGATE",

	OP_JUMP:           "JUMP",
	OP_JUMP_IF_TRUE:   "JUMP_IF_TRUE",
	OP_JUMP_IF_FALSE:  "JUMP_IF_FALSE",
	OP_JUMP_NOT_EQUAL: "JUMP_NOT_EQUAL",
	OP_LOOP:           "LOOP",

	OP_CALL: "CALL",

	OP_PRINT:  "PRINT",
	OP_RETURN: "RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
