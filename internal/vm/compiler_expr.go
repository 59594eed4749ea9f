package vm

import (
	"strconv"

	"github.com/foxscript/loxvm/internal/lexer"
)

// number compiles a NUMBER literal. 0, 1 and 2 get a dedicated opcode
// instead of a constant-pool slot, since they're common enough (loop
// counters, array bases) to be worth skipping the pool indirection.
func number(c *Compiler, canAssign bool) {
	lexeme := c.parser.previous.Lexeme()
	value, _ := strconv.ParseFloat(lexeme, 64)

	switch value {
	case 0:
		c.emitOp(OP_ZERO)
	case 1:
		c.emitOp(OP_ONE)
	case 2:
		c.emitOp(OP_TWO)
	default:
		c.emitConstant(NumberVal(value))
	}
}

// stringLiteral strips the surrounding quotes and interns the bytes.
func stringLiteral(c *Compiler, canAssign bool) {
	lexeme := c.parser.previous.Lexeme()
	raw := lexeme[1 : len(lexeme)-1]
	s := c.heap.InternString([]byte(raw))
	c.emitConstant(ObjVal(s))
}

func literal(c *Compiler, canAssign bool) {
	switch c.parser.previous.Type {
	case lexer.FALSE:
		c.emitOp(OP_FALSE)
	case lexer.TRUE:
		c.emitOp(OP_TRUE)
	case lexer.NIL:
		c.emitOp(OP_NIL)
	}
}

func grouping(c *Compiler, canAssign bool) {
	c.expression()
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after expression.")
}

func unary(c *Compiler, canAssign bool) {
	opType := c.parser.previous.Type

	c.parsePrecedence(PREC_UNARY)

	switch opType {
	case lexer.MINUS:
		c.emitOp(OP_NEGATE)
	case lexer.BANG:
		c.emitOp(OP_NOT)
	}
}

// binary compiles the right operand one precedence level above the
// operator's own, which is what makes + and - (and * and /) left
// associative.
func binary(c *Compiler, canAssign bool) {
	opType := c.parser.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case lexer.BANG_EQUAL:
		c.emitOp(OP_NOT_EQUAL)
	case lexer.EQUAL_EQUAL:
		c.emitOp(OP_EQUAL)
	case lexer.GREATER:
		c.emitOp(OP_GREATER)
	case lexer.GREATER_EQUAL:
		c.emitOp(OP_GREATER_EQUAL)
	case lexer.LESS:
		c.emitOp(OP_LESS)
	case lexer.LESS_EQUAL:
		c.emitOp(OP_LESS_EQUAL)
	case lexer.PLUS:
		c.emitOp(OP_ADD)
	case lexer.MINUS:
		c.emitOp(OP_SUBTRACT)
	case lexer.STAR:
		c.emitOp(OP_MULTIPLY)
	case lexer.SLASH:
		c.emitOp(OP_DIVIDE)
	}
}

// ternary compiles `cond ? then : else` as an infix rule triggered by
// '?', right-associative so `a ? b : c ? d : e` parses as
// `a ? b : (c ? d : e)`.
func ternary(c *Compiler, canAssign bool) {
	thenJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)
	c.parsePrecedence(PREC_ASSIGNMENT)

	elseJump := c.emitJump(OP_JUMP)
	c.patchJump(thenJump)
	c.emitOp(OP_POP)

	c.consume(lexer.COLON, "Expect ':' after '?' branch of ternary expression.")
	c.parsePrecedence(PREC_TERNARY)
	c.patchJump(elseJump)
}

// and_ short-circuits: if the left side is falsey it's already the
// result, so skip the right side entirely rather than evaluating and
// discarding it.
func and_(c *Compiler, canAssign bool) {
	endJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)
	c.parsePrecedence(PREC_AND)
	c.patchJump(endJump)
}

// or_ mirrors and_: a truthy left side short-circuits past the right.
func or_(c *Compiler, canAssign bool) {
	elseJump := c.emitJump(OP_JUMP_IF_FALSE)
	endJump := c.emitJump(OP_JUMP)

	c.patchJump(elseJump)
	c.emitOp(OP_POP)
	c.parsePrecedence(PREC_OR)
	c.patchJump(endJump)
}

// variable compiles a bare identifier, resolving it to a local slot
// when possible and falling back to a global lookup otherwise. When
// canAssign is set and the identifier is immediately followed by '=',
// it compiles an assignment instead of a read.
func variable(c *Compiler, canAssign bool) {
	namedVariable(c, c.parser.previous, canAssign)
}

func namedVariable(c *Compiler, name lexer.Token, canAssign bool) {
	slot := c.resolveLocal(name)

	if slot != -1 {
		if canAssign && c.match(lexer.EQUAL) {
			c.expression()
			c.emitOp(OP_SET_LOCAL)
			c.emitByte(byte(slot))
		} else {
			c.emitOp(OP_GET_LOCAL)
			c.emitByte(byte(slot))
		}
		return
	}

	idx := c.identifierConstant(name)
	if canAssign && c.match(lexer.EQUAL) {
		c.expression()
		c.emitConstantRef(OP_SET_GLOBAL, OP_SET_GLOBAL_LONG, idx)
	} else {
		c.emitConstantRef(OP_GET_GLOBAL, OP_GET_GLOBAL_LONG, idx)
	}
}

// call compiles `callee(arg, arg, ...)`, with callee already on the
// stack from the preceding prefix/infix chain.
func call(c *Compiler, canAssign bool) {
	argCount := c.argumentList()
	c.emitOp(OP_CALL)
	c.emitByte(byte(argCount))
}

func (c *Compiler) argumentList() int {
	argCount := 0
	if !c.check(lexer.RIGHT_PAREN) {
		for {
			c.expression()
			if argCount == 255 {
				c.errorAtPrevious("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.match(lexer.COMMA) {
				break
			}
		}
	}
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after arguments.")
	return argCount
}
