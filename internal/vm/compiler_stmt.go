package vm

import "github.com/foxscript/loxvm/internal/lexer"

// declaration is the top of the statement grammar: a var/fun
// declaration, or any other statement. A panic-mode error here
// resynchronizes at the next statement boundary instead of cascading.
func (c *Compiler) declaration() {
	switch {
	case c.match(lexer.FUN):
		c.funDeclaration()
	case c.match(lexer.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.parser.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(lexer.PRINT):
		c.printStatement()
	case c.match(lexer.IF):
		c.ifStatement()
	case c.match(lexer.WHILE):
		c.whileStatement()
	case c.match(lexer.FOR):
		c.forStatement()
	case c.match(lexer.SWITCH):
		c.switchStatement()
	case c.match(lexer.CONTINUE):
		c.continueStatement()
	case c.match(lexer.RETURN):
		c.returnStatement()
	case c.match(lexer.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.SEMICOLON, "Expect ';' after value.")
	c.emitOp(OP_PRINT)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(lexer.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(OP_POP)
}

func (c *Compiler) varDeclaration() {
	globalIdx := c.parseVariable("Expect variable name.")

	if c.match(lexer.EQUAL) {
		c.expression()
	} else {
		c.emitOp(OP_NIL)
	}
	c.consume(lexer.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(globalIdx)
}

func (c *Compiler) block() {
	for !c.check(lexer.RIGHT_BRACE) && !c.check(lexer.EOF) {
		c.declaration()
	}
	c.consume(lexer.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) ifStatement() {
	c.consume(lexer.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)
	c.statement()

	elseJump := c.emitJump(OP_JUMP)
	c.patchJump(thenJump)
	c.emitOp(OP_POP)

	if c.match(lexer.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

// whileStatement's continue target is the condition re-check itself, so
// `continue` inside a while loop just re-evaluates the condition.
func (c *Compiler) whileStatement() {
	loopStart := c.chunk().Len()
	c.pushLoop(loopStart)

	c.consume(lexer.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(OP_POP)

	c.popLoop()
}

// forStatement desugars to a while loop via the classic two-jump
// trampoline: the body jumps straight to the increment, which then
// loops back to the condition, so a `continue` only needs to jump to
// the increment rather than re-run the initializer.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(lexer.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(lexer.SEMICOLON):
		// no initializer
	case c.match(lexer.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Len()

	exitJump := -1
	if !c.match(lexer.SEMICOLON) {
		c.expression()
		c.consume(lexer.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(OP_JUMP_IF_FALSE)
		c.emitOp(OP_POP)
	}

	if !c.match(lexer.RIGHT_PAREN) {
		bodyJump := c.emitJump(OP_JUMP)

		incrementStart := c.chunk().Len()
		c.expression()
		c.emitOp(OP_POP)
		c.consume(lexer.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.pushLoop(loopStart)
	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(OP_POP)
	}

	c.popLoop()
	c.endScope()
}

// switchStatement compiles `switch (expr) { case v: ...; default: ...; }`
// by testing the switch value against each case with OP_JUMP_NOT_EQUAL.
// Only the first matching case's body runs: every body ends with a jump
// past the rest of the switch, so there is no fall-through into the next
// case and no `break`. A switch may have at most 100 case clauses.
const maxSwitchCases = 100

// The switch value is pushed once and stays on the stack under every
// case test; OP_JUMP_NOT_EQUAL consumes the case value, compares it
// against the value beneath, and jumps (leaving the switch value in
// place) on a mismatch, or pops the switch value and falls into the
// matched case's body on a match. Each body ends with a jump to the
// statement's end. If no case matches, a single OP_POP discards the
// switch value before the default clause runs.
func (c *Compiler) switchStatement() {
	c.consume(lexer.LEFT_PAREN, "Expect '(' after 'switch'.")
	c.expression()
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after switch value.")
	c.consume(lexer.LEFT_BRACE, "Expect '{' before switch body.")

	var bodyJumps []int
	notEqual := -1
	caseCount := 0

	for c.match(lexer.CASE) {
		if notEqual != -1 {
			c.patchJump(notEqual)
		}
		if caseCount >= maxSwitchCases {
			c.errorAtPrevious("Too many case clauses in switch statement.")
		}
		caseCount++

		c.expression()
		c.consume(lexer.COLON, "Expect ':' after case value.")
		notEqual = c.emitJump(OP_JUMP_NOT_EQUAL)

		for !c.check(lexer.CASE) && !c.check(lexer.DEFAULT) && !c.check(lexer.RIGHT_BRACE) {
			c.statement()
		}
		bodyJumps = append(bodyJumps, c.emitJump(OP_JUMP))
	}
	if notEqual != -1 {
		c.patchJump(notEqual)
	}

	// Reaching here means every case mismatched, so OP_JUMP_NOT_EQUAL never
	// consumed the discriminant on our behalf; a matched case's body jump
	// skips straight past this and lands after the final patchJump below,
	// since its discriminant (and the matching case value) were already
	// popped by the opcode itself.
	c.emitOp(OP_POP)

	if c.match(lexer.DEFAULT) {
		c.consume(lexer.COLON, "Expect ':' after 'default'.")
		for !c.check(lexer.RIGHT_BRACE) {
			c.statement()
		}
	}

	for _, j := range bodyJumps {
		c.patchJump(j)
	}

	c.consume(lexer.RIGHT_BRACE, "Expect '}' after switch body.")
}

// continueStatement jumps to the enclosing loop's continue target: the
// condition check for while/for-with-condition, or the increment for a
// for loop with one.
func (c *Compiler) continueStatement() {
	loop := c.currentLoop()
	if loop == nil {
		c.errorAtPrevious("Can't use 'continue' outside of a loop.")
		c.consume(lexer.SEMICOLON, "Expect ';' after 'continue'.")
		return
	}
	c.consume(lexer.SEMICOLON, "Expect ';' after 'continue'.")
	c.emitLoop(loop.continueTarget)
}

func (c *Compiler) returnStatement() {
	if c.funcType == funcTypeScript {
		c.errorAtPrevious("Can't return from top-level code.")
	}

	if c.match(lexer.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(lexer.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(OP_RETURN)
}

// funDeclaration compiles a nested function body with its own Compiler
// sharing the same token stream, then stores the resulting Function as
// a constant in the enclosing chunk.
func (c *Compiler) funDeclaration() {
	globalIdx := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.compileFunction(funcTypeFunction)
	c.defineVariable(globalIdx)
}

func (c *Compiler) compileFunction(funcType FunctionType) {
	inner := newCompiler(c.parser, c.heap, c, funcType)
	inner.function.Name = inner.heap.InternString([]byte(c.parser.previous.Lexeme()))
	inner.beginScope()

	inner.consume(lexer.LEFT_PAREN, "Expect '(' after function name.")
	if !inner.check(lexer.RIGHT_PAREN) {
		for {
			inner.function.Arity++
			if inner.function.Arity > 255 {
				inner.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramIdx := inner.parseVariable("Expect parameter name.")
			inner.defineVariable(paramIdx)
			if !inner.match(lexer.COMMA) {
				break
			}
		}
	}
	inner.consume(lexer.RIGHT_PAREN, "Expect ')' after parameters.")
	inner.consume(lexer.LEFT_BRACE, "Expect '{' before function body.")
	inner.block()

	fn := inner.endCompiler()
	c.parser.hadError = c.parser.hadError || inner.parser.hadError

	c.emitConstant(ObjVal(fn))
}
