package vm

import "github.com/foxscript/loxvm/internal/lexer"

// beginScope enters a new lexical block. Locals declared past this
// point are popped again by the matching endScope.
func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope pops every local declared at or below the scope just closed,
// collapsing a run of OP_POPs into a single OP_POPN.
func (c *Compiler) endScope() {
	c.scopeDepth--

	popped := 0
	for c.localCount > 0 && c.locals[c.localCount-1].depth > c.scopeDepth {
		c.localCount--
		popped++
	}

	switch {
	case popped == 1:
		c.emitOp(OP_POP)
	case popped > 1:
		c.emitOp(OP_POPN)
		c.emitByte(byte(popped))
	}
}

// identifierConstant interns tok's lexeme and places it in the constant
// pool, returning the pool index used by every global-referencing
// opcode.
func (c *Compiler) identifierConstant(tok lexer.Token) int {
	s := c.heap.InternString([]byte(tok.Lexeme()))
	return c.makeConstant(ObjVal(s))
}

// resolveLocal scans locals from newest to oldest so shadowing always
// finds the innermost initialized declaration first. A local still at
// depth -1 (inside its own initializer) is skipped, so `var a = a + 1;`
// in an inner block reads the outer `a`; if no initialized local of that
// name exists, reading the uninitialized one is a compile error. Returns
// -1 if name isn't an initialized local, meaning the caller should fall
// back to treating it as global.
func (c *Compiler) resolveLocal(name lexer.Token) int {
	uninitialized := false
	for i := c.localCount - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.name != name.Lexeme() {
			continue
		}
		if local.depth == -1 {
			uninitialized = true
			continue
		}
		return i
	}
	if uninitialized {
		c.errorAtPrevious("Can't read local variable in its own initializer.")
	}
	return -1
}

func (c *Compiler) addLocal(name lexer.Token) {
	if c.localCount == maxLocals {
		c.errorAtPrevious("Too many local variables in function.")
		return
	}
	c.locals[c.localCount] = local{name: name.Lexeme(), depth: -1}
	c.localCount++
}

// declareVariable registers the variable named by the just-consumed
// identifier token as a local if we're inside a scope; at scope depth 0
// it's a global and needs no compile-time bookkeeping beyond the name
// constant identifierConstant already produced.
func (c *Compiler) declareVariable(name lexer.Token) {
	if c.scopeDepth == 0 {
		return
	}

	for i := c.localCount - 1; i >= 0; i-- {
		existing := c.locals[i]
		if existing.depth != -1 && existing.depth < c.scopeDepth {
			break
		}
		if existing.name == name.Lexeme() {
			c.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}

	c.addLocal(name)
}

// parseVariable consumes an identifier, declares it, and returns the
// constant-pool index to use if it turns out to be global (unused by
// the caller when the variable resolved to a local).
func (c *Compiler) parseVariable(message string) int {
	c.consume(lexer.IDENTIFIER, message)
	name := c.parser.previous
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

// markInitialized flips the most recently declared local from
// "declared" to "ready", which is what lets `{ var a = a; }` fail (the
// RHS reads `a` while it's still at depth -1) while `{ var a = 1; var b
// = a; }` succeeds.
func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[c.localCount-1].depth = c.scopeDepth
}

// defineVariable emits the global-definition opcode, or for a local
// simply marks it initialized: locals live on the stack already, there
// is nothing further to emit.
func (c *Compiler) defineVariable(globalIdx int) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitConstantRef(OP_DEFINE_GLOBAL, OP_DEFINE_GLOBAL_LONG, globalIdx)
}

// --- loop bookkeeping (continue) ---

func (c *Compiler) pushLoop(continueTarget int) {
	c.loops = append(c.loops, loopState{continueTarget: continueTarget})
}

func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) currentLoop() *loopState {
	if len(c.loops) == 0 {
		return nil
	}
	return &c.loops[len(c.loops)-1]
}

// synchronize advances past tokens until it finds a plausible statement
// boundary, ending panic-mode recovery so the compiler can keep
// reporting independent errors instead of a cascade from the same one.
func (c *Compiler) synchronize() {
	c.parser.panicMode = false

	for c.parser.current.Type != lexer.EOF {
		if c.parser.previous.Type == lexer.SEMICOLON {
			return
		}
		switch c.parser.current.Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN, lexer.SWITCH:
			return
		}
		c.advance()
	}
}
