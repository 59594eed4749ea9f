package vm

import (
	"fmt"

	"github.com/foxscript/loxvm/internal/lexer"
)

// Precedence climbs from loosest to tightest binding; parsePrecedence
// consumes tokens whose infix precedence is >= the level passed in.
type Precedence int

const (
	PREC_NONE Precedence = iota
	PREC_ASSIGNMENT        // =
	PREC_TERNARY           // ?:
	PREC_OR                // or
	PREC_AND               // and
	PREC_EQUALITY          // == !=
	PREC_COMPARISON        // < <= > >=
	PREC_TERM              // + -
	PREC_FACTOR            // * /
	PREC_UNARY             // ! -
	PREC_CALL              // . ()
	PREC_PRIMARY
)

type parseFn func(c *Compiler, canAssign bool)

// ParseRule is the per-token entry of the Pratt table: what to do when
// the token starts an expression (prefix), what to do when it appears
// after one (infix), and how tightly the infix form binds.
type ParseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[lexer.TokenType]ParseRule

func init() {
	rules = map[lexer.TokenType]ParseRule{
		lexer.LEFT_PAREN:    {prefix: grouping, infix: call, precedence: PREC_CALL},
		lexer.MINUS:         {prefix: unary, infix: binary, precedence: PREC_TERM},
		lexer.PLUS:          {infix: binary, precedence: PREC_TERM},
		lexer.SLASH:         {infix: binary, precedence: PREC_FACTOR},
		lexer.STAR:          {infix: binary, precedence: PREC_FACTOR},
		lexer.BANG:          {prefix: unary},
		lexer.BANG_EQUAL:    {infix: binary, precedence: PREC_EQUALITY},
		lexer.EQUAL_EQUAL:   {infix: binary, precedence: PREC_EQUALITY},
		lexer.GREATER:       {infix: binary, precedence: PREC_COMPARISON},
		lexer.GREATER_EQUAL: {infix: binary, precedence: PREC_COMPARISON},
		lexer.LESS:          {infix: binary, precedence: PREC_COMPARISON},
		lexer.LESS_EQUAL:    {infix: binary, precedence: PREC_COMPARISON},
		lexer.IDENTIFIER:    {prefix: variable},
		lexer.STRING:        {prefix: stringLiteral},
		lexer.NUMBER:        {prefix: number},
		lexer.AND:           {infix: and_, precedence: PREC_AND},
		lexer.OR:            {infix: or_, precedence: PREC_OR},
		lexer.FALSE:         {prefix: literal},
		lexer.TRUE:          {prefix: literal},
		lexer.NIL:           {prefix: literal},
		lexer.QUESTION:      {infix: ternary, precedence: PREC_TERNARY},
	}
}

func getRule(t lexer.TokenType) ParseRule {
	return rules[t]
}

// local is a compile-time record of a declared local variable. depth is
// -1 between declaration and the completion of its initializer, which
// is what makes `var a = a;` in the local's own initializer an error.
type local struct {
	name  string
	depth int
}

const maxLocals = 256

// loopState tracks the target `continue` loops back to: the condition
// re-check for `while`, or the increment clause for `for`.
type loopState struct {
	continueTarget int
}

// FunctionType distinguishes the synthetic top-level script function
// from a real `fun` declaration; only the latter requires an explicit
// return to be meaningful at the VM level.
type FunctionType int

const (
	funcTypeScript FunctionType = iota
	funcTypeFunction
)

// parserState is shared by every Compiler in a nested chain: the source
// is scanned exactly once, so an inner function compiler reads from the
// same token stream as its enclosing compiler.
type parserState struct {
	lexer       *lexer.Lexer
	current     lexer.Token
	previous    lexer.Token
	hadError    bool
	panicMode   bool
	diagnostics []string
}

// Compiler turns a token stream into bytecode for a single function
// body (or the top-level script), one token of lookahead at a time,
// with no intermediate AST.
type Compiler struct {
	parser    *parserState
	heap      *Heap
	enclosing *Compiler

	function *FunctionObj
	funcType FunctionType

	locals     [maxLocals]local
	localCount int
	scopeDepth int

	loops []loopState
}

// Compile compiles source into a top-level script Function, or returns
// a *CompileError describing every diagnostic panic-mode recovery let it
// collect.
func Compile(source string, heap *Heap) (*FunctionObj, error) {
	ps := &parserState{lexer: lexer.New(source)}
	c := newCompiler(ps, heap, nil, funcTypeScript)

	c.advance()
	for !c.check(lexer.EOF) {
		c.declaration()
	}
	c.consume(lexer.EOF, "Expect end of expression.")

	fn := c.endCompiler()
	if ps.hadError {
		return nil, &CompileError{Diagnostics: ps.diagnostics}
	}
	return fn, nil
}

func newCompiler(ps *parserState, heap *Heap, enclosing *Compiler, funcType FunctionType) *Compiler {
	c := &Compiler{
		parser:    ps,
		heap:      heap,
		enclosing: enclosing,
		function:  heap.NewFunction(),
		funcType:  funcType,
	}
	// Slot 0 is reserved for the function being called itself; giving it
	// an empty, inaccessible name keeps resolveLocal from ever matching it.
	c.locals[0] = local{name: "", depth: 0}
	c.localCount = 1
	return c
}

func (c *Compiler) endCompiler() *FunctionObj {
	c.emitReturn()
	return c.function
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.parser.previous = c.parser.current
	for {
		c.parser.current = c.parser.lexer.Next()
		if c.parser.current.Type != lexer.ERROR {
			break
		}
		c.errorAtCurrent(c.parser.current.Lexeme())
	}
}

func (c *Compiler) check(t lexer.TokenType) bool {
	return c.parser.current.Type == t
}

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t lexer.TokenType, message string) {
	if c.parser.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting ---

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.parser.current, message)
}

func (c *Compiler) errorAtPrevious(message string) {
	c.errorAt(c.parser.previous, message)
}

// errorAt records a diagnostic and enters panic mode. While panicking,
// further errors are swallowed until synchronize() finds a statement
// boundary, so one syntax mistake doesn't cascade into a wall of noise.
func (c *Compiler) errorAt(tok lexer.Token, message string) {
	if c.parser.panicMode {
		return
	}
	c.parser.panicMode = true
	c.parser.hadError = true

	var where string
	switch tok.Type {
	case lexer.EOF:
		where = "at end"
	case lexer.ERROR:
		where = ""
	default:
		where = fmt.Sprintf("at '%s'", tok.Lexeme())
	}
	c.parser.diagnostics = append(c.parser.diagnostics, formatCompileDiagnostic(tok.Line, where, message))
}

// --- bytecode emission ---

func (c *Compiler) chunk() *Chunk {
	return c.function.Chunk
}

func (c *Compiler) emitByte(b byte) {
	c.chunk().WriteByte(b, c.parser.previous.Line)
}

func (c *Compiler) emitOp(op Opcode) {
	c.chunk().WriteOp(op, c.parser.previous.Line)
}

func (c *Compiler) emitBytes(bs ...byte) {
	for _, b := range bs {
		c.emitByte(b)
	}
}

func (c *Compiler) emitReturn() {
	// A bare `return;` (and falling off the end of a function) returns nil.
	c.emitOp(OP_NIL)
	c.emitOp(OP_RETURN)
}

// emitJump writes op followed by a two-byte placeholder and returns the
// offset of that placeholder for patchJump to fill in later.
func (c *Compiler) emitJump(op Opcode) int {
	c.emitOp(op)
	c.emitBytes(0xff, 0xff)
	return c.chunk().Len() - 2
}

// patchJump backfills the placeholder at offset with the distance from
// the byte after the placeholder to the current end of the chunk,
// written big-endian.
func (c *Compiler) patchJump(offset int) {
	jump := c.chunk().Len() - offset - 2
	if jump > 65535 {
		c.errorAtPrevious("Too much code to jump over.")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

// emitLoop emits OP_LOOP with an operand that sends ip backward to
// loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(OP_LOOP)
	offset := c.chunk().Len() - loopStart + 2
	if offset > 65535 {
		c.errorAtPrevious("Loop body too large.")
	}
	c.emitBytes(byte(offset>>8), byte(offset))
}

// makeConstant appends value to the constant pool, enforcing the
// 2^24 hard limit described in the spec.
func (c *Compiler) makeConstant(value Value) int {
	idx := c.chunk().AddConstant(value)
	if idx >= maxConstants {
		c.errorAtPrevious("Too many constants in one chunk.")
		return 0
	}
	return idx
}

// emitConstantRef picks the 1-byte or 3-byte (little-endian) operand
// encoding for idx, using shortOp when it fits in a byte and longOp
// otherwise.
func (c *Compiler) emitConstantRef(shortOp, longOp Opcode, idx int) {
	if idx <= 0xff {
		c.emitOp(shortOp)
		c.emitByte(byte(idx))
		return
	}
	c.emitOp(longOp)
	c.emitBytes(byte(idx), byte(idx>>8), byte(idx>>16))
}

func (c *Compiler) emitConstant(value Value) {
	c.emitConstantRef(OP_CONSTANT, OP_CONSTANT_LONG, c.makeConstant(value))
}

// --- Pratt driver ---

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefixRule := getRule(c.parser.previous.Type).prefix
	if prefixRule == nil {
		c.errorAtPrevious("Expect expression.")
		return
	}

	canAssign := precedence <= PREC_ASSIGNMENT
	prefixRule(c, canAssign)

	for precedence <= getRule(c.parser.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.parser.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(lexer.EQUAL) {
		c.errorAtPrevious("Invalid assignment target.")
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PREC_ASSIGNMENT)
}
