package vm

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/foxscript/loxvm/internal/config"
)

// defaultFramesMax bounds call depth; defaultStackCapacity is its
// operand-stack counterpart (256 slots per frame), matching the
// initial capacity the stack is preallocated to. A loxvm.yaml may
// override both; see config.Config.
const (
	defaultFramesMax     = 64
	defaultStackCapacity = defaultFramesMax * 256
)

// CallFrame is one active function invocation: its Chunk, an
// instruction pointer into that chunk, and base, the operand-stack
// index where its slots (the called function itself, then its
// parameters and locals) begin.
type CallFrame struct {
	function *FunctionObj
	ip       int
	base     int
}

// VM is one interpreter instance: its operand stack, call frames,
// globals table and object heap. Nothing about it is global state —
// a caller may run as many VMs concurrently as it likes, each with its
// own ID for correlating logs or REPL sessions.
type VM struct {
	id        uuid.UUID
	stack     []Value
	frames    []CallFrame
	framesMax int
	globals   *Table
	heap      *Heap
	out       io.Writer
}

// New creates a VM that writes `print` output to out and allocates
// heap objects on heap. The caller owns heap and may share it across
// VMs that should observe the same interned strings.
func New(heap *Heap, out io.Writer) *VM {
	return NewWithConfig(heap, out, config.Default())
}

// NewWithConfig is New, but sized from cfg instead of the built-in
// defaults — the loxvm.yaml path for tuning frame depth and initial
// stack capacity.
func NewWithConfig(heap *Heap, out io.Writer, cfg config.Config) *VM {
	framesMax := cfg.FramesMax
	if framesMax <= 0 {
		framesMax = defaultFramesMax
	}
	stackCapacity := cfg.StackCapacity
	if stackCapacity <= 0 {
		stackCapacity = defaultStackCapacity
	}

	return &VM{
		id:        uuid.New(),
		stack:     make([]Value, 0, stackCapacity),
		frames:    make([]CallFrame, 0, framesMax),
		framesMax: framesMax,
		globals:   NewTable(),
		heap:      heap,
		out:       out,
	}
}

// ID identifies this VM instance, for logging correlation across a
// REPL session's successive Interpret calls.
func (vm *VM) ID() uuid.UUID { return vm.id }

// Interpret compiles source and runs it to completion. The returned
// error, when non-nil, wraps ErrCompile or ErrRuntime as appropriate
// via errors.Is.
func (vm *VM) Interpret(source string) error {
	fn, err := Compile(source, vm.heap)
	if err != nil {
		return err
	}
	return vm.run(fn)
}

// run starts a fresh top-level call. It resets the stack and frame
// list first: a prior Interpret may have ended mid-unwind after a
// runtime error, and base: 0 is only valid against an empty stack.
func (vm *VM) run(fn *FunctionObj) error {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.push(ObjVal(fn))
	vm.frames = append(vm.frames, CallFrame{function: fn, ip: 0, base: 0})
	return vm.dispatch()
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *CallFrame {
	return &vm.frames[len(vm.frames)-1]
}

// runtimeError builds a RuntimeError carrying a stack trace from every
// active frame (innermost first) and unwinds the VM's own frame stack,
// per the single-dispatch-loop cancellation model: there is no partial
// resumption after a runtime error.
func (vm *VM) runtimeError(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)

	frames := make([]stackTraceFrame, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := vm.frames[i]
		name := "script"
		if f.function.Name != nil {
			name = f.function.Name.String()
		}
		line := f.function.Chunk.GetLine(f.ip - 1)
		frames = append(frames, stackTraceFrame{Line: line, Name: name})
	}

	vm.frames = nil
	return &RuntimeError{Message: message, Frames: frames, VMID: vm.id}
}
