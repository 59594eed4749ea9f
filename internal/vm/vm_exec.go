package vm

import "fmt"

// dispatch is the VM's single instruction loop: read one opcode byte,
// read its operands, apply its documented stack effect, repeat until
// the outermost frame returns or a runtime error unwinds everything.
func (vm *VM) dispatch() error {
	for {
		frame := vm.currentFrame()
		op := Opcode(vm.readByte(frame))

		switch op {
		case OP_CONSTANT:
			vm.push(vm.readConstant(frame, 1))
		case OP_CONSTANT_LONG:
			vm.push(vm.readConstant(frame, 3))

		case OP_ZERO:
			vm.push(NumberVal(0))
		case OP_ONE:
			vm.push(NumberVal(1))
		case OP_TWO:
			vm.push(NumberVal(2))

		case OP_NIL:
			vm.push(NilVal())
		case OP_TRUE:
			vm.push(BoolVal(true))
		case OP_FALSE:
			vm.push(BoolVal(false))

		case OP_POP:
			vm.pop()
		case OP_POPN:
			n := int(vm.readByte(frame))
			vm.stack = vm.stack[:len(vm.stack)-n]

		case OP_GET_GLOBAL:
			if err := vm.getGlobal(frame, 1); err != nil {
				return err
			}
		case OP_GET_GLOBAL_LONG:
			if err := vm.getGlobal(frame, 3); err != nil {
				return err
			}
		case OP_SET_GLOBAL:
			if err := vm.setGlobal(frame, 1); err != nil {
				return err
			}
		case OP_SET_GLOBAL_LONG:
			if err := vm.setGlobal(frame, 3); err != nil {
				return err
			}
		case OP_DEFINE_GLOBAL:
			vm.defineGlobal(frame, 1)
		case OP_DEFINE_GLOBAL_LONG:
			vm.defineGlobal(frame, 3)

		case OP_GET_LOCAL:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.base+slot])
		case OP_SET_LOCAL:
			slot := int(vm.readByte(frame))
			vm.stack[frame.base+slot] = vm.peek(0)

		case OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equal(b)))
		case OP_NOT_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(!a.Equal(b)))

		case OP_GREATER, OP_GREATER_EQUAL, OP_LESS, OP_LESS_EQUAL, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE:
			if err := vm.binaryNumber(op); err != nil {
				return err
			}
		case OP_ADD:
			if err := vm.add(); err != nil {
				return err
			}

		case OP_NOT:
			vm.push(BoolVal(vm.pop().IsFalsey()))
		case OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(NumberVal(-vm.pop().Number))

		case OP_JUMP:
			offset := vm.readShort(frame)
			frame.ip += offset
		case OP_JUMP_IF_TRUE:
			offset := vm.readShort(frame)
			if !vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case OP_JUMP_IF_FALSE:
			offset := vm.readShort(frame)
			if vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case OP_JUMP_NOT_EQUAL:
			offset := vm.readShort(frame)
			caseVal := vm.pop()
			discriminant := vm.peek(0)
			if !discriminant.Equal(caseVal) {
				frame.ip += offset
			} else {
				vm.pop()
			}
		case OP_LOOP:
			offset := vm.readShort(frame)
			frame.ip -= offset

		case OP_CALL:
			argCount := int(vm.readByte(frame))
			if err := vm.call(argCount); err != nil {
				return err
			}

		case OP_PRINT:
			fmt.Fprintln(vm.out, vm.pop().String())

		case OP_RETURN:
			result := vm.pop()
			returning := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.stack = vm.stack[:returning.base]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.push(result)

		default:
			return vm.runtimeError("Unknown opcode %d.", byte(op))
		}
	}
}

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

// readShort reads the big-endian two-byte operand jump/loop opcodes
// use, distinct from the little-endian convention for every other
// multi-byte operand.
func (vm *VM) readShort(frame *CallFrame) int {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(frame *CallFrame, operandWidth int) Value {
	idx := vm.readIndex(frame, operandWidth)
	return frame.function.Chunk.Constants[idx]
}

func (vm *VM) readIndex(frame *CallFrame, operandWidth int) int {
	if operandWidth == 1 {
		return int(vm.readByte(frame))
	}
	b0 := vm.readByte(frame)
	b1 := vm.readByte(frame)
	b2 := vm.readByte(frame)
	return int(b0) | int(b1)<<8 | int(b2)<<16
}

func (vm *VM) readGlobalName(frame *CallFrame, operandWidth int) *StringObj {
	return vm.readConstant(frame, operandWidth).AsString()
}

func (vm *VM) getGlobal(frame *CallFrame, operandWidth int) error {
	name := vm.readGlobalName(frame, operandWidth)
	value, ok := vm.globals.Get(name)
	if !ok {
		return vm.runtimeError("Undefined variable '%s'.", name.String())
	}
	vm.push(value)
	return nil
}

// setGlobal mirrors the reference's own implementation trick: Set
// unconditionally stores the value, and its return value (whether the
// key was new) tells us whether the assignment target actually
// existed. If it didn't, the just-inserted entry is removed again and
// the assignment is an error.
func (vm *VM) setGlobal(frame *CallFrame, operandWidth int) error {
	name := vm.readGlobalName(frame, operandWidth)
	if vm.globals.Set(name, vm.peek(0)) {
		vm.globals.Delete(name)
		return vm.runtimeError("Undefined variable '%s'.", name.String())
	}
	return nil
}

func (vm *VM) defineGlobal(frame *CallFrame, operandWidth int) {
	name := vm.readGlobalName(frame, operandWidth)
	vm.globals.Set(name, vm.pop())
}
