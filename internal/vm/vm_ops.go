package vm

// binaryNumber implements every binary opcode that requires both
// operands to be Numbers: the four comparisons plus subtract/multiply/
// divide (add is special-cased separately for string concatenation).
func (vm *VM) binaryNumber(op Opcode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().Number
	a := vm.pop().Number

	switch op {
	case OP_GREATER:
		vm.push(BoolVal(a > b))
	case OP_GREATER_EQUAL:
		vm.push(BoolVal(a >= b))
	case OP_LESS:
		vm.push(BoolVal(a < b))
	case OP_LESS_EQUAL:
		vm.push(BoolVal(a <= b))
	case OP_SUBTRACT:
		vm.push(NumberVal(a - b))
	case OP_MULTIPLY:
		vm.push(NumberVal(a * b))
	case OP_DIVIDE:
		vm.push(NumberVal(a / b))
	}
	return nil
}

// add handles Number+Number and String+String; any other operand pair
// is a type error. String concatenation allocates a fresh byte slice
// and interns it, so the result participates in identity equality like
// any other string.
func (vm *VM) add() error {
	switch {
	case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
		b := vm.pop().Number
		a := vm.pop().Number
		vm.push(NumberVal(a + b))
		return nil

	case vm.peek(0).IsString() && vm.peek(1).IsString():
		b := vm.pop().AsString()
		a := vm.pop().AsString()
		combined := make([]byte, 0, len(a.Chars)+len(b.Chars))
		combined = append(combined, a.Chars...)
		combined = append(combined, b.Chars...)
		vm.push(ObjVal(vm.heap.InternString(combined)))
		return nil

	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}
