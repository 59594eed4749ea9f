package vm

// call implements OP_CALL: the callee sits at peek(argCount), beneath
// its already-pushed arguments. Only Function values are callable, and
// arity must match exactly — Lox has no variadic or default-arg calls.
func (vm *VM) call(argCount int) error {
	callee := vm.peek(argCount)
	if !callee.IsFunction() {
		return vm.runtimeError("Can only call functions and classes.")
	}

	fn := callee.AsFunction()
	if argCount != fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
	}

	if len(vm.frames) == vm.framesMax {
		return vm.runtimeError("Stack overflow.")
	}

	vm.frames = append(vm.frames, CallFrame{
		function: fn,
		ip:       0,
		base:     len(vm.stack) - argCount - 1,
	})
	return nil
}
