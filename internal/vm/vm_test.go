package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxscript/loxvm/internal/vm"
)

// run compiles and executes source against a fresh VM, returning
// everything written to stdout.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	heap := vm.NewHeap()
	defer heap.Close()

	var out bytes.Buffer
	machine := vm.New(heap, &out)
	err := machine.Interpret(source)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenationInterns(t *testing.T) {
	out, err := run(t, `
		var a = "he";
		var b = "llo";
		print a + b;
		print a + b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "hello\nhello\n", out)
}

func TestForLoopAccumulates(t *testing.T) {
	out, err := run(t, `
		var x = 0;
		for (var i = 0; i < 5; i = i + 1) { x = x + i; }
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, err := run(t, `
		fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestEqualityIsTypeStrict(t *testing.T) {
	out, err := run(t, `
		print "a" == "a";
		print 1 == true;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	out, err := run(t, `print undefined_var;`)
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrRuntime)
	assert.Contains(t, err.Error(), "Undefined variable 'undefined_var'.")
	assert.Empty(t, out)
}

func TestShadowingSeesOuterInInitializer(t *testing.T) {
	out, err := run(t, `{ var a = 1; { var a = a + 1; print a; } }`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestBlockScopingRestoresOuterBinding(t *testing.T) {
	out, err := run(t, `
		var s = "x";
		{ var s = "y"; print s; }
		print s;
	`)
	require.NoError(t, err)
	assert.Equal(t, "y\nx\n", out)
}

func TestUninitializedLocalSelfReferenceIsCompileError(t *testing.T) {
	_, err := run(t, `{ var a = a; }`)
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrCompile)
}

func TestSwitchFallsThroughToMatchedCaseOnly(t *testing.T) {
	out, err := run(t, `
		var n = 2;
		switch (n) {
			case 1: print "one";
			case 2: print "two";
			default: print "other";
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "two\n", out)
}

func TestSwitchDefaultRuns(t *testing.T) {
	out, err := run(t, `
		switch (99) {
			case 1: print "one";
			default: print "other";
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "other\n", out)
}

func TestContinueInWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			i = i + 1;
			if (i == 3) continue;
			sum = sum + i;
		}
		print sum;
	`)
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun add(a, b) { return a + b; }
		print add(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestTernaryIsRightAssociative(t *testing.T) {
	out, err := run(t, `print true ? 1 : false ? 2 : 3;`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestRuntimeErrorResetsStackForNextInterpret(t *testing.T) {
	heap := vm.NewHeap()
	defer heap.Close()
	var out bytes.Buffer
	machine := vm.New(heap, &out)

	err := machine.Interpret(`undefined_var;`)
	require.Error(t, err)

	out.Reset()
	err = machine.Interpret(`{ var a = 1; print a; }`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())
}

func TestTopLevelContinuesAfterFunctionReturn(t *testing.T) {
	_, err := run(t, `
		fun f() { return 1; }
		f();
		print "done";
	`)
	require.NoError(t, err)
}
