package vm

import (
	"strings"
	"testing"
)

func TestCompilePanicModeRecoversAtNextStatement(t *testing.T) {
	heap := NewHeap()
	defer heap.Close()

	_, err := Compile(`print ; print 1;`, heap)
	if err == nil {
		t.Fatal("expected compile error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if len(ce.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic from panic-mode recovery, got %d: %v", len(ce.Diagnostics), ce.Diagnostics)
	}
}

func TestCompileInvalidAssignmentTarget(t *testing.T) {
	heap := NewHeap()
	defer heap.Close()

	_, err := Compile(`1 + 2 = 3;`, heap)
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), "Invalid assignment target.") {
		t.Fatalf("got %q", err.Error())
	}
}

func TestCompileEmitsLongConstantOperandPastByteRange(t *testing.T) {
	heap := NewHeap()
	defer heap.Close()

	var sb strings.Builder
	sb.WriteString("var sink = 0;\n")
	for i := 0; i < 300; i++ {
		sb.WriteString("sink = ")
		sb.WriteString(strings.Repeat("9", 1))
		sb.WriteString(";\n")
	}
	// 300 distinct string constants forces the pool past index 255.
	for i := 0; i < 300; i++ {
		sb.WriteString("print \"")
		for j := 0; j <= i; j++ {
			sb.WriteByte('a' + byte(j%26))
		}
		sb.WriteString("\";\n")
	}

	fn, err := Compile(sb.String(), heap)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	foundLong := false
	for _, b := range fn.Chunk.Code {
		if Opcode(b) == OP_CONSTANT_LONG {
			foundLong = true
			break
		}
	}
	if !foundLong {
		t.Fatal("expected at least one OP_CONSTANT_LONG once the pool exceeds 255 entries")
	}
}
