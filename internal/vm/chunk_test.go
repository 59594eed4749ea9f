package vm

import "testing"

func TestChunkGetLineRunLengthEncoded(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OP_NIL, 1)
	c.WriteOp(OP_NIL, 1)
	c.WriteOp(OP_NIL, 2)
	c.WriteByte(0xAB, 2)
	c.WriteOp(OP_RETURN, 5)

	want := []int{1, 1, 2, 2, 5}
	for offset, line := range want {
		if got := c.GetLine(offset); got != line {
			t.Errorf("GetLine(%d) = %d, want %d", offset, got, line)
		}
	}
}

func TestChunkAddConstantReturnsStableIndex(t *testing.T) {
	c := NewChunk()
	i0 := c.AddConstant(NumberVal(10))
	i1 := c.AddConstant(NumberVal(20))

	if i0 != 0 || i1 != 1 {
		t.Fatalf("got indices %d, %d, want 0, 1", i0, i1)
	}
	if c.Constants[i0].Number != 10 || c.Constants[i1].Number != 20 {
		t.Fatalf("constant pool contents not preserved")
	}
}
