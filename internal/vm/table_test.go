package vm

import "testing"

func TestTableSetGetDelete(t *testing.T) {
	table := NewTable()
	heap := NewHeap()

	foo := heap.InternString([]byte("foo"))
	bar := heap.InternString([]byte("bar"))

	if isNew := table.Set(foo, NumberVal(1)); !isNew {
		t.Fatalf("expected foo to be a new key")
	}
	if isNew := table.Set(bar, NumberVal(2)); !isNew {
		t.Fatalf("expected bar to be a new key")
	}
	if isNew := table.Set(foo, NumberVal(3)); isNew {
		t.Fatalf("expected foo to already be present")
	}

	if v, ok := table.Get(foo); !ok || v.Number != 3 {
		t.Fatalf("expected foo=3, got %v ok=%v", v, ok)
	}
	if v, ok := table.Get(bar); !ok || v.Number != 2 {
		t.Fatalf("expected bar=2, got %v ok=%v", v, ok)
	}

	if !table.Delete(foo) {
		t.Fatalf("expected delete to report foo was present")
	}
	if _, ok := table.Get(foo); ok {
		t.Fatalf("expected foo to be absent after delete")
	}
	// bar must still be reachable: the tombstone left by deleting foo
	// must not break bar's probe sequence.
	if v, ok := table.Get(bar); !ok || v.Number != 2 {
		t.Fatalf("expected bar to survive foo's tombstone, got %v ok=%v", v, ok)
	}
}

func TestTableGrowsAndRetainsEntries(t *testing.T) {
	table := NewTable()
	heap := NewHeap()

	keys := make([]*StringObj, 0, 64)
	for i := 0; i < 64; i++ {
		s := heap.InternString([]byte{byte('a' + i%26), byte(i)})
		keys = append(keys, s)
		table.Set(s, NumberVal(float64(i)))
	}

	for i, k := range keys {
		v, ok := table.Get(k)
		if !ok || v.Number != float64(i) {
			t.Fatalf("key %d: expected %d, got %v ok=%v", i, i, v, ok)
		}
	}
}

func TestFindStringInterning(t *testing.T) {
	heap := NewHeap()

	a := heap.InternString([]byte("hello"))
	b := heap.InternString([]byte("hello"))
	if a != b {
		t.Fatalf("expected interned strings with equal bytes to be the same object")
	}

	c := heap.InternString([]byte("world"))
	if a == c {
		t.Fatalf("expected distinct bytes to produce distinct objects")
	}
}

func TestTableDeleteThenSetMostRecentWins(t *testing.T) {
	table := NewTable()
	heap := NewHeap()
	key := heap.InternString([]byte("x"))

	table.Set(key, NumberVal(1))
	table.Delete(key)
	if _, ok := table.Get(key); ok {
		t.Fatalf("expected key to be absent after delete")
	}

	table.Set(key, NumberVal(42))
	if v, ok := table.Get(key); !ok || v.Number != 42 {
		t.Fatalf("expected most recent set to win, got %v ok=%v", v, ok)
	}
}
