package vm

import "fmt"

// fnvOffset and fnvPrime are the FNV-1a 32-bit constants used to hash
// every string the compiler or VM creates.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

func hashBytes(b []byte) uint32 {
	h := fnvOffset
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime
	}
	return h
}

// ObjType tags the variant of a heap object.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
)

// Obj is implemented by every heap-allocated value. The reference
// implementation this is modeled on threads a `next` pointer through
// all heap objects so it can walk and free them at shutdown; since Go
// objects are garbage collected, the Heap's object list plays that same
// bookkeeping role (distinct objects allocated, released as a unit when
// the VM is closed) without any manual free logic.
type Obj interface {
	ObjType() ObjType
	String() string
}

// StringObj is an immutable, interned byte string. Two live StringObjs
// with equal bytes are always the same pointer; Heap.InternString is the
// only path that may construct one.
type StringObj struct {
	Chars []byte
	Hash  uint32
}

func (s *StringObj) ObjType() ObjType { return ObjTypeString }
func (s *StringObj) String() string   { return string(s.Chars) }

// FunctionObj is a compiled function: its arity, optional name (absent
// for the synthetic top-level script function) and the Chunk that holds
// its body.
type FunctionObj struct {
	Arity int
	Name  *StringObj
	Chunk *Chunk
}

func (f *FunctionObj) ObjType() ObjType { return ObjTypeFunction }
func (f *FunctionObj) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.String())
}

// Heap owns every object ever allocated by this VM plus the interning
// table that guarantees string identity. It is created once per VM and
// torn down once, in Close: there is no reclamation during execution,
// only at shutdown.
type Heap struct {
	objects []Obj
	strings *Table
}

func NewHeap() *Heap {
	return &Heap{strings: NewTable()}
}

// InternString returns the canonical StringObj for the given bytes,
// allocating and registering a new one only if no live string with the
// same bytes already exists.
func (h *Heap) InternString(chars []byte) *StringObj {
	hash := hashBytes(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := &StringObj{Chars: append([]byte(nil), chars...), Hash: hash}
	h.objects = append(h.objects, s)
	h.strings.Set(s, BoolVal(true))
	return s
}

// NewFunction allocates a (never interned) function object and threads
// it onto the heap's object list.
func (h *Heap) NewFunction() *FunctionObj {
	f := &FunctionObj{Chunk: NewChunk()}
	h.objects = append(h.objects, f)
	return f
}

// Close releases every heap object the VM ever allocated. With a
// garbage-collected host language there is nothing to manually free;
// dropping the references is what the reference implementation's
// leaves-to-root chain walk accomplishes.
func (h *Heap) Close() {
	h.objects = nil
	h.strings = nil
}

// Len reports how many objects are currently chained on the heap,
// mirroring the bookkeeping the intrusive object list gives the
// reference implementation (useful for tests and the debug REPL).
func (h *Heap) Len() int {
	return len(h.objects)
}
