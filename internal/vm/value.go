package vm

import (
	"fmt"
	"math"
)

// ValueType identifies which variant of Value is populated.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a tagged-union stack slot: Nil, Bool, Number (float64) or a
// reference into the object heap. Numbers and bools live inline so the
// common arithmetic path never touches the heap.
type Value struct {
	Type   ValueType
	Number float64
	Bool   bool
	Obj    Obj
}

func NilVal() Value               { return Value{Type: ValNil} }
func BoolVal(b bool) Value        { return Value{Type: ValBool, Bool: b} }
func NumberVal(n float64) Value   { return Value{Type: ValNumber, Number: n} }
func ObjVal(o Obj) Value          { return Value{Type: ValObj, Obj: o} }

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObj() bool    { return v.Type == ValObj }

func (v Value) IsString() bool {
	if v.Type != ValObj {
		return false
	}
	_, ok := v.Obj.(*StringObj)
	return ok
}

func (v Value) IsFunction() bool {
	if v.Type != ValObj {
		return false
	}
	_, ok := v.Obj.(*FunctionObj)
	return ok
}

func (v Value) AsString() *StringObj     { return v.Obj.(*StringObj) }
func (v Value) AsFunction() *FunctionObj { return v.Obj.(*FunctionObj) }

// Falsey is the extended falsiness used by conditional jumps: Nil,
// Bool(false) and Number(0) are all falsey.
func (v Value) Falsey() bool {
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return !v.Bool
	case ValNumber:
		return v.Number == 0
	default:
		return false
	}
}

// IsFalsey is the narrower predicate used by OP_NOT: only Nil and
// Bool(false) are falsey, Number(0) is truthy.
func (v Value) IsFalsey() bool {
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return !v.Bool
	default:
		return false
	}
}

// Equal implements Lox's type-strict equality: values of different tags
// are never equal, even across Number/Bool.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Bool == other.Bool
	case ValNumber:
		return v.Number == other.Number
	case ValObj:
		// Strings are interned, so identity comparison is sufficient and
		// correct for every heap object we support.
		return v.Obj == other.Obj
	default:
		return false
	}
}

// String renders a Value the way the `print` statement does: %g-style
// numbers, literal true/false/nil, raw string bytes, <fn NAME>/<script>.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.Number)
	case ValObj:
		return v.Obj.String()
	default:
		return "<?>"
	}
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	return fmt.Sprintf("%g", n)
}
