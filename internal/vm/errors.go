package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrCompile and ErrRuntime are the two error kinds the CLI driver
// distinguishes to pick an exit code (65 vs 70); errors.Is matches
// through to either sentinel.
var (
	ErrCompile = errors.New("compile error")
	ErrRuntime = errors.New("runtime error")
)

// CompileError collects every diagnostic the compiler reported before
// giving up; panic-mode recovery means there can be more than one.
type CompileError struct {
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return strings.Join(e.Diagnostics, "\n")
}

func (e *CompileError) Unwrap() error { return ErrCompile }

// formatCompileDiagnostic renders one parser error in the
// "[line N] Error at '<lexeme>': <message>" / "... Error at end: ..."
// form the spec requires.
func formatCompileDiagnostic(line int, where string, message string) string {
	if where == "" {
		return fmt.Sprintf("[line %d] Error: %s", line, message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", line, where, message)
}

// stackTraceFrame is one line of a runtime error's unwind trace,
// innermost call first.
type stackTraceFrame struct {
	Line int
	Name string // "script" or a function name
}

// RuntimeError is the failure the VM raises for type mismatches,
// undefined variables, arity mismatches and stack overflow. It carries
// the frame stack at the moment of failure, innermost first, so the
// CLI can print one "[line N] in NAME()" line per frame, plus the ID
// of the VM instance that raised it, for correlating errors out of a
// host running several VMs (a REPL server, say) side by side.
type RuntimeError struct {
	Message string
	Frames  []stackTraceFrame
	VMID    uuid.UUID
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[vm %s] %s", e.VMID, e.Message)
	for _, f := range e.Frames {
		if f.Name == "script" {
			fmt.Fprintf(&sb, "\n[line %d] in script", f.Line)
			continue
		}
		fmt.Fprintf(&sb, "\n[line %d] in %s()", f.Line, f.Name)
	}
	return sb.String()
}

func (e *RuntimeError) Unwrap() error { return ErrRuntime }
