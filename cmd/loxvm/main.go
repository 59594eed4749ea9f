// Command loxvm runs Lox source files, or starts a REPL when invoked
// with no arguments.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/foxscript/loxvm/internal/config"
	"github.com/foxscript/loxvm/internal/vm"
)

const (
	exitOK         = 0
	exitCompileErr = 65
	exitRuntimeErr = 70
	exitIOErr      = 74

	configFileName = "loxvm.yaml"
)

func main() {
	if len(os.Args) == 2 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(config.Version)
		return
	}

	cfg, err := config.Load(configFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitIOErr)
	}

	switch len(os.Args) {
	case 1:
		runREPL(cfg)
	case 2:
		os.Exit(runFile(cfg, os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [path]\n", filepath.Base(os.Args[0]))
		os.Exit(exitIOErr)
	}
}

// runFile compiles and runs the named source file once, returning the
// process exit code its outcome maps to.
func runFile(cfg config.Config, path string) int {
	if ext := filepath.Ext(path); ext != config.SourceFileExt {
		fmt.Fprintf(os.Stderr, "Warning: %s does not have the %s extension\n", path, config.SourceFileExt)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return exitIOErr
	}

	heap := vm.NewHeap()
	defer heap.Close()
	machine := vm.NewWithConfig(heap, os.Stdout, cfg)

	if cfg.Trace {
		traceCompile(string(source), heap)
	}

	if err := machine.Interpret(string(source)); err != nil {
		return reportError(err)
	}
	return exitOK
}

// runREPL reads one line at a time from stdin, compiling and running
// each as its own program against a shared VM (so top-level `var`
// declarations persist across lines). A prompt is only printed when
// stdin is an interactive terminal, so piped input stays script-clean.
func runREPL(cfg config.Config) {
	heap := vm.NewHeap()
	defer heap.Close()
	machine := vm.NewWithConfig(heap, os.Stdout, cfg)

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := machine.Interpret(line); err != nil {
			reportError(err)
		}
	}
}

func reportError(err error) int {
	fmt.Fprintln(os.Stderr, err.Error())
	switch {
	case errors.Is(err, vm.ErrCompile):
		return exitCompileErr
	case errors.Is(err, vm.ErrRuntime):
		return exitRuntimeErr
	default:
		return exitIOErr
	}
}

func traceCompile(source string, heap *vm.Heap) {
	fn, err := vm.Compile(source, heap)
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, vm.Disassemble(fn.Chunk, "script"))
}
