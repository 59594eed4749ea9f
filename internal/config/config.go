// Package config loads the optional loxvm.yaml file that tunes VM
// limits (frame depth, initial stack capacity, debug tracing) without
// recompiling. Every field has a zero-config default matching the
// hard-coded limits described for the VM, so the file only needs to
// exist when a script wants to override one of them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current loxvm release, set at build time via
// -ldflags or by editing this file directly.
var Version = "0.1.0"

const SourceFileExt = ".lox"

// Config is the top-level shape of loxvm.yaml.
type Config struct {
	// FramesMax caps call depth before a "Stack overflow." runtime error.
	FramesMax int `yaml:"frames_max,omitempty"`

	// StackCapacity is the operand stack's initial capacity, in slots.
	StackCapacity int `yaml:"stack_capacity,omitempty"`

	// Trace, when true, has the CLI disassemble a source file's top-level
	// script chunk to stderr before running it. Function bodies and REPL
	// lines are not disassembled.
	Trace bool `yaml:"trace,omitempty"`
}

// Default returns the configuration loxvm runs with when no
// loxvm.yaml is present or a field is left unset in one that is.
func Default() Config {
	return Config{
		FramesMax:     64,
		StackCapacity: 64 * 256,
		Trace:         false,
	}
}

// Load reads and parses path, filling any field the file omits from
// Default. A missing file is not an error: it simply yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var overrides Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if overrides.FramesMax != 0 {
		cfg.FramesMax = overrides.FramesMax
	}
	if overrides.StackCapacity != 0 {
		cfg.StackCapacity = overrides.StackCapacity
	}
	cfg.Trace = overrides.Trace

	return cfg, nil
}
