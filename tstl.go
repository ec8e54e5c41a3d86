// Package tstl provides a minimal public API for embedding the tstl
// test runner.
//
// Most users want the tstl command-line tool. This package exports only
// the essential types and functions needed by Go programs that want to
// parse .tstl scripts or run them against a command programmatically.
package tstl

import (
	"github.com/tstl-lang/tstl/internal/executor"
	"github.com/tstl-lang/tstl/internal/script"
)

// Core types for working with test scripts
type (
	Directive = script.Directive
	Kind      = script.Kind
	Scanner   = script.Scanner
	Result    = executor.Result
	Runner    = executor.Runner
)

// Directive kind constants
const (
	KindInput     = script.KindInput
	KindEndInput  = script.KindEndInput
	KindOutput    = script.KindOutput
	KindEndOutput = script.KindEndOutput
)

// Open opens a test script for scanning. The scanner yields the
// script's directives lazily, in file order.
func Open(path string) (*Scanner, error) {
	return script.Open(path)
}

// Run executes one test script against command, launching a fresh
// child process. Protocol violations and script syntax errors are
// reported in the Result; only process-level failures return an error.
func Run(path string, command []string) (Result, error) {
	src, err := script.Open(path)
	if err != nil {
		return Result{}, err
	}
	runner := &executor.Runner{Command: command}
	return runner.Run(src)
}
