// Package executor drives one program under test through a scripted
// stdin/stdout conversation and reports a pass/fail verdict.
package executor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/tstl-lang/tstl/internal/script"
)

// ErrStdinClosed is returned when a script closes the child's standard
// input a second time, or the close itself fails because the child
// already hung up.
var ErrStdinClosed = errors.New("standard input already closed")

// Result is the verdict for one test script
type Result struct {
	Passed      bool
	Diagnostics []string
}

// Runner executes test scripts against one command. Command holds the
// program path and its arguments; a fresh process is launched per Run
// call. Trace, when set, receives a line per protocol step.
type Runner struct {
	Command []string
	Trace   func(format string, args ...interface{})
}

// Run replays the scanner's directives against a freshly launched child
// process, strictly in file order. Protocol violations (mismatched
// output, double-closed stdin, trailing output) and script syntax
// errors become a failed Result; only process-level I/O errors are
// returned as errors.
func (r *Runner) Run(src *script.Scanner) (Result, error) {
	defer src.Close()

	c, err := launch(r.Command)
	if err != nil {
		return Result{}, err
	}
	defer c.close()

	r.trace("launched %s (pid %d)", r.Command[0], c.cmd.Process.Pid)

	var diags []string
	for src.Scan() {
		d := src.Directive()
		r.trace("%s at %s", d.Kind, d.Origin)

		switch d.Kind {
		case script.KindInput:
			if _, err := io.WriteString(c.stdin, d.Text); err != nil {
				return Result{}, fmt.Errorf("writing to %s at %s: %w", r.Command[0], d.Origin, err)
			}

		case script.KindEndInput:
			if err := c.closeStdin(); err != nil {
				diags = append(diags,
					fmt.Sprintf("At %s", d.Origin),
					"Tried to close the standard input but it is already closed!")
				r.trace("failed: stdin already closed")
				return Result{Diagnostics: diags}, nil
			}

		case script.KindOutput:
			line, err := c.readLine()
			if err != nil {
				return Result{}, fmt.Errorf("reading from %s at %s: %w", r.Command[0], d.Origin, err)
			}
			if line != d.Text {
				diags = append(diags,
					fmt.Sprintf("At %s", d.Origin),
					fmt.Sprintf("Expected\t\"%s\"", strings.TrimSuffix(d.Text, "\n")),
					fmt.Sprintf("Got\t\t\"%s\"", strings.TrimSuffix(line, "\n")))
				r.trace("failed: output mismatch")
				return Result{Diagnostics: diags}, nil
			}

		case script.KindEndOutput:
			line, err := c.readLine()
			if err != nil {
				return Result{}, fmt.Errorf("reading from %s at %s: %w", r.Command[0], d.Origin, err)
			}
			if line != "" {
				diags = append(diags,
					fmt.Sprintf("Test failed at %s", d.Origin),
					"Expected End-Of-File",
					fmt.Sprintf("Got\t\t\"%s\"", strings.TrimSuffix(line, "\n")))
				r.trace("failed: trailing output")
				return Result{Diagnostics: diags}, nil
			}
		}
	}

	if err := src.Err(); err != nil {
		r.trace("failed: %v", err)
		return Result{Diagnostics: []string{err.Error()}}, nil
	}

	r.trace("passed")
	return Result{Passed: true}, nil
}

func (r *Runner) trace(format string, args ...interface{}) {
	if r.Trace != nil {
		r.Trace(format, args...)
	}
}

// child bundles the three live resources of one program under test:
// the stdin pipe, the merged stdout+stderr pipe, and the process
// handle. close releases all three on every Run exit path.
type child struct {
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdinClosed bool
	out         *bufio.Reader
	outPipe     *os.File
}

func launch(command []string) (*child, error) {
	if len(command) == 0 {
		return nil, errors.New("no command to launch")
	}
	cmd := exec.Command(command[0], command[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin pipe for %s: %w", command[0], err)
	}

	// One pipe carries both stdout and stderr so interleaved error
	// text is observable as output.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("opening output pipe for %s: %w", command[0], err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("starting %s: %w", command[0], err)
	}

	// The child holds the write end now; keeping ours open would mask
	// the child's EOF.
	pw.Close()

	return &child{cmd: cmd, stdin: stdin, out: bufio.NewReader(pr), outPipe: pr}, nil
}

// closeStdin closes the child's standard input once. A second close,
// or a close failing because the child already hung up, reports
// ErrStdinClosed.
func (c *child) closeStdin() error {
	if c.stdinClosed {
		return ErrStdinClosed
	}
	c.stdinClosed = true
	if err := c.stdin.Close(); err != nil {
		return ErrStdinClosed
	}
	return nil
}

// readLine reads up to and including the next newline, or whatever
// remains before end of stream. An empty string means the stream is
// exhausted.
func (c *child) readLine() (string, error) {
	line, err := c.out.ReadString('\n')
	if err != nil && err != io.EOF {
		return line, err
	}
	return line, nil
}

// close releases the child's resources and reaps the process. Called
// on every Run exit path.
func (c *child) close() {
	_ = c.closeStdin()
	_ = c.outPipe.Close()
	_ = c.cmd.Wait()
}
