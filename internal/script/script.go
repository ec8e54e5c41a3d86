// Package script parses .tstl test scripts into directive sequences.
//
// A script is a line-oriented UTF-8 file. Lines starting with '#' and
// blank lines are skipped; every other line must start with one of the
// four directive tokens. Payload text keeps its trailing newline so it
// can be compared byte-for-byte against child process output.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies what a directive does to the program under test
type Kind string

const (
	KindInput     Kind = "input"      // write payload to child stdin
	KindEndInput  Kind = "end_input"  // close child stdin
	KindOutput    Kind = "output"     // expect payload as next output line
	KindEndOutput Kind = "end_output" // expect end of output stream
)

// IsValid checks if the kind value is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindInput, KindEndInput, KindOutput, KindEndOutput:
		return true
	}
	return false
}

// Directive tokens, in the order they are matched against a raw line.
// The tokens are mutually prefix-exclusive, so first-match is also
// only-match.
const (
	TokenInput     = ">>> "
	TokenEndInput  = "!>>"
	TokenOutput    = "<<< "
	TokenEndOutput = "!<<"
)

var tokens = []struct {
	prefix string
	kind   Kind
}{
	{TokenInput, KindInput},
	{TokenEndInput, KindEndInput},
	{TokenOutput, KindOutput},
	{TokenEndOutput, KindEndOutput},
}

// Directive is one parsed instruction from a test script
type Directive struct {
	Kind   Kind
	Text   string // payload incl. trailing newline; empty for end markers
	Origin string // "<abs-path>:<1-based line>"
}

// SyntaxError reports a non-skipped line that matches no directive token
type SyntaxError struct {
	Origin string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid test at %s: expected line to start with one of %q, %q, %q, %q",
		e.Origin, TokenInput, TokenEndInput, TokenOutput, TokenEndOutput)
}

// Scanner lazily produces the directives of one script file in order.
// It is a single forward pass over an open file handle and cannot be
// restarted.
type Scanner struct {
	path    string // absolute
	f       *os.File
	r       *bufio.Reader
	line    int
	current Directive
	err     error
	done    bool
}

// Open opens a script file for scanning. The returned scanner owns the
// file handle and closes it when the scan finishes or fails.
func Open(path string) (*Scanner, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Scanner{path: abs, f: f, r: bufio.NewReader(f)}, nil
}

// Scan advances to the next directive. It returns false when the file
// is exhausted or a syntax error is found; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	for {
		line, err := s.r.ReadString('\n')
		if line != "" {
			s.line++
			d, ok := s.parse(line)
			if !ok {
				continue // comment or blank
			}
			if d.Kind == "" {
				s.fail(&SyntaxError{Origin: s.origin()})
				return false
			}
			s.current = d
			return true
		}
		if err == io.EOF {
			s.stop()
			return false
		}
		if err != nil {
			s.fail(fmt.Errorf("reading %s: %w", s.path, err))
			return false
		}
	}
}

// parse classifies one raw line. ok=false means the line produces no
// directive; ok=true with a zero Kind means the line is invalid.
func (s *Scanner) parse(line string) (Directive, bool) {
	if strings.HasPrefix(line, "#") {
		return Directive{}, false
	}
	if strings.TrimSpace(line) == "" {
		return Directive{}, false
	}
	for _, t := range tokens {
		if strings.HasPrefix(line, t.prefix) {
			d := Directive{Kind: t.kind, Origin: s.origin()}
			if t.kind == KindInput || t.kind == KindOutput {
				d.Text = line[len(t.prefix):]
			}
			return d, true
		}
	}
	return Directive{}, true
}

// Directive returns the directive found by the last successful Scan
func (s *Scanner) Directive() Directive {
	return s.current
}

// Err returns the first error encountered, nil on a clean end of file
func (s *Scanner) Err() error {
	return s.err
}

// Close releases the underlying file. Safe to call more than once and
// after the scan has already finished.
func (s *Scanner) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	s.done = true
	return f.Close()
}

func (s *Scanner) origin() string {
	return fmt.Sprintf("%s:%d", s.path, s.line)
}

func (s *Scanner) stop() {
	s.done = true
	_ = s.Close()
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.stop()
}
