package shell

import (
	"bufio"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
)

// LineSource supplies the interpreter with lines.
type LineSource interface {
	// NextLine blocks until a line is available, ok is false at the end of
	// input.
	NextLine() (line string, ok bool)
	// IsInteractive is true for terminals, it never changes.
	IsInteractive() bool
}

// Prompter is implemented by sources that draw their own prompt.
type Prompter interface {
	SetPrompt(prompt string)
}

// ScriptSource reads lines from a batch script.
type ScriptSource struct {
	scanner *bufio.Scanner
}

var _ LineSource = (*ScriptSource)(nil)

func NewScriptSource(r io.Reader) *ScriptSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), 1024*1024)
	return &ScriptSource{scanner: scanner}
}

// NextLine implements LineSource.NextLine.
func (s *ScriptSource) NextLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSuffix(s.scanner.Text(), "\r"), true
}

// IsInteractive implements LineSource.IsInteractive.
func (s *ScriptSource) IsInteractive() bool {
	return false
}

// Err returns the first non-EOF error reading the script.
func (s *ScriptSource) Err() error {
	return s.scanner.Err()
}

// ReadlineConfig holds the terminal the ReadlineSource is attached to.
type ReadlineConfig struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether the output is a terminal.
	IsTerminal func() bool
	// Width returns the terminal width.
	Width func() int
}

// ReadlineSource reads lines from a terminal with line editing and history.
type ReadlineSource struct {
	Readline *readline.Instance
}

var _ LineSource = (*ReadlineSource)(nil)
var _ Prompter = (*ReadlineSource)(nil)

func NewReadlineSource(rc ReadlineConfig) (*ReadlineSource, error) {
	cfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(rc.Stdin),
		Stdout:         rc.Stdout,
		Stderr:         rc.Stderr,
		FuncGetWidth:   rc.Width,
		FuncIsTerminal: rc.IsTerminal,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineSource{Readline: rl}, nil
}

// NextLine implements LineSource.NextLine.
func (r *ReadlineSource) NextLine() (string, bool) {
	line, err := r.Readline.Readline()
	switch {
	case err == nil:
		return line, true
	case err == readline.ErrInterrupt:
		// Interrupt clears line.
		return "", true
	case err == io.EOF:
		return "", false
	default:
		log.Printf("Error readline: %v", err)
		return "", false
	}
}

// IsInteractive implements LineSource.IsInteractive.
func (r *ReadlineSource) IsInteractive() bool {
	return true
}

// SetPrompt implements Prompter.SetPrompt.
func (r *ReadlineSource) SetPrompt(prompt string) {
	r.Readline.SetPrompt(prompt)
}

func (r *ReadlineSource) Close() error {
	return r.Readline.Close()
}
