// Package shell implements the dosh command interpreter: a read-eval loop
// over terminal or script input with aliases, a search path and nested
// IF/ELSE/ENDIF blocks.
package shell

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/josephlewis42/dosh/core/vos"
)

// Return codes, a script stops once a command returns at least FailAt.
const (
	ReturnOK    = 0
	ReturnWarn  = 5
	ReturnError = 10
	ReturnFail  = 20

	DefaultFailAt = ReturnError
)

// NotFound is returned by a Launcher when the command doesn't exist.
const NotFound = -1

// Launcher runs a fully resolved command line and waits for it to exit.
type Launcher interface {
	Run(ctx context.Context, commandLine string) int
}

type LauncherFunc func(ctx context.Context, commandLine string) int

func (f LauncherFunc) Run(ctx context.Context, commandLine string) int {
	return f(ctx, commandLine)
}

var _ Launcher = (LauncherFunc)(nil)

// EventRecorder stores interpreter events.
type EventRecorder interface {
	Record(eventType string, fields map[string]interface{}) error
}

// Event types recorded by the shell.
const (
	EventRunCommand     = "run_command"
	EventUnknownCommand = "unknown_command"
	EventBuiltinFailure = "builtin_failure"
	EventScriptAbort    = "script_abort"
)

// Shell holds the state of one interpreter.
type Shell struct {
	VirtualOS vos.VOS
	Launcher  Launcher
	Events    EventRecorder

	Aliases *AliasTable
	Paths   *PathList
	Blocks  *BlockStack

	// Prompt is the prompt template.
	Prompt string
	// FailAt is the return code at which scripts stop.
	FailAt int
	// LastReturnCode is the result of the last command.
	LastReturnCode int
	// LastError is the last code an external command set, reported by WHY.
	LastError int

	// Running is set to false to quit the shell.
	Running bool

	source       LineSource
	ignoreFailAt bool
	// stopRun ends the current Run without quitting the shell.
	stopRun bool
}

func NewShell(virtualOS vos.VOS, launcher Launcher) *Shell {
	return &Shell{
		VirtualOS: virtualOS,
		Launcher:  launcher,
		Aliases:   NewAliasTable(),
		Paths:     NewPathList(virtualOS),
		Blocks:    &BlockStack{},
		Prompt:    DefaultPrompt,
		FailAt:    DefaultFailAt,
		Running:   true,
	}
}

func (s *Shell) stdout() io.Writer {
	return s.VirtualOS.Stdout()
}

func (s *Shell) record(eventType string, fields map[string]interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(eventType, fields); err != nil {
		log.Printf("recording %s event: %v", eventType, err)
	}
}

// PromptString renders the prompt template with the shell's state.
func (s *Shell) PromptString() string {
	return FormatPrompt(s.Prompt, PromptBindings{
		TaskNum:    s.VirtualOS.Getpid(),
		Dir:        s.VirtualOS.Getwd(),
		ReturnCode: s.LastReturnCode,
	})
}

// Run reads and executes lines until the source is exhausted, the shell quits
// or ctx is done. It returns the last return code.
func (s *Shell) Run(ctx context.Context, src LineSource) int {
	prev, prevStop := s.source, s.stopRun
	s.source, s.stopRun = src, false
	defer func() { s.source, s.stopRun = prev, prevStop }()

	for s.Running && !s.stopRun && ctx.Err() == nil {
		if !src.IsInteractive() && !s.ignoreFailAt && s.LastReturnCode >= s.FailAt {
			fmt.Fprintf(s.stdout(), "Shell: Command failed (rc=%d)\n", s.LastReturnCode)
			s.record(EventScriptAbort, map[string]interface{}{
				"return_code": s.LastReturnCode,
				"fail_at":     s.FailAt,
			})
			break
		}

		if src.IsInteractive() {
			prompt := s.PromptString()
			if p, ok := src.(Prompter); ok {
				p.SetPrompt(prompt)
			} else {
				fmt.Fprint(s.stdout(), prompt)
			}
		}

		line, ok := src.NextLine()
		if !ok {
			break
		}
		s.Execute(ctx, line)
	}

	return s.LastReturnCode
}

// RunStartup runs a startup sequence. Failing commands don't stop it.
func (s *Shell) RunStartup(ctx context.Context, src LineSource) {
	s.ignoreFailAt = true
	defer func() { s.ignoreFailAt = false }()

	s.Run(ctx, src)
}

// Execute runs a single line.
func (s *Shell) Execute(ctx context.Context, line string) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimLeft(line, " \t")
	if line == "" || line[0] == ';' || line[0] == '*' {
		return
	}

	verb, args := splitCommand(line)
	verb, args, _ = expandAlias(s.Aliases, verb, args)
	if verb == "" {
		return
	}

	conditional := isConditional(verb)
	if !conditional && !s.Blocks.Executing() {
		return
	}

	rc := s.dispatch(ctx, verb, args)

	// Successful block verbs keep the previous code so IF WARN and IF ERROR
	// can be tested one after another.
	if conditional && rc == ReturnOK {
		return
	}
	s.LastReturnCode = rc
}

func (s *Shell) dispatch(ctx context.Context, verb, args string) int {
	if builtin, ok := LookupBuiltin(verb); ok {
		rc := builtin.Main(s, args)
		if rc != ReturnOK {
			s.record(EventBuiltinFailure, map[string]interface{}{
				"verb":        strings.ToUpper(verb),
				"args":        args,
				"return_code": rc,
			})
		}
		return rc
	}

	return s.runExternal(ctx, verb, args)
}

func (s *Shell) runExternal(ctx context.Context, verb, args string) int {
	resolved, ok := s.Paths.ResolveExternal(verb)
	if !ok || s.Launcher == nil {
		return s.unknownCommand(verb, args)
	}

	commandLine := quoteWord(resolved)
	if args != "" {
		commandLine += " " + args
	}

	rc := s.Launcher.Run(ctx, commandLine)
	if rc == NotFound {
		return s.unknownCommand(verb, args)
	}

	s.LastError = rc
	s.record(EventRunCommand, map[string]interface{}{
		"verb":          verb,
		"resolved_path": resolved,
		"command_line":  commandLine,
		"return_code":   rc,
	})
	return rc
}

func (s *Shell) unknownCommand(verb, args string) int {
	fmt.Fprintf(s.stdout(), "Unknown command: %s\n", verb)
	s.LastError = ErrorObjectNotFound
	s.record(EventUnknownCommand, map[string]interface{}{
		"verb": verb,
		"args": args,
	})
	return ReturnError
}

// readResponse prompts and reads a line from the current source.
func (s *Shell) readResponse(prompt string) (string, bool) {
	if s.source == nil {
		return "", false
	}

	if p, ok := s.source.(Prompter); ok && s.source.IsInteractive() {
		p.SetPrompt(prompt)
	} else if prompt != "" {
		fmt.Fprint(s.stdout(), prompt)
	}

	return s.source.NextLine()
}

func isConditional(verb string) bool {
	switch foldName(verb) {
	case "if", "else", "endif":
		return true
	}
	return false
}

// quoteWord double quotes a word containing blanks or quotes.
func quoteWord(word string) string {
	if !strings.ContainsAny(word, " \t\"'") {
		return word
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(word)
	return `"` + escaped + `"`
}

// unquote removes double quotes wrapping the whole string.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && strings.Count(s, `"`) == 2 {
		return s[1 : len(s)-1]
	}
	return s
}
