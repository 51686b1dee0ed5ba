package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AllBuiltins holds the internal commands keyed by their folded name. It's
// populated in init and only read afterwards.
var AllBuiltins = make(map[string]Builtin)

// Builtin is an internal command. args is the text after the verb.
type Builtin interface {
	Main(s *Shell, args string) int
}

type BuiltinFunc func(s *Shell, args string) int

func (f BuiltinFunc) Main(s *Shell, args string) int {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

func addBuiltin(name string, b BuiltinFunc) {
	AllBuiltins[foldName(name)] = b
}

// LookupBuiltin finds an internal command, ignoring case.
func LookupBuiltin(verb string) (Builtin, bool) {
	b, ok := AllBuiltins[foldName(verb)]
	return b, ok
}

// BuiltinNames lists the internal commands in upper case, sorted.
func BuiltinNames() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, strings.ToUpper(name))
	}
	sort.Strings(names)
	return names
}

// Cd changes or prints the current directory.
func Cd(s *Shell, args string) int {
	w := s.stdout()
	dir := unquote(strings.TrimSpace(args))
	if dir == "" {
		fmt.Fprintln(w, s.VirtualOS.Getwd())
		return ReturnOK
	}

	if err := s.VirtualOS.Chdir(dir); err != nil {
		if s.VirtualOS.Exists(dir) {
			fmt.Fprintln(w, "CD: Object not of required type")
			return ErrorObjectWrongType
		}
		fmt.Fprintln(w, "CD: Object not found")
		return ErrorObjectNotFound
	}
	return ReturnOK
}

// Quit stops the shell.
func Quit(s *Shell, args string) int {
	s.Running = false
	return ReturnOK
}

// Echo prints its arguments, a trailing NOLINE suppresses the newline.
func Echo(s *Shell, args string) int {
	text := strings.TrimRight(args, " ")
	noline := false

	switch {
	case strings.EqualFold(text, "NOLINE"):
		text, noline = "", true
	case len(text) > 6 && text[len(text)-7] == ' ' && strings.EqualFold(text[len(text)-6:], "NOLINE"):
		text, noline = strings.TrimRight(text[:len(text)-6], " "), true
	}

	text = unquote(text)
	if noline {
		fmt.Fprint(s.stdout(), text)
	} else {
		fmt.Fprintln(s.stdout(), text)
	}
	return ReturnOK
}

// Ask prompts for a yes/no answer.
func Ask(s *Shell, args string) int {
	response, ok := s.readResponse(unquote(strings.TrimSpace(args)))
	response = strings.TrimSpace(response)
	if ok && response != "" && (response[0] == 'y' || response[0] == 'Y') {
		return ReturnOK
	}
	return ReturnWarn
}

// Alias lists, shows, sets or deletes aliases.
func Alias(s *Shell, args string) int {
	w := s.stdout()
	if strings.TrimSpace(args) == "" {
		for _, entry := range s.Aliases.List() {
			fmt.Fprintf(w, "%-10s %s\n", entry.Name, entry.Value)
		}
		return ReturnOK
	}

	name, value, hasValue := strings.Cut(args, " ")
	value = strings.TrimLeft(value, " ")
	if value == `""` {
		value = ""
	}

	switch {
	case value != "":
		s.Aliases.Set(name, value)
	case hasValue:
		// An explicit empty value deletes.
		s.Aliases.Remove(name)
	default:
		current, ok := s.Aliases.Resolve(name)
		if !ok {
			fmt.Fprintf(w, "ALIAS: %s not found\n", name)
			return ReturnWarn
		}
		fmt.Fprintln(w, current)
	}
	return ReturnOK
}

// Which reports how a verb would be run.
func Which(s *Shell, args string) int {
	w := s.stdout()
	verb := strings.TrimSpace(args)
	if verb == "" {
		fmt.Fprintln(w, "WHICH: Usage: WHICH <command>")
		return ReturnWarn
	}

	if value, ok := s.Aliases.Resolve(verb); ok {
		fmt.Fprintf(w, "%s is an alias for %s\n", verb, value)
		return ReturnOK
	}

	if _, ok := LookupBuiltin(verb); ok {
		fmt.Fprintf(w, "%s is an internal command\n", verb)
		return ReturnOK
	}

	if resolved, ok := s.Paths.ResolveExternal(verb); ok {
		fmt.Fprintln(w, resolved)
		return ReturnOK
	}

	fmt.Fprintf(w, "WHICH: %s not found\n", verb)
	return ReturnWarn
}

// Why reports the last error an external command set.
func Why(s *Shell, args string) int {
	fmt.Fprintf(s.stdout(), "Last error: %d\n", s.LastError)
	return ReturnOK
}

// FaultCmd prints the messages for error codes.
func FaultCmd(s *Shell, args string) int {
	codes := strings.Fields(args)
	if len(codes) == 0 {
		return Why(s, args)
	}

	w := s.stdout()
	for _, raw := range codes {
		code, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(w, "FAULT: Bad number: %s\n", raw)
			return ReturnError
		}

		msg, ok := Fault(code)
		if !ok {
			msg = "unknown error"
		}
		fmt.Fprintf(w, "Fault %d: %s\n", code, msg)
	}
	return ReturnOK
}

// PromptCmd shows or sets the prompt template.
func PromptCmd(s *Shell, args string) int {
	w := s.stdout()
	if args == "" {
		fmt.Fprintln(w, s.Prompt)
		return ReturnOK
	}

	template := unquote(args)
	if utf8.RuneCountInString(template) >= MaxPromptLen {
		fmt.Fprintln(w, "PROMPT: String too long")
		return ReturnWarn
	}

	s.Prompt = template
	return ReturnOK
}

// Path manages the command search path.
func Path(s *Shell, args string) int {
	args = strings.TrimSpace(args)
	sub, rest := splitCommand(args)

	switch strings.ToUpper(sub) {
	case "", "SHOW":
		showPath(s)
		return ReturnOK
	case "RESET":
		s.Paths.Reset()
		return ReturnOK
	case "ADD":
		dir := unquote(strings.TrimSpace(rest))
		if dir == "" {
			fmt.Fprintln(s.stdout(), "PATH: Missing path to add")
			return ReturnWarn
		}
		return addPath(s, dir)
	default:
		return addPath(s, unquote(args))
	}
}

func showPath(s *Shell) {
	w := s.stdout()
	entries := s.Paths.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No paths defined")
		return
	}

	fmt.Fprintln(w, "Current path:")
	for _, dir := range entries {
		fmt.Fprintf(w, "  %s\n", dir)
	}
}

func addPath(s *Shell, dir string) int {
	err := s.Paths.Add(dir)
	switch {
	case errors.Is(err, ErrTooManyPaths):
		fmt.Fprintln(s.stdout(), "PATH: Too many paths")
		return ReturnWarn
	case err != nil:
		fmt.Fprintf(s.stdout(), "PATH: Directory not found: %s\n", dir)
		return ReturnWarn
	}
	return ReturnOK
}

// FailAt shows or sets the script failure threshold.
func FailAt(s *Shell, args string) int {
	w := s.stdout()
	raw := strings.TrimSpace(args)
	if raw == "" {
		fmt.Fprintf(w, "FAILAT %d\n", s.FailAt)
		return ReturnOK
	}

	level, err := strconv.Atoi(raw)
	if err != nil || level < 0 {
		fmt.Fprintf(w, "FAILAT: Bad number: %s\n", raw)
		return ReturnError
	}
	s.FailAt = level
	return ReturnOK
}

// Skip discards script lines up to the matching LAB. Without a label the next
// LAB matches.
func Skip(s *Shell, args string) int {
	w := s.stdout()
	if s.source == nil || s.source.IsInteractive() {
		fmt.Fprintln(w, "SKIP: Not supported in interactive mode")
		return ReturnFail
	}

	label := strings.TrimSpace(args)
	for {
		line, ok := s.source.NextLine()
		if !ok {
			fmt.Fprintln(w, "SKIP: Label not found")
			s.stopRun = true
			return ReturnFail
		}

		verb, rest := splitCommand(strings.TrimLeft(line, " \t"))
		if !strings.EqualFold(verb, "LAB") {
			continue
		}
		if label == "" || strings.EqualFold(strings.TrimSpace(rest), label) {
			return ReturnOK
		}
	}
}

// Lab marks a SKIP target.
func Lab(s *Shell, args string) int {
	return ReturnOK
}

// If opens a conditional block.
func If(s *Shell, args string) int {
	err := s.Blocks.If(func() bool {
		return s.evalCondition(args)
	})
	if err != nil {
		fmt.Fprintln(s.stdout(), "IF: Too many nested blocks")
		return ReturnFail
	}
	return ReturnOK
}

func (s *Shell) evalCondition(args string) bool {
	predicate, rest := splitCommand(strings.TrimSpace(args))

	switch strings.ToUpper(predicate) {
	case "WARN":
		return s.LastReturnCode >= ReturnWarn
	case "ERROR":
		return s.LastReturnCode >= ReturnError
	case "FAIL":
		return s.LastReturnCode >= ReturnFail
	case "EXISTS":
		name := unquote(strings.TrimSpace(rest))
		return name != "" && s.VirtualOS.Exists(name)
	default:
		return false
	}
}

// Else switches to the other branch of the current block.
func Else(s *Shell, args string) int {
	if err := s.Blocks.Else(); err != nil {
		fmt.Fprintln(s.stdout(), "ELSE: No matching IF")
		return ReturnFail
	}
	return ReturnOK
}

// EndIf closes the current block.
func EndIf(s *Shell, args string) int {
	if err := s.Blocks.EndIf(); err != nil {
		fmt.Fprintln(s.stdout(), "ENDIF: No matching IF")
		return ReturnFail
	}
	return ReturnOK
}

// Help lists the internal commands.
func Help(s *Shell, args string) int {
	w := s.stdout()
	fmt.Fprintln(w, "Internal commands:")
	fmt.Fprintln(w, strings.Join(BuiltinNames(), " "))
	fmt.Fprintln(w, "Other commands are searched for on the PATH.")
	return ReturnOK
}

func init() {
	addBuiltin("CD", Cd)
	addBuiltin("QUIT", Quit)
	addBuiltin("EXIT", Quit)
	addBuiltin("ENDCLI", Quit)
	addBuiltin("ECHO", Echo)
	addBuiltin("ASK", Ask)
	addBuiltin("ALIAS", Alias)
	addBuiltin("WHICH", Which)
	addBuiltin("WHY", Why)
	addBuiltin("FAULT", FaultCmd)
	addBuiltin("PROMPT", PromptCmd)
	addBuiltin("PATH", Path)
	addBuiltin("FAILAT", FailAt)
	addBuiltin("SKIP", Skip)
	addBuiltin("LAB", Lab)
	addBuiltin("IF", If)
	addBuiltin("ELSE", Else)
	addBuiltin("ENDIF", EndIf)
	addBuiltin("HELP", Help)
}
