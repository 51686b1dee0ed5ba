package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
	"github.com/josephlewis42/dosh/core/vos"
	"github.com/spf13/afero"
)

// Device is the assign the in-process commands are reachable under.
const Device = "C:"

// AllCommands holds a list of all registered commands by lower-case name.
var AllCommands = make(map[string]vos.ProcessFunc)

// mustAddCmd registers a command under C:, panicking on duplicates.
func mustAddCmd(name string, cmd vos.ProcessFunc) {
	name = strings.ToLower(name)
	if _, ok := AllCommands[name]; ok {
		panic(fmt.Sprintf("duplicate command %q", name))
	}
	AllCommands[name] = cmd
}

// ListCommands returns the registered command names, sorted.
func ListCommands() []string {
	var names []string
	for name := range AllCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCommandFS builds the filesystem that backs the C: assign: one
// executable placeholder file per command. Lookups ignore case.
func NewCommandFS() (vos.VFS, error) {
	fs := afero.NewMemMapFs()
	for _, name := range ListCommands() {
		if err := afero.WriteFile(fs, "/"+name, nil, 0755); err != nil {
			return nil, err
		}
	}
	return afero.NewReadOnlyFs(&lowerCaseFs{fs}), nil
}

// lowerCaseFs lower-cases names before reads.
type lowerCaseFs struct {
	afero.Fs
}

func (l *lowerCaseFs) Open(name string) (afero.File, error) {
	return l.Fs.Open(strings.ToLower(name))
}

func (l *lowerCaseFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return l.Fs.OpenFile(strings.ToLower(name), flag, perm)
}

func (l *lowerCaseFs) Stat(name string) (os.FileInfo, error) {
	return l.Fs.Stat(strings.ToLower(name))
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a sone line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(virtOS.Args(), nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stdout())
		return 10
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

// RunEachArg runs the callback for every positional argument, printing
// errors to stderr. The exit code is failCode if any of them failed.
func (s *SimpleCommand) RunEachArg(virtOS vos.VOS, failCode int, callback func(string) error) int {
	return s.Run(virtOS, func() int {
		args := s.Flags().Args()
		if len(args) == 0 {
			s.PrintHelp(virtOS.Stdout())
			return failCode
		}

		ret := 0
		for _, arg := range args {
			if err := callback(arg); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "%s: %s\n", strings.ToUpper(s.name()), err)
				ret = failCode
			}
		}
		return ret
	})
}

func (s *SimpleCommand) name() string {
	name, _, _ := strings.Cut(s.Use, " ")
	return name
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

// Colors are always enabled, ColorPrinter decides whether to use them.
var (
	ColorBoldBlue  = forceColor(color.New(color.FgBlue, color.Bold))
	ColorBoldGreen = forceColor(color.New(color.FgGreen, color.Bold))
)

func forceColor(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

type ColorPrinter struct {
	value  *string
	virtOS vos.VOS
}

// Init sets up the flag and virtual OS to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, virtOS vos.VOS) {
	c.virtOS = virtOS
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.virtOS.GetPTY().IsPTY
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
