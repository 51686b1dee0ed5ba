// Package core wires the interpreter to its configuration, the in-process
// commands and the SSH server.
package core

import (
	"context"
	"fmt"

	"github.com/josephlewis42/dosh/commands"
	"github.com/josephlewis42/dosh/core/config"
	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
)

// ScriptsDevice holds the startup sequence and other scripts.
const ScriptsDevice = "S:"

// InterpreterOptions describes the process the interpreter runs as.
type InterpreterOptions struct {
	// Root is the filesystem for names without a device.
	Root vos.VFS
	// IO holds the interpreter's standard streams.
	IO vos.VIO
	// TaskNum is the CLI number shown by %N.
	TaskNum int
	// Dir is the starting directory.
	Dir string
	// AllowHost lets the interpreter start host processes.
	AllowHost bool
	// Events receives interpreter events, it may be nil.
	Events shell.EventRecorder
}

// NewInterpreter creates a shell configured from cfg. C: holds the in-process
// commands and S: the configuration's scripts directory if it has one.
func NewInterpreter(cfg *config.Configuration, opts InterpreterOptions) (*shell.Shell, error) {
	virtOS := vos.NewOS(opts.Root, opts.IO, opts.TaskNum, opts.Dir)

	commandFS, err := commands.NewCommandFS()
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", commands.Device, err)
	}
	if err := virtOS.Assign(commands.Device, commandFS); err != nil {
		return nil, err
	}

	if cfg.HasDir() {
		scriptsFS, err := cfg.ScriptsFs()
		if err != nil {
			return nil, err
		}
		if err := virtOS.Assign(ScriptsDevice, scriptsFS); err != nil {
			return nil, err
		}
	}

	sh := shell.NewShell(virtOS, commands.NewLauncher(virtOS, opts.AllowHost))
	sh.Prompt = cfg.Prompt
	sh.FailAt = cfg.FailAt
	if opts.Events != nil {
		sh.Events = opts.Events
	}

	// Entries that don't exist are skipped.
	for _, dir := range cfg.DefaultPath {
		_ = sh.Paths.Add(dir)
	}

	return sh, nil
}

// RunInteractive prints the banner, runs the startup sequence and then reads
// commands from src until it's exhausted or the shell quits.
func RunInteractive(ctx context.Context, sh *shell.Shell, cfg *config.Configuration, src shell.LineSource) int {
	if cfg.Banner != "" {
		fmt.Fprintln(sh.VirtualOS.Stdout(), cfg.Banner)
	}

	if err := RunStartupSequence(ctx, sh, cfg.StartupSequence); err != nil {
		fmt.Fprintf(sh.VirtualOS.Stdout(), "Shell: %v\n", err)
	}

	return sh.Run(ctx, src)
}

// RunStartupSequence runs the named script without checking FAILAT. A missing
// script isn't an error.
func RunStartupSequence(ctx context.Context, sh *shell.Shell, name string) error {
	if name == "" || !sh.VirtualOS.Exists(name) {
		return nil
	}

	fd, err := sh.VirtualOS.Open(name)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", name, err)
	}
	defer fd.Close()

	src := shell.NewScriptSource(fd)
	sh.RunStartup(ctx, src)
	return src.Err()
}
