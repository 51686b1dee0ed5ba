package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
)

// Launcher runs resolved command lines. Commands under C: run in-process,
// anything else is started as a host process if AllowHost is set.
type Launcher struct {
	VirtualOS vos.VOS
	// AllowHost permits starting host processes.
	AllowHost bool
}

var _ shell.Launcher = (*Launcher)(nil)

func NewLauncher(virtualOS vos.VOS, allowHost bool) *Launcher {
	return &Launcher{
		VirtualOS: virtualOS,
		AllowHost: allowHost,
	}
}

// Run implements shell.Launcher.Run.
func (l *Launcher) Run(ctx context.Context, commandLine string) int {
	argv, err := shlex.Split(commandLine, true)
	if err != nil {
		fmt.Fprintf(l.VirtualOS.Stdout(), "%s: %v\n", commandLine, err)
		return shell.ReturnError
	}
	if len(argv) == 0 {
		return shell.NotFound
	}

	if device, name, ok := vos.SplitDevice(argv[0]); ok && strings.EqualFold(device+":", Device) {
		return l.runInternal(strings.ToLower(name), argv[1:])
	}

	if !l.AllowHost {
		return shell.NotFound
	}
	return l.runHost(ctx, argv)
}

func (l *Launcher) runInternal(name string, args []string) int {
	proc, ok := AllCommands[name]
	if !ok {
		return shell.NotFound
	}

	child, err := l.VirtualOS.StartProcess(append([]string{name}, args...), nil)
	if err != nil {
		fmt.Fprintf(l.VirtualOS.Stdout(), "%s: %v\n", name, err)
		return shell.ReturnFail
	}
	return proc(child)
}

func (l *Launcher) runHost(ctx context.Context, argv []string) int {
	cmd := exec.CommandContext(ctx, l.VirtualOS.Abs(argv[0]), argv[1:]...)
	if wd := l.VirtualOS.Getwd(); path.IsAbs(wd) {
		cmd.Dir = wd
	}
	cmd.Stdin = l.VirtualOS.Stdin()
	cmd.Stdout = l.VirtualOS.Stdout()
	cmd.Stderr = l.VirtualOS.Stderr()

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return shell.ReturnOK
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		// Killed by a signal.
		return shell.ReturnFail
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return shell.NotFound
	case errors.Is(err, fs.ErrPermission):
		fmt.Fprintf(l.VirtualOS.Stdout(), "%s: file is not executable\n", argv[0])
		return shell.ReturnFail
	default:
		fmt.Fprintf(l.VirtualOS.Stdout(), "%s: %v\n", argv[0], err)
		return shell.ReturnFail
	}
}
