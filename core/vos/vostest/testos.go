// Package vostest contains helpers for running code against an in-memory
// virtual OS.
package vostest

import (
	"bytes"
	"io"

	"github.com/josephlewis42/dosh/core/vos"
	"github.com/spf13/afero"
)

// NewDeterministicOS creates a task 1 process rooted in an empty in-memory
// filesystem.
func NewDeterministicOS() *vos.OS {
	return vos.NewOS(afero.NewMemMapFs(), vos.NewNullIO(), 1, "/")
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// VOS is the parent OS, it persists between runs so tests can set up
	// files before running the command.
	VOS *vos.OS

	Setup func(vos.VOS) error
}

func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		VOS:     NewDeterministicOS(),
	}
}

func (c *Cmd) CombinedOutput() ([]byte, error) {
	// stdout, stderr
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the comand and waits for it to complete.
func (c *Cmd) Run() error {
	if c.Dir != "" {
		if err := c.VOS.Chdir(c.Dir); err != nil {
			return err
		}
	}

	runner, err := c.VOS.StartProcess(c.Argv, &vos.ProcAttr{
		Files: vos.NewVIOAdapter(c.Stdin, c.Stdout, c.Stderr),
	})
	if err != nil {
		return err
	}

	if c.Setup != nil {
		if err := c.Setup(runner); err != nil {
			return err
		}
	}

	c.ExitStatus = c.Process(runner)
	return nil
}
