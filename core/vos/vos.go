// Package vos provides the virtual operating system the shell runs against:
// a filesystem with AmigaDOS style assigns, a current directory and stdio.
package vos

import "github.com/spf13/afero"

// VFS implements a virtual filesystem.
type VFS = afero.Fs

type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// ProcAttr holds the attributes that will be applied to a new process started
// by StartProcess.
type ProcAttr struct {
	// Files holds the I/O for the new process, if nil the parent's I/O is
	// inherited.
	Files VIO
}

// VOS provides a virtual OS interface.
type VOS interface {
	VFS
	VIO

	// Args returns the arguments of the running process, the first is the
	// process name.
	Args() []string
	// Getpid returns the task number of the process.
	Getpid() int

	// Getwd returns the current working directory.
	Getwd() string
	// Chdir changes the current working directory, the target must be an
	// existing directory.
	Chdir(dir string) error
	// Abs resolves name against the current working directory.
	Abs(name string) string
	// Exists reports whether the path can be locked.
	Exists(name string) bool

	SetPTY(PTY)
	GetPTY() PTY

	// StartProcess creates a child process sharing the filesystem and working
	// directory of this one.
	StartProcess(argv []string, attr *ProcAttr) (VOS, error)
}

// ProcessFunc is the entrypoint of an in-process program.
type ProcessFunc func(VOS) int
