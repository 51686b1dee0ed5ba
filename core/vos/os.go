package vos

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// ErrNotDir is returned when changing into something that isn't a directory.
var ErrNotDir = errors.New("not a directory")

// OS is a single process view of the virtual OS. Relative names are resolved
// against the process's working directory before reaching the filesystem.
type OS struct {
	fs   *AssignFS
	vio  VIO
	args []string
	pid  int
	cwd  string
	// pty is shared with child processes so window changes reach them.
	pty *sharedPTY
}

type sharedPTY struct {
	mu  sync.Mutex
	pty PTY
}

var _ VOS = (*OS)(nil)

// NewOS creates a process with the given root filesystem, I/O, task number
// and working directory.
func NewOS(root VFS, vio VIO, pid int, cwd string) *OS {
	if vio == nil {
		vio = NewNullIO()
	}
	if cwd == "" {
		cwd = "/"
	}

	return &OS{
		fs:  NewAssignFS(root),
		vio: vio,
		pid: pid,
		cwd: cwd,
		pty: &sharedPTY{},
	}
}

// Assign attaches a filesystem to a device name e.g. "C:".
func (o *OS) Assign(device string, assignFS VFS) error {
	return o.fs.Assign(device, assignFS)
}

// Assigns returns the attached device names.
func (o *OS) Assigns() []string {
	var out []string
	for _, a := range o.fs.Assigns {
		out = append(out, a.Device+":")
	}
	return out
}

func (o *OS) Stdin() io.ReadCloser   { return o.vio.Stdin() }
func (o *OS) Stdout() io.WriteCloser { return o.vio.Stdout() }
func (o *OS) Stderr() io.WriteCloser { return o.vio.Stderr() }

func (o *OS) Args() []string { return o.args }
func (o *OS) Getpid() int    { return o.pid }
func (o *OS) Getwd() string  { return o.cwd }

// SetPTY implements VOS.SetPTY.
func (o *OS) SetPTY(pty PTY) {
	o.pty.mu.Lock()
	defer o.pty.mu.Unlock()
	o.pty.pty = pty
}

// GetPTY implements VOS.GetPTY.
func (o *OS) GetPTY() PTY {
	o.pty.mu.Lock()
	defer o.pty.mu.Unlock()
	return o.pty.pty
}

// Abs implements VOS.Abs.
func (o *OS) Abs(name string) string {
	switch {
	case name == "":
		return o.cwd
	case path.IsAbs(name):
		return path.Clean(name)
	}

	if _, _, ok := SplitDevice(name); ok {
		return name
	}

	if device, rest, ok := SplitDevice(o.cwd); ok {
		joined := strings.TrimPrefix(path.Join("/", rest, name), "/")
		return device + ":" + joined
	}

	return path.Join(o.cwd, name)
}

// Exists implements VOS.Exists.
func (o *OS) Exists(name string) bool {
	_, err := o.Stat(name)
	return err == nil
}

// Chdir implements VOS.Chdir.
func (o *OS) Chdir(dir string) error {
	abs := o.Abs(dir)
	fi, err := o.fs.Stat(abs)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: ErrNotDir}
	}

	o.cwd = abs
	return nil
}

// StartProcess implements VOS.StartProcess.
func (o *OS) StartProcess(argv []string, attr *ProcAttr) (VOS, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("start process: missing argv[0]")
	}

	child := *o
	child.args = argv
	if attr != nil && attr.Files != nil {
		child.vio = attr.Files
	}
	return &child, nil
}

func (o *OS) Name() string {
	return "vos"
}

func (o *OS) Create(name string) (afero.File, error) {
	return o.fs.Create(o.Abs(name))
}

func (o *OS) Mkdir(name string, perm fs.FileMode) error {
	return o.fs.Mkdir(o.Abs(name), perm)
}

func (o *OS) MkdirAll(name string, perm fs.FileMode) error {
	return o.fs.MkdirAll(o.Abs(name), perm)
}

func (o *OS) Open(name string) (afero.File, error) {
	return o.fs.Open(o.Abs(name))
}

func (o *OS) OpenFile(name string, flag int, perm fs.FileMode) (afero.File, error) {
	return o.fs.OpenFile(o.Abs(name), flag, perm)
}

func (o *OS) Remove(name string) error {
	return o.fs.Remove(o.Abs(name))
}

func (o *OS) RemoveAll(name string) error {
	return o.fs.RemoveAll(o.Abs(name))
}

func (o *OS) Rename(oldname, newname string) error {
	return o.fs.Rename(o.Abs(oldname), o.Abs(newname))
}

func (o *OS) Stat(name string) (fs.FileInfo, error) {
	return o.fs.Stat(o.Abs(name))
}

func (o *OS) Chmod(name string, mode fs.FileMode) error {
	return o.fs.Chmod(o.Abs(name), mode)
}

func (o *OS) Chown(name string, uid, gid int) error {
	return o.fs.Chown(o.Abs(name), uid, gid)
}

func (o *OS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return o.fs.Chtimes(o.Abs(name), atime, mtime)
}
