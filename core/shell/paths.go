package shell

import (
	"errors"
	"io/fs"

	"github.com/josephlewis42/dosh/core/vos"
)

// MaxPaths is the number of directories the search path can hold.
const MaxPaths = 16

var (
	ErrTooManyPaths = errors.New("too many paths")
	ErrDirNotFound  = errors.New("directory not found")
)

// StatFS is the part of the filesystem the search path needs.
type StatFS interface {
	Stat(name string) (fs.FileInfo, error)
}

// PathList is the ordered list of directories searched for commands.
type PathList struct {
	fs   StatFS
	dirs []string
}

func NewPathList(statFS StatFS) *PathList {
	return &PathList{fs: statFS}
}

// Add appends dir, it must be an existing directory. Entries aren't checked
// again after they're added.
func (p *PathList) Add(dir string) error {
	if len(p.dirs) >= MaxPaths {
		return ErrTooManyPaths
	}

	fi, err := p.fs.Stat(dir)
	if err != nil || !fi.IsDir() {
		return ErrDirNotFound
	}

	p.dirs = append(p.dirs, dir)
	return nil
}

// Reset removes all entries.
func (p *PathList) Reset() {
	p.dirs = nil
}

// Entries returns a copy of the search path.
func (p *PathList) Entries() []string {
	out := make([]string, len(p.dirs))
	copy(out, p.dirs)
	return out
}

func (p *PathList) isCommand(name string) bool {
	fi, err := p.fs.Stat(name)
	return err == nil && !fi.IsDir()
}

// ResolveExternal finds the command named verb. The verb is tried as given
// first, then joined with each entry in order.
func (p *PathList) ResolveExternal(verb string) (string, bool) {
	if verb == "" {
		return "", false
	}

	if p.isCommand(verb) {
		return verb, true
	}

	for _, dir := range p.dirs {
		candidate := vos.JoinPath(dir, verb)
		if p.isCommand(candidate) {
			return candidate, true
		}
	}

	return "", false
}
