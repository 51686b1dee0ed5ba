package vos

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// SplitDevice splits an AmigaDOS style "DEVICE:rest" path. ok is false if the
// name doesn't start with a device.
func SplitDevice(name string) (device, rest string, ok bool) {
	idx := strings.Index(name, ":")
	if idx <= 0 || strings.Contains(name[:idx], "/") {
		return "", name, false
	}
	return name[:idx], name[idx+1:], true
}

// JoinPath joins a directory and a name. Device roots like "C:" are joined
// without a separator, matching AmigaDOS.
func JoinPath(dir, name string) string {
	switch {
	case dir == "":
		return name
	case strings.HasSuffix(dir, ":"):
		return dir + name
	default:
		return path.Join(dir, name)
	}
}

// Assign maps a device name to a filesystem.
type Assign struct {
	// Device is the upper-cased device name without the colon.
	Device string
	FS     VFS
}

func NewAssignFS(root VFS) *AssignFS {
	return &AssignFS{
		Root: root,
	}
}

// AssignFS routes "DEVICE:path" names to assigned filesystems and everything
// else to the root filesystem.
type AssignFS struct {
	// Root is the root filesystem.
	Root VFS
	// List of assigns, sorted by name.
	Assigns []Assign
}

// Assign attaches fs under the given device name, replacing any existing
// assign with the same name.
func (afs *AssignFS) Assign(device string, assignFS VFS) error {
	device = strings.ToUpper(strings.TrimSuffix(device, ":"))
	if device == "" || strings.ContainsAny(device, "/:") {
		return fmt.Errorf("invalid device name %q", device)
	}

	for i, a := range afs.Assigns {
		if a.Device == device {
			afs.Assigns[i].FS = assignFS
			return nil
		}
	}

	afs.Assigns = append(afs.Assigns, Assign{Device: device, FS: assignFS})
	sort.Slice(afs.Assigns, func(i, j int) bool {
		return afs.Assigns[i].Device < afs.Assigns[j].Device
	})

	return nil
}

// Resolve finds the filesystem and the name within it for the given path.
func (afs *AssignFS) Resolve(name string) (VFS, string) {
	device, rest, ok := SplitDevice(name)
	if !ok {
		return afs.Root, name
	}

	device = strings.ToUpper(device)
	for _, a := range afs.Assigns {
		if a.Device == device {
			return a.FS, path.Join("/", rest)
		}
	}

	return unassignedFs{device: device}, name
}

// unassignedFs stands in for a device with no assign, nothing on it exists.
type unassignedFs struct {
	device string
}

var _ VFS = unassignedFs{}

func (u unassignedFs) notExist(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
}

func (u unassignedFs) Create(name string) (afero.File, error) {
	return nil, u.notExist("create", name)
}

func (u unassignedFs) Mkdir(name string, perm fs.FileMode) error {
	return u.notExist("mkdir", name)
}

func (u unassignedFs) MkdirAll(name string, perm fs.FileMode) error {
	return u.notExist("mkdir", name)
}

func (u unassignedFs) Open(name string) (afero.File, error) {
	return nil, u.notExist("open", name)
}

func (u unassignedFs) OpenFile(name string, flag int, perm fs.FileMode) (afero.File, error) {
	return nil, u.notExist("open", name)
}

func (u unassignedFs) Remove(name string) error {
	return u.notExist("remove", name)
}

func (u unassignedFs) RemoveAll(name string) error {
	return u.notExist("remove", name)
}

func (u unassignedFs) Rename(oldname, newname string) error {
	return u.notExist("rename", oldname)
}

func (u unassignedFs) Stat(name string) (fs.FileInfo, error) {
	return nil, u.notExist("stat", name)
}

func (u unassignedFs) Name() string {
	return "unassigned " + u.device + ":"
}

func (u unassignedFs) Chmod(name string, mode fs.FileMode) error {
	return u.notExist("chmod", name)
}

func (u unassignedFs) Chown(name string, uid, gid int) error {
	return u.notExist("chown", name)
}

func (u unassignedFs) Chtimes(name string, atime, mtime time.Time) error {
	return u.notExist("chtimes", name)
}

var _ VFS = (*AssignFS)(nil)

func (afs *AssignFS) OpenFile(name string, flag int, perm fs.FileMode) (afero.File, error) {
	vfs, newname := afs.Resolve(name)
	return vfs.OpenFile(newname, flag, perm)
}

// Open opens a file, returning it or an error, if any happens.
func (afs *AssignFS) Open(name string) (afero.File, error) {
	vfs, newname := afs.Resolve(name)
	return vfs.Open(newname)
}

func (afs *AssignFS) Name() string {
	return "assign"
}

// Stat returns a FileInfo describing the named file, or an error, if any
// happens.
func (afs *AssignFS) Stat(name string) (fs.FileInfo, error) {
	vfs, newname := afs.Resolve(name)
	return vfs.Stat(newname)
}

// Rename renames (moves) oldpath to newpath. Files may not be moved across
// devices.
func (afs *AssignFS) Rename(oldname, newname string) error {
	ovfs, newoldname := afs.Resolve(oldname)
	nvfs, newnewname := afs.Resolve(newname)

	if ovfs != nvfs {
		return fmt.Errorf("stopping at device boundary")
	}

	return ovfs.Rename(newoldname, newnewname)
}

// RemoveAll removes a directory path and any children it contains. It
// does not fail if the path does not exist (return nil).
func (afs *AssignFS) RemoveAll(name string) error {
	vfs, newname := afs.Resolve(name)
	return vfs.RemoveAll(newname)
}

// Remove removes a file identified by name, returning an error, if any happens.
func (afs *AssignFS) Remove(name string) error {
	vfs, newname := afs.Resolve(name)
	return vfs.Remove(newname)
}

// MkdirAll creates a directory path and all parents that does not exist yet.
func (afs *AssignFS) MkdirAll(name string, mode fs.FileMode) error {
	vfs, newname := afs.Resolve(name)
	return vfs.MkdirAll(newname, mode)
}

// Mkdir creates a directory in the filesystem, return an error if any happens.
func (afs *AssignFS) Mkdir(name string, mode fs.FileMode) error {
	vfs, newname := afs.Resolve(name)
	return vfs.Mkdir(newname, mode)
}

// Create creates a file in the filesystem, returning the file and an
// error, if any happens.
func (afs *AssignFS) Create(name string) (afero.File, error) {
	vfs, newname := afs.Resolve(name)
	return vfs.Create(newname)
}

// Chtimes changes the access and modification times of the named file
func (afs *AssignFS) Chtimes(name string, atime, mtime time.Time) error {
	vfs, newname := afs.Resolve(name)
	return vfs.Chtimes(newname, atime, mtime)
}

// Chown changes the uid and gid of the named file.
func (afs *AssignFS) Chown(name string, uid, gid int) error {
	vfs, newname := afs.Resolve(name)
	return vfs.Chown(newname, uid, gid)
}

// Chmod changes the mode of the named file to mode.
func (afs *AssignFS) Chmod(name string, mode fs.FileMode) error {
	vfs, newname := afs.Resolve(name)
	return vfs.Chmod(newname, mode)
}
