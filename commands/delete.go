package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
)

// Delete implements the AmigaDOS DELETE command.
func Delete(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "delete [OPTION]... FILE...",
		Short: "Delete files and directories.",
	}

	opts := cmd.Flags()
	all := opts.Bool('a', "delete directories and their contents")
	quiet := opts.Bool('q', "don't report deleted files")

	return cmd.RunEachArg(virtOS, shell.ReturnWarn, func(name string) error {
		fi, err := virtOS.Stat(name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("'%s' not found", name)
		case err != nil:
			return fmt.Errorf("cannot examine '%s'", name)
		case fi.IsDir() && !*all:
			return fmt.Errorf("'%s' is a directory (use -a for recursive delete)", name)
		case fi.IsDir():
			err = virtOS.RemoveAll(name)
		default:
			err = virtOS.Remove(name)
		}

		if err != nil {
			return fmt.Errorf("failed to delete '%s'", name)
		}
		if !*quiet {
			fmt.Fprintf(virtOS.Stdout(), "DELETE: Deleted '%s'\n", name)
		}
		return nil
	})
}

var _ vos.ProcessFunc = Delete

func init() {
	mustAddCmd("delete", Delete)
}
