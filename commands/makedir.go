package commands

import (
	"fmt"
	"os"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
)

// MakeDir implements the AmigaDOS MAKEDIR command.
func MakeDir(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "makedir [OPTION]... DIR...",
		Short: "Create directories.",
	}

	parents := cmd.Flags().Bool('p', "create parent directories as needed")

	return cmd.RunEachArg(virtOS, shell.ReturnError, func(name string) error {
		var err error
		if *parents {
			err = virtOS.MkdirAll(name, 0755)
		} else {
			err = virtOS.Mkdir(name, 0755)
		}

		switch {
		case os.IsExist(err):
			return fmt.Errorf("'%s' already exists", name)
		case err != nil:
			return fmt.Errorf("can't create directory '%s'", name)
		}
		return nil
	})
}

var _ vos.ProcessFunc = MakeDir

func init() {
	mustAddCmd("makedir", MakeDir)
}
