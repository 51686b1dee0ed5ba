package commands

import (
	"fmt"

	"github.com/josephlewis42/dosh/core/vos"
)

// Version is the dosh release, overridden at link time.
var Version = "0.3.0"

// VersionCmd prints the shell version.
func VersionCmd(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "version",
		Short: "Print the shell version.",
	}

	return cmd.Run(virtOS, func() int {
		fmt.Fprintf(virtOS.Stdout(), "dosh %s\n", Version)
		return 0
	})
}

var _ vos.ProcessFunc = VersionCmd

func init() {
	mustAddCmd("version", VersionCmd)
}
