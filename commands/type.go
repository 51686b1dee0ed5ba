package commands

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
)

// Type implements the AmigaDOS TYPE command.
func Type(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "type [OPTION]... FILE...",
		Short: "Print the contents of files.",
	}

	opts := cmd.Flags()
	number := opts.Bool('n', "number output lines")
	hexDump := opts.Bool('x', "print a hex dump")

	return cmd.RunEachArg(virtOS, shell.ReturnError, func(name string) error {
		fd, err := virtOS.Open(name)
		if err != nil {
			return fmt.Errorf("can't open '%s'", name)
		}
		defer fd.Close()

		w := virtOS.Stdout()
		if len(opts.Args()) > 1 && !*hexDump {
			fmt.Fprintf(w, "---------- %s ----------\n", name)
		}

		switch {
		case *hexDump:
			dumper := hex.Dumper(w)
			defer dumper.Close()
			_, err = io.Copy(dumper, fd)
		case *number:
			scanner := bufio.NewScanner(fd)
			for line := 1; scanner.Scan(); line++ {
				fmt.Fprintf(w, "%6d  %s\n", line, scanner.Text())
			}
			err = scanner.Err()
		default:
			_, err = io.Copy(w, fd)
		}

		if err != nil {
			return fmt.Errorf("error reading '%s'", name)
		}
		return nil
	})
}

var _ vos.ProcessFunc = Type

func init() {
	mustAddCmd("type", Type)
}
