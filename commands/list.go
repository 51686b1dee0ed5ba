package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
	"github.com/spf13/afero"
)

// List implements the AmigaDOS LIST command.
func List(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "list [OPTION]... [DIR]",
		Short: "List the contents of a directory.",
	}

	opts := cmd.Flags()
	all := opts.Bool('a', "include entries starting with .")
	var colorPrinter ColorPrinter
	colorPrinter.Init(opts, virtOS)

	return cmd.Run(virtOS, func() int {
		dir := "."
		switch args := opts.Args(); len(args) {
		case 0:
		case 1:
			dir = args[0]
		default:
			fmt.Fprintln(virtOS.Stderr(), "LIST: too many arguments")
			return shell.ReturnError
		}

		entries, err := afero.ReadDir(virtOS, dir)
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "LIST: %s: object not found\n", dir)
			return shell.ReturnError
		}

		tw := tabwriter.NewWriter(virtOS.Stdout(), 0, 8, 2, ' ', 0)
		files, dirs := 0, 0
		for _, fi := range entries {
			if !*all && strings.HasPrefix(fi.Name(), ".") {
				continue
			}

			if fi.IsDir() {
				dirs++
				name := colorPrinter.Sprintf(ColorBoldBlue, "%s", fi.Name())
				fmt.Fprintf(tw, "%s\tDir\t%s\n", name, fi.Mode())
				continue
			}

			files++
			name := fi.Name()
			if fi.Mode()&0111 != 0 {
				name = colorPrinter.Sprintf(ColorBoldGreen, "%s", name)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", name, fi.Size(), fi.Mode())
		}
		tw.Flush()

		fmt.Fprintf(virtOS.Stdout(), "%d files - %d directories\n", files, dirs)
		return shell.ReturnOK
	})
}

var _ vos.ProcessFunc = List

func init() {
	mustAddCmd("list", List)
}
