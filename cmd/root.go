package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/josephlewis42/dosh/core"
	"github.com/josephlewis42/dosh/core/config"
	"github.com/josephlewis42/dosh/core/logger"
	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgPath      string
	eventLogPath string
	noStartup    bool
	commandText  string
)

// ExitCodeError ends the process with the interpreter's return code.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// loadConfigOrDefault falls back to the built-in configuration if there's no
// config.yaml.
func loadConfigOrDefault() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return configuration, err
}

// openEventLog opens the log named by --event-log, or the configured one.
// The returned closer is never nil.
func openEventLog(configuration *config.Configuration) (*logger.Logger, io.Closer, error) {
	var (
		fd  io.WriteCloser
		err error
	)

	switch {
	case eventLogPath != "":
		fd, err = os.OpenFile(eventLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	case configuration.HasDir() && configuration.EventLog != "":
		fd, err = configuration.OpenEventLog()
	default:
		return logger.NewNopLogger(), io.NopCloser(nil), nil
	}

	if err != nil {
		return nil, nil, err
	}
	return logger.NewJSONLinesLogRecorder(fd), fd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dosh [SCRIPT]",
	Short: "AmigaDOS style command shell",
	Long: `An AmigaDOS style command shell.

With no arguments dosh reads commands from the terminal, otherwise it runs
SCRIPT and exits with the return code of the last command.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfigOrDefault()
		if err != nil {
			return err
		}

		events, closer, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closer.Close()

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		sh, err := core.NewInterpreter(configuration, core.InterpreterOptions{
			Root:      afero.NewOsFs(),
			IO:        vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
			TaskNum:   1,
			Dir:       wd,
			AllowHost: true,
			Events:    events.NewSession(),
		})
		if err != nil {
			return err
		}

		rc, err := runShell(cmd, sh, configuration, args)
		if err != nil {
			return err
		}
		if rc != shell.ReturnOK {
			return &ExitCodeError{Code: rc}
		}
		return nil
	},
}

func runShell(cmd *cobra.Command, sh *shell.Shell, configuration *config.Configuration, args []string) (int, error) {
	ctx := cmd.Context()

	switch {
	case commandText != "":
		return sh.Run(ctx, shell.NewScriptSource(strings.NewReader(commandText))), nil

	case len(args) == 1:
		fd, err := sh.VirtualOS.Open(args[0])
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Shell: Could not open %s\n", args[0])
			return shell.ReturnFail, nil
		}
		defer fd.Close()
		return sh.Run(ctx, shell.NewScriptSource(fd)), nil

	case cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())):
		return runTerminal(cmd, sh, configuration)

	default:
		return sh.Run(ctx, shell.NewScriptSource(cmd.InOrStdin())), nil
	}
}

func runTerminal(cmd *cobra.Command, sh *shell.Shell, configuration *config.Configuration) (int, error) {
	stdoutFd := int(os.Stdout.Fd())
	width, height, err := term.GetSize(stdoutFd)
	if err != nil {
		width, height = 80, 24
	}
	sh.VirtualOS.SetPTY(vos.PTY{
		Width:  width,
		Height: height,
		Term:   os.Getenv("TERM"),
		IsPTY:  term.IsTerminal(stdoutFd),
	})

	src, err := shell.NewReadlineSource(shell.ReadlineConfig{
		Stdin:  os.Stdin,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		IsTerminal: func() bool {
			return term.IsTerminal(stdoutFd)
		},
		Width: func() int {
			if w, _, err := term.GetSize(stdoutFd); err == nil {
				return w
			}
			return width
		},
	})
	if err != nil {
		return 0, err
	}
	defer src.Close()

	if noStartup {
		return sh.Run(cmd.Context(), src), nil
	}
	return core.RunInteractive(cmd.Context(), sh, configuration, src), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().StringVar(&eventLogPath, "event-log", "", "append events to this file instead of the configured log")
	rootCmd.Flags().BoolVar(&noStartup, "no-startup", false, "don't print the banner or run the startup sequence")
	rootCmd.Flags().StringVarP(&commandText, "command", "c", "", "run the given commands and exit")
}
